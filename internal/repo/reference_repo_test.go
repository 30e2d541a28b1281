package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

func TestHospitals_ByOwnerOldestWins(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	w := Audited(db, "admin")

	first, err := CreateHospital(ctx, w, "  First ", "FIR", "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Name != "First" || first.AddedBy != "admin" {
		t.Fatalf("unexpected hospital: %+v", first)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := CreateHospital(ctx, w, "Second", "SEC", "owner"); err != nil {
		t.Fatalf("create second: %v", err)
	}

	got, err := GetHospitalByOwner(ctx, db, "owner")
	if err != nil || got.ID != first.ID {
		t.Fatalf("expected oldest hospital, got %+v err=%v", got, err)
	}
	if _, err := GetHospitalByOwner(ctx, db, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if h, err := GetHospital(ctx, db, first.ID); err != nil || h.Code != "FIR" {
		t.Fatalf("get by id: %+v err=%v", h, err)
	}
}

func TestBloodGroups_Lookup(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	if _, err := SeedBloodGroups(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	bg, err := GetBloodGroupByName(ctx, db, " ab+ ")
	if err != nil || bg.Name != "AB+" {
		t.Fatalf("by name: %+v err=%v", bg, err)
	}
	again, err := GetBloodGroup(ctx, db, bg.ID)
	if err != nil || again.Name != "AB+" {
		t.Fatalf("by id: %+v err=%v", again, err)
	}
	if _, err := GetBloodGroup(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecipients_ListAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	idn := "X-42"
	other := &domain.Recipient{Name: "Adam Smith", IDNumber: &idn, HospitalID: f.hospital.ID, Gender: domain.GenderMale}
	if err := CreateRecipient(ctx, Audited(f.db, "u1"), other); err != nil {
		t.Fatalf("create: %v", err)
	}
	elsewhere, err := CreateHospital(ctx, Audited(f.db, "admin"), "Elsewhere", "ELS", "u2")
	if err != nil {
		t.Fatalf("create hospital: %v", err)
	}
	foreign := &domain.Recipient{Name: "Zed", HospitalID: elsewhere.ID, Gender: domain.GenderMale}
	if err := CreateRecipient(ctx, Audited(f.db, "u1"), foreign); err != nil {
		t.Fatalf("create foreign: %v", err)
	}

	n, err := CountRecipients(ctx, f.db, f.hospital.ID, "")
	if err != nil || n != 2 {
		t.Fatalf("count: %d err=%v", n, err)
	}
	list, err := ListRecipientsPage(ctx, f.db, f.hospital.ID, "", 0, 10)
	if err != nil || len(list) != 2 || list[0].Name != "Adam Smith" {
		t.Fatalf("list ordered by name: %+v err=%v", list, err)
	}
	if list[1].BloodGroup == nil || list[1].BloodGroup.Name != "O-" {
		t.Fatalf("expected blood group preloaded: %+v", list[1])
	}

	list, err = ListRecipientsPage(ctx, f.db, f.hospital.ID, "x-4", 0, 10)
	if err != nil || len(list) != 1 || list[0].ID != other.ID {
		t.Fatalf("search by id number: %+v err=%v", list, err)
	}

	if r, err := GetHospitalRecipient(ctx, f.db, f.hospital.ID, other.ID); err != nil || r.Name != "Adam Smith" {
		t.Fatalf("scoped get: %+v err=%v", r, err)
	}
	if _, err := GetHospitalRecipient(ctx, f.db, f.hospital.ID, foreign.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected other hospital's recipient to be hidden, got %v", err)
	}

	dupIDN := idn
	dup := &domain.Recipient{Name: "Copy", IDNumber: &dupIDN, HospitalID: f.hospital.ID, Gender: domain.GenderMale}
	if err := CreateRecipient(ctx, Audited(f.db, "u1"), dup); !IsDuplicate(err) {
		t.Fatalf("expected duplicate id number, got %v", err)
	}
}
