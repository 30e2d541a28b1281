package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

func TestGetBloodRequest_PreloadsItemsAndScopesHospital(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.addRequest(t, day("2025-01-01"), domain.RequestPending, "note", domain.UrgencyNormal, domain.UrgencyUrgent)

	got, err := GetBloodRequest(ctx, f.db, f.hospital.ID, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	it := got.Items[0]
	if it.BloodGroup == nil || it.BloodGroup.Name != "O-" || it.Recipient == nil || it.Recipient.Name != "Jane Roe" {
		t.Fatalf("expected preloaded relations, got %+v", it)
	}
	if got.AddedBy != "u1" || it.AddedBy != "u1" {
		t.Fatalf("expected added_by stamped, got %q / %q", got.AddedBy, it.AddedBy)
	}

	if _, err := GetBloodRequest(ctx, f.db, "other-hospital", r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across hospitals, got %v", err)
	}
}

func TestItemCodeExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.addRequest(t, day("2025-01-01"), domain.RequestPending, "", domain.UrgencyNormal)

	ok, err := ItemCodeExists(ctx, f.db, r.Items[0].Code)
	if err != nil || !ok {
		t.Fatalf("expected existing code, ok=%v err=%v", ok, err)
	}
	ok, err = ItemCodeExists(ctx, f.db, "ZZZ-999999-010125")
	if err != nil || ok {
		t.Fatalf("expected free code, ok=%v err=%v", ok, err)
	}

	dup := &domain.BloodRequestItem{
		BloodRequestID: r.ID, UnitsRequested: decimal.NewFromInt(1),
		Urgency: domain.UrgencyNormal, Status: domain.ItemPending, Code: r.Items[0].Code,
	}
	if err := CreateBloodRequestItem(ctx, Audited(f.db, "u1"), dup); !IsDuplicate(err) {
		t.Fatalf("expected duplicate code error, got %v", err)
	}
}

func TestListBloodRequests_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.addRequest(t, day("2025-01-10"), domain.RequestPending, "ward 3 emergency", domain.UrgencyVeryUrgent)
	b := f.addRequest(t, day("2025-01-15"), domain.RequestApproved, "", domain.UrgencyNormal)
	c := f.addRequest(t, day("2025-01-20"), domain.RequestPending, "routine")

	ids := func(rs []domain.BloodRequest) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}
	same := func(got []string, want ...string) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}
	from, to := day("2025-01-10"), day("2025-01-15")

	cases := []struct {
		name string
		f    domain.RequestFilter
		want []string
	}{
		{"default newest first", domain.RequestFilter{}, []string{c.ID, b.ID, a.ID}},
		{"ascending", domain.RequestFilter{SortDir: "asc"}, []string{a.ID, b.ID, c.ID}},
		{"unknown sort falls back", domain.RequestFilter{SortBy: "drop table", SortDir: "asc"}, []string{a.ID, b.ID, c.ID}},
		{"status", domain.RequestFilter{Status: domain.RequestPending}, []string{c.ID, a.ID}},
		{"urgency", domain.RequestFilter{Urgency: domain.UrgencyVeryUrgent}, []string{a.ID}},
		{"blood group", domain.RequestFilter{BloodGroupID: f.groups["O-"]}, []string{b.ID, a.ID}},
		{"search notes", domain.RequestFilter{Search: "EMERGENCY"}, []string{a.ID}},
		{"search recipient", domain.RequestFilter{Search: "jane"}, []string{b.ID, a.ID}},
		{"inclusive date range", domain.RequestFilter{DateFrom: &from, DateTo: &to}, []string{b.ID, a.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := CountBloodRequests(ctx, f.db, f.hospital.ID, tc.f)
			if err != nil || n != int64(len(tc.want)) {
				t.Fatalf("count=%d err=%v, want %d", n, err, len(tc.want))
			}
			rs, err := ListBloodRequestsPage(ctx, f.db, f.hospital.ID, tc.f, 0, 10)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got := ids(rs); !same(got, tc.want...) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}

	page, err := ListBloodRequestsPage(ctx, f.db, f.hospital.ID, domain.RequestFilter{}, 1, 1)
	if err != nil || len(page) != 1 || page[0].ID != b.ID {
		t.Fatalf("pagination: %v err=%v", ids(page), err)
	}

	all, err := ListBloodRequestsForExport(ctx, f.db, f.hospital.ID, domain.RequestFilter{SortDir: "asc"})
	if err != nil || !same(ids(all), a.ID, b.ID, c.ID) || len(all[0].Items) != 1 {
		t.Fatalf("export listing: %v err=%v", ids(all), err)
	}
}

func TestUpdateStatusAndSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.addRequest(t, day("2025-01-01"), domain.RequestPending, "", domain.UrgencyNormal)

	if err := UpdateBloodRequestStatus(ctx, Audited(f.db, "nurse"), r, domain.RequestApproved); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := GetBloodRequest(ctx, f.db, f.hospital.ID, r.ID)
	if got.Status != domain.RequestApproved || got.UpdatedBy != "nurse" {
		t.Fatalf("unexpected after update: status=%s updated_by=%q", got.Status, got.UpdatedBy)
	}

	if err := SoftDeleteBloodRequest(ctx, Audited(f.db, "admin"), got); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := GetBloodRequest(ctx, f.db, f.hospital.ID, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	var raw domain.BloodRequest
	if err := f.db.Unscoped().First(&raw, "id = ?", r.ID).Error; err != nil {
		t.Fatalf("unscoped read: %v", err)
	}
	if raw.DeletedBy != "admin" || !raw.DeletedAt.Valid {
		t.Fatalf("expected deleted_by stamped, got %+v", raw)
	}
	var items int64
	f.db.Model(&domain.BloodRequestItem{}).Where("blood_request_id = ?", r.ID).Count(&items)
	if items != 1 {
		t.Fatalf("expected items kept, got %d", items)
	}

	if err := SoftDeleteBloodRequest(ctx, Audited(f.db, "admin"), got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
