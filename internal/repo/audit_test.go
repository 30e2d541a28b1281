package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrDuplicate, true},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey), true},
		{errors.New("UNIQUE constraint failed: recipients.id_number"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "ux_blood_request_items_code"`), true},
		{errors.New("connection refused"), false},
	}
	for _, c := range cases {
		if got := IsDuplicate(c.err); got != c.want {
			t.Errorf("IsDuplicate(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestAuditedDB_StampsActorInsideTransaction(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	var id string
	err := db.Transaction(func(tx *gorm.DB) error {
		w := Audited(tx, "clerk")
		if w.Actor() != "clerk" || w.DB() != tx {
			t.Fatalf("unexpected writer state")
		}
		h, err := CreateHospital(ctx, w, "H", "HHH", "owner")
		if err != nil {
			return err
		}
		id = h.ID
		_, err = w.Updates(ctx, h, map[string]any{"name": "Renamed"})
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	var h domain.Hospital
	if err := db.First(&h, "id = ?", id).Error; err != nil {
		t.Fatalf("read: %v", err)
	}
	if h.Name != "Renamed" || h.AddedBy != "clerk" || h.UpdatedBy != "clerk" {
		t.Fatalf("unexpected audit stamps: %+v", h)
	}
}

func TestAuditedDB_RollbackDiscardsWrites(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	sentinel := errors.New("boom")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := CreateHospital(ctx, Audited(tx, "clerk"), "Temp", "TMP", "owner"); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	var n int64
	db.Model(&domain.Hospital{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected rollback, found %d hospitals", n)
	}
}
