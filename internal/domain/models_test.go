package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(BloodGroup{}).TableName():       "blood_groups",
		(Hospital{}).TableName():         "hospitals",
		(Recipient{}).TableName():        "recipients",
		(BloodRequest{}).TableName():     "blood_requests",
		(BloodRequestItem{}).TableName(): "blood_request_items",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&BloodGroup{}, &Hospital{}, &Recipient{}, &BloodRequest{}, &BloodRequestItem{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, idx := range []struct {
		model any
		name  string
	}{
		{&BloodGroup{}, "ux_blood_groups_name"},
		{&Hospital{}, "idx_hospitals_owner"},
		{&Recipient{}, "ux_recipients_id_number"},
		{&BloodRequest{}, "idx_blood_requests_hospital_date"},
		{&BloodRequestItem{}, "ux_blood_request_items_code"},
	} {
		if !m.HasIndex(idx.model, idx.name) {
			t.Fatalf("expected index %s on %T", idx.name, idx.model)
		}
	}

	now := time.Now().UTC()
	if err := db.Create(&Hospital{ID: "h1", Name: "General", OwnerUserID: "u1"}).Error; err != nil {
		t.Fatalf("insert hospital: %v", err)
	}
	req := &BloodRequest{ID: "r1", HospitalID: "h1", RequestDate: now, Status: RequestPending}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("insert request: %v", err)
	}
	item := &BloodRequestItem{ID: "i1", BloodRequestID: "r1", UnitsRequested: decimal.NewFromInt(2), Urgency: UrgencyNormal, Status: ItemPending, Code: "GEN-123456-191026"}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("insert item: %v", err)
	}

	// Item codes are unique across the table.
	dup := &BloodRequestItem{ID: "i2", BloodRequestID: "r1", UnitsRequested: decimal.NewFromInt(1), Urgency: UrgencyNormal, Status: ItemPending, Code: "GEN-123456-191026"}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique violation on duplicate item code")
	}

	// Status check constraint.
	bad := &BloodRequest{ID: "r2", HospitalID: "h1", RequestDate: now, Status: "archived"}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected check violation for unknown status")
	}

	// CASCADE: hard-deleting the header deletes its items.
	if err := db.Unscoped().Delete(&BloodRequest{}, "id = ?", "r1").Error; err != nil {
		t.Fatalf("delete request: %v", err)
	}
	var cnt int64
	if err := db.Model(&BloodRequestItem{}).Where("blood_request_id = ?", "r1").Count(&cnt).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected items to cascade-delete, got %d", cnt)
	}
}

func TestAuditStamping(t *testing.T) {
	var r BloodRequest
	r.StampCreated("alice")
	r.StampUpdated("bob")
	r.StampDeleted("carol")
	if r.AddedBy != "alice" || r.UpdatedBy != "bob" || r.DeletedBy != "carol" {
		t.Fatalf("unexpected audit fields: %+v", r.Audit)
	}
}

func TestItemIsGeneral(t *testing.T) {
	bg := "bg1"
	if !(BloodRequestItem{}).IsGeneral() {
		t.Fatalf("item without blood group should be general")
	}
	if (BloodRequestItem{BloodGroupID: &bg}).IsGeneral() {
		t.Fatalf("item with blood group should be specific")
	}
}

func TestRequestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestPending, RequestPartial, true},
		{RequestPending, RequestApproved, true},
		{RequestPartial, RequestApproved, true},
		{RequestApproved, RequestClosed, true},
		{RequestApproved, RequestPartial, false},
		{RequestPending, RequestPending, false},
		{RequestPartial, RequestCancelled, true},
		{RequestClosed, RequestCancelled, false},
		{RequestCancelled, RequestPending, false},
		{RequestPending, "archived", false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s = %v; want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if !RequestClosed.Terminal() || RequestApproved.Terminal() {
		t.Fatalf("terminal classification wrong")
	}
	if !RequestPartial.Active() || RequestClosed.Active() {
		t.Fatalf("active classification wrong")
	}
}

func TestEnumsValid(t *testing.T) {
	if !UrgencyVeryUrgent.Valid() || Urgency("asap").Valid() {
		t.Fatalf("urgency validity wrong")
	}
	if UrgencyNormal.Elevated() || !UrgencyUrgent.Elevated() {
		t.Fatalf("urgency elevation wrong")
	}
	if !GenderFemale.Valid() || Gender("x").Valid() {
		t.Fatalf("gender validity wrong")
	}
}

func TestRecipientInputIsEmpty(t *testing.T) {
	var nilInput *RecipientInput
	if !nilInput.IsEmpty() {
		t.Fatalf("nil input should be empty")
	}
	if !(&RecipientInput{Name: "   "}).IsEmpty() {
		t.Fatalf("whitespace-only input should be empty")
	}
	if (&RecipientInput{IDNumber: "MRN-1"}).IsEmpty() {
		t.Fatalf("input with id number should not be empty")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-10-19 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.October || d.Day() != 19 || d.Location() != time.UTC {
		t.Fatalf("unexpected date: %v", d)
	}
	if _, err := ParseDate("19/10/2026"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}
