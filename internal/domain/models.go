// Package domain defines the persistence models for hospitals, recipients,
// blood requests, and their line items. These types are mapped with GORM and
// form the core data layer of the blood bank service.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Audit carries the identity of the actors that created, last updated, and
// soft-deleted a row. It is embedded by every tracked model and stamped by the
// audited writer in the repo package; models never stamp themselves.
type Audit struct {
	AddedBy   string `json:"added_by,omitempty"   gorm:"type:varchar(64)"`
	UpdatedBy string `json:"updated_by,omitempty" gorm:"type:varchar(64)"`
	DeletedBy string `json:"deleted_by,omitempty" gorm:"type:varchar(64)"`
}

// StampCreated records actor as the creator.
func (a *Audit) StampCreated(actor string) { a.AddedBy = actor }

// StampUpdated records actor as the last updater.
func (a *Audit) StampUpdated(actor string) { a.UpdatedBy = actor }

// StampDeleted records actor as the deleter.
func (a *Audit) StampDeleted(actor string) { a.DeletedBy = actor }

// BloodGroup is a reference record such as "A+" or "O-".
type BloodGroup struct {
	ID        string    `json:"id"   gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(8);not null;uniqueIndex:ux_blood_groups_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for BloodGroup.
func (BloodGroup) TableName() string { return "blood_groups" }

// Hospital is a requesting institution. A hospital is owned by exactly one
// user identity; that owner is the "current hospital" of the caller.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Name: display name, also the source of the item code prefix.
//   - Code: optional short code assigned by operators.
//   - OwnerUserID: caller identity that owns the hospital (indexed).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Hospital struct {
	ID          string `json:"id"            gorm:"type:char(36);primaryKey"`
	Name        string `json:"name"          gorm:"type:varchar(255);not null"`
	Code        string `json:"code,omitempty" gorm:"type:varchar(16)"`
	OwnerUserID string `json:"owner_user_id" gorm:"type:varchar(64);not null;index:idx_hospitals_owner"`
	Audit
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Hospital.
func (Hospital) TableName() string { return "hospitals" }

// Recipient is a patient who receives blood. IDNumber is the national or
// hospital record number; it is unique when present.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Name: full name.
//   - IDNumber: optional record number (unique, NULLs allowed).
//   - BloodGroupID: the recipient's stored blood group.
//   - HospitalID: hospital that registered the recipient (indexed).
//   - DateOfBirth / Gender / MedicalNotes: demographic and clinical notes.
//   - Audit: added_by, updated_by, deleted_by.
//   - CreatedAt / UpdatedAt / DeletedAt: GORM-managed timestamps.
type Recipient struct {
	ID           string     `json:"id"                      gorm:"type:char(36);primaryKey"`
	Name         string     `json:"name"                    gorm:"type:varchar(255);not null"`
	IDNumber     *string    `json:"id_number,omitempty"     gorm:"type:varchar(64);uniqueIndex:ux_recipients_id_number"`
	BloodGroupID *string    `json:"blood_group_id,omitempty" gorm:"type:char(36);index"`
	HospitalID   string     `json:"hospital_id"             gorm:"type:char(36);not null;index:idx_recipients_hospital"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Gender       Gender     `json:"gender,omitempty"        gorm:"type:varchar(8)"`
	MedicalNotes string     `json:"medical_notes,omitempty" gorm:"type:text"`
	Audit
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	BloodGroup *BloodGroup `json:"blood_group,omitempty" gorm:"foreignKey:BloodGroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Hospital   *Hospital   `json:"-"                     gorm:"foreignKey:HospitalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Recipient.
func (Recipient) TableName() string { return "recipients" }

// BloodRequest is the header of a hospital's request for blood. It owns one
// or more BloodRequestItem rows which are created in the same transaction.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - HospitalID: requesting hospital (indexed).
//   - RequestDate: calendar date of the request (indexed, used by filters).
//   - Notes: free text, searchable.
//   - Status: lifecycle state, see RequestStatus.
//   - Audit: added_by, updated_by, deleted_by.
//   - DeletedAt: soft deletion marker; items are kept for fulfillment history.
type BloodRequest struct {
	ID          string        `json:"id"          gorm:"type:char(36);primaryKey"`
	HospitalID  string        `json:"hospital_id" gorm:"type:char(36);not null;index:idx_blood_requests_hospital_date,priority:1"`
	RequestDate time.Time     `json:"request_date" gorm:"not null;index:idx_blood_requests_hospital_date,priority:2"`
	Notes       string        `json:"notes,omitempty" gorm:"type:text"`
	Status      RequestStatus `json:"status"      gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','partial','approved','closed','cancelled')"`
	Audit
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Hospital *Hospital         `json:"hospital,omitempty" gorm:"foreignKey:HospitalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Items    []BloodRequestItem `json:"items,omitempty"    gorm:"foreignKey:BloodRequestID;references:ID"`
}

// TableName returns the database table name for BloodRequest.
func (BloodRequest) TableName() string { return "blood_requests" }

// BloodRequestItem is one line of a blood request. An item without a blood
// group is "general" (any compatible group); otherwise it is specific.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - BloodRequestID: owning header (indexed, cascades on delete).
//   - BloodGroupID: nil for general items.
//   - RecipientID: optional patient the units are for.
//   - UnitsRequested: positive decimal quantity.
//   - UnitsFulfilled: nil until fulfillment starts; never exceeds UnitsRequested.
//   - Urgency: normal, urgent, or very_urgent.
//   - Status: pending, approved, or cancelled.
//   - Code: globally unique XXX-######-DDMMYY identifier.
type BloodRequestItem struct {
	ID             string              `json:"id"               gorm:"type:char(36);primaryKey"`
	BloodRequestID string              `json:"blood_request_id" gorm:"type:char(36);not null;index:idx_items_request"`
	BloodGroupID   *string             `json:"blood_group_id"   gorm:"type:char(36);index:idx_items_blood_group"`
	RecipientID    *string             `json:"recipient_id"     gorm:"type:char(36);index:idx_items_recipient"`
	UnitsRequested decimal.Decimal     `json:"units_requested"  gorm:"type:decimal(10,2);not null"`
	UnitsFulfilled decimal.NullDecimal `json:"units_fulfilled"  gorm:"type:decimal(10,2)"`
	Urgency        Urgency             `json:"urgency"          gorm:"type:varchar(16);not null;default:'normal';index:idx_items_urgency;check:urgency IN ('normal','urgent','very_urgent')"`
	Status         ItemStatus          `json:"status"           gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','approved','cancelled')"`
	Code           string              `json:"code"             gorm:"type:varchar(32);not null;uniqueIndex:ux_blood_request_items_code"`
	Notes          string              `json:"notes,omitempty"  gorm:"type:text"`
	Audit
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BloodRequest *BloodRequest `json:"-"                     gorm:"foreignKey:BloodRequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	BloodGroup   *BloodGroup   `json:"blood_group,omitempty" gorm:"foreignKey:BloodGroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Recipient    *Recipient    `json:"recipient,omitempty"   gorm:"foreignKey:RecipientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for BloodRequestItem.
func (BloodRequestItem) TableName() string { return "blood_request_items" }

// IsGeneral reports whether the item accepts any compatible blood group.
func (i BloodRequestItem) IsGeneral() bool { return i.BloodGroupID == nil }
