package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates (request_date, date_of_birth).
const DateLayout = "2006-01-02"

// BloodRequestInput is the payload accepted to create a blood request with
// its items. HospitalID is filled in from the caller's hospital when the
// request goes through the hospital-scoped service.
type BloodRequestInput struct {
	HospitalID  string                  `json:"hospital_id"  example:"0b5d7c1e-2f7b-4a36-9a55-3c1d6f1f9b10"`
	RequestDate string                  `json:"request_date" example:"2026-10-19"`
	Notes       string                  `json:"notes"        example:"Scheduled surgery, theatre 2"`
	Items       []BloodRequestItemInput `json:"items"`
}

// BloodRequestItemInput is a single requested line.
//
// A general item (IsGeneral) must not carry a blood group. A specific item
// needs a blood group and a recipient, either an existing one (RecipientID)
// or a new one described by RecipientData with AddNewRecipient set.
type BloodRequestItemInput struct {
	IsGeneral       bool             `json:"is_general"`
	BloodGroupID    string           `json:"blood_group_id,omitempty"`
	RecipientID     string           `json:"recipient_id,omitempty"`
	AddNewRecipient bool             `json:"add_new_recipient"`
	RecipientData   *RecipientInput  `json:"recipient_data,omitempty"`
	UnitsRequested  decimal.Decimal  `json:"units_requested" swaggertype:"string" example:"2"`
	UnitsFulfilled  *decimal.Decimal `json:"units_fulfilled,omitempty" swaggertype:"string"`
	Urgency         Urgency          `json:"urgency" example:"urgent"`
	Notes           string           `json:"notes,omitempty"`
}

// RecipientInput describes a recipient to create inline with a request item
// or through the recipients endpoint.
type RecipientInput struct {
	Name         string `json:"name"           example:"Jane Doe"`
	BloodGroupID string `json:"blood_group_id"`
	HospitalID   string `json:"hospital_id"`
	Gender       Gender `json:"gender"         example:"female"`
	DateOfBirth  string `json:"date_of_birth"  example:"1990-04-12"`
	IDNumber     string `json:"id_number"      example:"MRN-004211"`
	MedicalNotes string `json:"medical_notes,omitempty"`
}

// IsEmpty reports whether r carries no meaningful field.
func (r *RecipientInput) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, v := range []string{r.Name, r.BloodGroupID, r.HospitalID, string(r.Gender), r.DateOfBirth, r.IDNumber, r.MedicalNotes} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// RequestFilter narrows a hospital's blood request listing. Zero values mean
// "no constraint". DateFrom and DateTo are inclusive calendar days.
type RequestFilter struct {
	Status       RequestStatus
	Search       string
	Urgency      Urgency
	BloodGroupID string
	DateFrom     *time.Time
	DateTo       *time.Time
	SortBy       string
	SortDir      string
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}
