package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

// HeaderRule checks one header field of the payload.
type HeaderRule struct {
	RuleName string
	Field    string
	Message  string
	Violates func(in domain.BloodRequestInput) bool
}

// Name implements Rule.
func (r HeaderRule) Name() string { return r.RuleName }

// Evaluate implements Rule.
func (r HeaderRule) Evaluate(in domain.BloodRequestInput) Result {
	if !r.Violates(in) {
		return Result{}
	}
	return Result{Violations: []Violation{{Field: r.Field, Rule: r.RuleName, Message: r.Message}}}
}

// ItemRule checks every item of the payload independently. Field is relative
// to the item, e.g. "recipient_data.name".
type ItemRule struct {
	RuleName string
	Field    string
	Message  string
	Violates func(it domain.BloodRequestItemInput) bool
}

// Name implements Rule.
func (r ItemRule) Name() string { return r.RuleName }

// Evaluate implements Rule.
func (r ItemRule) Evaluate(in domain.BloodRequestInput) Result {
	var res Result
	for i, it := range in.Items {
		if r.Violates(it) {
			res.Violations = append(res.Violations, Violation{
				Field:   ItemField(i, r.Field),
				Rule:    r.RuleName,
				Message: r.Message,
			})
		}
	}
	return res
}

// ItemField returns the dot path of field on the i-th item.
func ItemField(i int, field string) string {
	return fmt.Sprintf("items.%d.%s", i, field)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// hasRecipient reports whether the item references an existing recipient.
func hasRecipient(it domain.BloodRequestItemInput) bool { return !blank(it.RecipientID) }

// specificWithoutGroup is true for a specific item with no blood group that
// is not about to create its recipient.
func specificWithoutGroup(it domain.BloodRequestItemInput) bool {
	return !it.IsGeneral && blank(it.BloodGroupID) && !it.AddNewRecipient
}

// recipientField returns a rule requiring one recipient_data sub-field when
// the item adds a new recipient.
func recipientField(field, label string, value func(r *domain.RecipientInput) string) ItemRule {
	return ItemRule{
		RuleName: "new_recipient_" + field,
		Field:    "recipient_data." + field,
		Message:  fmt.Sprintf("The recipient %s is required.", label),
		Violates: func(it domain.BloodRequestItemInput) bool {
			if !it.AddNewRecipient {
				return false
			}
			return it.RecipientData == nil || blank(value(it.RecipientData))
		},
	}
}

// DefaultRules returns the request rules in evaluation order.
func DefaultRules() []Rule {
	today := func() time.Time {
		y, m, d := time.Now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	return []Rule{
		HeaderRule{
			RuleName: "hospital_required",
			Field:    "hospital_id",
			Message:  "The hospital is required.",
			Violates: func(in domain.BloodRequestInput) bool { return blank(in.HospitalID) },
		},
		HeaderRule{
			RuleName: "request_date_required",
			Field:    "request_date",
			Message:  "The request date is required.",
			Violates: func(in domain.BloodRequestInput) bool { return blank(in.RequestDate) },
		},
		HeaderRule{
			RuleName: "request_date_format",
			Field:    "request_date",
			Message:  "The request date must be a date in YYYY-MM-DD format.",
			Violates: func(in domain.BloodRequestInput) bool {
				if blank(in.RequestDate) {
					return false
				}
				_, err := domain.ParseDate(in.RequestDate)
				return err != nil
			},
		},
		HeaderRule{
			RuleName: "items_required",
			Field:    "items",
			Message:  "At least one item is required.",
			Violates: func(in domain.BloodRequestInput) bool { return len(in.Items) == 0 },
		},

		ItemRule{
			RuleName: "general_without_blood_group",
			Field:    "blood_group_id",
			Message:  "A general item must not specify a blood group.",
			Violates: func(it domain.BloodRequestItemInput) bool {
				return it.IsGeneral && !blank(it.BloodGroupID)
			},
		},
		ItemRule{
			RuleName: "specific_requires_blood_group",
			Field:    "blood_group_id",
			Message:  "A specific item must include a blood group.",
			Violates: specificWithoutGroup,
		},
		recipientField("name", "name", func(r *domain.RecipientInput) string { return r.Name }),
		recipientField("blood_group_id", "blood group", func(r *domain.RecipientInput) string { return r.BloodGroupID }),
		recipientField("hospital_id", "hospital", func(r *domain.RecipientInput) string { return r.HospitalID }),
		recipientField("gender", "gender", func(r *domain.RecipientInput) string { return string(r.Gender) }),
		recipientField("date_of_birth", "date of birth", func(r *domain.RecipientInput) string { return r.DateOfBirth }),
		recipientField("id_number", "ID number", func(r *domain.RecipientInput) string { return r.IDNumber }),
		ItemRule{
			RuleName: "recipient_selection",
			Field:    "recipient_id",
			Message:  "Select an existing recipient or add a new recipient.",
			Violates: func(it domain.BloodRequestItemInput) bool {
				return !it.IsGeneral && !hasRecipient(it) && !it.AddNewRecipient
			},
		},

		ItemRule{
			RuleName: "units_positive",
			Field:    "units_requested",
			Message:  "The units requested must be greater than zero.",
			Violates: func(it domain.BloodRequestItemInput) bool {
				return !it.UnitsRequested.GreaterThan(decimal.Zero)
			},
		},
		ItemRule{
			RuleName: "units_fulfilled_range",
			Field:    "units_fulfilled",
			Message:  "The units fulfilled must be between zero and the units requested.",
			Violates: func(it domain.BloodRequestItemInput) bool {
				if it.UnitsFulfilled == nil {
					return false
				}
				return it.UnitsFulfilled.IsNegative() || it.UnitsFulfilled.GreaterThan(it.UnitsRequested)
			},
		},
		ItemRule{
			RuleName: "urgency_enum",
			Field:    "urgency",
			Message:  "The urgency must be one of normal, urgent, very_urgent.",
			Violates: func(it domain.BloodRequestItemInput) bool {
				return it.Urgency != "" && !it.Urgency.Valid()
			},
		},
		ItemRule{
			RuleName: "recipient_gender_enum",
			Field:    "recipient_data.gender",
			Message:  "The recipient gender must be male or female.",
			Violates: func(it domain.BloodRequestItemInput) bool {
				r := it.RecipientData
				return r != nil && !blank(string(r.Gender)) && !r.Gender.Valid()
			},
		},
		ItemRule{
			RuleName: "recipient_date_of_birth",
			Field:    "recipient_data.date_of_birth",
			Message:  "The recipient date of birth must be a past date in YYYY-MM-DD format.",
			Violates: func(it domain.BloodRequestItemInput) bool {
				r := it.RecipientData
				if r == nil || blank(r.DateOfBirth) {
					return false
				}
				dob, err := domain.ParseDate(r.DateOfBirth)
				return err != nil || !dob.Before(today())
			},
		},
	}
}
