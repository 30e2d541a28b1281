package rules

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

func payload(items ...domain.BloodRequestItemInput) domain.BloodRequestInput {
	return domain.BloodRequestInput{HospitalID: "h1", RequestDate: "2025-01-02", Items: items}
}

func item(mut func(*domain.BloodRequestItemInput)) domain.BloodRequestItemInput {
	it := domain.BloodRequestItemInput{UnitsRequested: decimal.NewFromInt(2), Urgency: domain.UrgencyNormal}
	if mut != nil {
		mut(&it)
	}
	return it
}

func completeRecipient() *domain.RecipientInput {
	return &domain.RecipientInput{
		Name: "Jane", BloodGroupID: "bg-o-", HospitalID: "h1",
		Gender: domain.GenderFemale, DateOfBirth: "1990-04-12", IDNumber: "MRN-1",
	}
}

func fieldKeys(res Result) []string {
	var out []string
	for k := range res.Fields() {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestEngine_MergesInRegistrationOrder(t *testing.T) {
	e := NewEngine()
	e.Register(HeaderRule{RuleName: "a", Field: "x", Message: "first", Violates: func(domain.BloodRequestInput) bool { return true }})
	e.Register(HeaderRule{RuleName: "b", Field: "x", Message: "second", Violates: func(domain.BloodRequestInput) bool { return true }})
	e.Register(HeaderRule{RuleName: "c", Field: "y", Message: "never", Violates: func(domain.BloodRequestInput) bool { return false }})

	res := e.Evaluate(domain.BloodRequestInput{})
	if len(res.Violations) != 2 || res.Violations[0].Rule != "a" || res.Violations[1].Rule != "b" {
		t.Fatalf("unexpected violations: %+v", res.Violations)
	}
	if got := res.Fields()["x"]; !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Fatalf("unexpected field messages: %v", got)
	}
	if !reflect.DeepEqual(e.Rules(), []string{"a", "b", "c"}) {
		t.Fatalf("unexpected rule names: %v", e.Rules())
	}
}

func TestResult_Err(t *testing.T) {
	if (Result{}).Err() != nil {
		t.Fatalf("expected nil error for empty result")
	}
	res := Result{Violations: []Violation{{Field: "items", Rule: "items_required", Message: "At least one item is required."}}}
	err := res.Err()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Error() != "validation failed: items: At least one item is required." {
		t.Fatalf("unexpected message: %q", ve.Error())
	}
	res.Merge(res)
	if (&ValidationError{Result: res}).Error() != "validation failed: 2 violations" {
		t.Fatalf("unexpected plural message")
	}
}

func TestDefaultRules_ValidPayloads(t *testing.T) {
	e := NewDefaultEngine()
	cases := map[string]domain.BloodRequestInput{
		"general without recipient": payload(item(func(it *domain.BloodRequestItemInput) { it.IsGeneral = true })),
		"specific with existing recipient": payload(item(func(it *domain.BloodRequestItemInput) {
			it.BloodGroupID = "bg"
			it.RecipientID = "r1"
		})),
		"new recipient complete": payload(item(func(it *domain.BloodRequestItemInput) {
			it.AddNewRecipient = true
			it.RecipientData = completeRecipient()
		})),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if res := e.Evaluate(in); !res.OK() {
				t.Fatalf("expected no violations, got %v", res.Fields())
			}
		})
	}
}

func TestRule1_GeneralWithBloodGroup(t *testing.T) {
	res := NewDefaultEngine().Evaluate(payload(item(func(it *domain.BloodRequestItemInput) {
		it.IsGeneral = true
		it.BloodGroupID = "bg"
	})))
	msgs := res.Fields()["items.0.blood_group_id"]
	if !reflect.DeepEqual(msgs, []string{"A general item must not specify a blood group."}) {
		t.Fatalf("unexpected: %v", res.Fields())
	}
}

func TestRule2And4_SpecificMissingEverything(t *testing.T) {
	res := NewDefaultEngine().Evaluate(payload(item(nil)))
	want := []string{"items.0.blood_group_id", "items.0.recipient_id"}
	if got := fieldKeys(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	if res.Fields()["items.0.recipient_id"][0] != "Select an existing recipient or add a new recipient." {
		t.Fatalf("unexpected message: %v", res.Fields())
	}
	if res.Fields()["items.0.blood_group_id"][0] != "A specific item must include a blood group." {
		t.Fatalf("unexpected message: %v", res.Fields())
	}
}

// A blood group alone does not satisfy the recipient selection rule.
func TestScenarioA_BloodGroupWithoutRecipient(t *testing.T) {
	res := NewDefaultEngine().Evaluate(payload(item(func(it *domain.BloodRequestItemInput) {
		it.BloodGroupID = "bg"
	})))
	if got := fieldKeys(res); !reflect.DeepEqual(got, []string{"items.0.recipient_id"}) {
		t.Fatalf("fields = %v", got)
	}
}

func TestScenarioB_GeneralPasses(t *testing.T) {
	res := NewDefaultEngine().Evaluate(payload(item(func(it *domain.BloodRequestItemInput) { it.IsGeneral = true })))
	if !res.OK() {
		t.Fatalf("expected pass, got %v", res.Fields())
	}
}

func TestRule3_EachMissingRecipientFieldReported(t *testing.T) {
	fields := map[string]func(*domain.RecipientInput){
		"name":           func(r *domain.RecipientInput) { r.Name = " " },
		"blood_group_id": func(r *domain.RecipientInput) { r.BloodGroupID = "" },
		"hospital_id":    func(r *domain.RecipientInput) { r.HospitalID = "" },
		"gender":         func(r *domain.RecipientInput) { r.Gender = "" },
		"date_of_birth":  func(r *domain.RecipientInput) { r.DateOfBirth = "" },
		"id_number":      func(r *domain.RecipientInput) { r.IDNumber = "" },
	}
	for field, clear := range fields {
		t.Run(field, func(t *testing.T) {
			rd := completeRecipient()
			clear(rd)
			res := NewDefaultEngine().Evaluate(payload(
				item(func(it *domain.BloodRequestItemInput) { it.IsGeneral = true }),
				item(func(it *domain.BloodRequestItemInput) {
					it.AddNewRecipient = true
					it.RecipientData = rd
				}),
			))
			want := []string{"items.1.recipient_data." + field}
			if got := fieldKeys(res); !reflect.DeepEqual(got, want) {
				t.Fatalf("fields = %v, want %v", got, want)
			}
		})
	}
}

func TestRule3_NilRecipientDataReportsEveryField(t *testing.T) {
	res := NewDefaultEngine().Evaluate(payload(item(func(it *domain.BloodRequestItemInput) { it.AddNewRecipient = true })))
	want := []string{
		"items.0.recipient_data.blood_group_id",
		"items.0.recipient_data.date_of_birth",
		"items.0.recipient_data.gender",
		"items.0.recipient_data.hospital_id",
		"items.0.recipient_data.id_number",
		"items.0.recipient_data.name",
	}
	if got := fieldKeys(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
}

func TestHeaderAndStructuralRules(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	tooMany := decimal.NewFromInt(5)
	in := domain.BloodRequestInput{
		RequestDate: "02/01/2025",
		Items: []domain.BloodRequestItemInput{
			item(func(it *domain.BloodRequestItemInput) {
				it.IsGeneral = true
				it.UnitsRequested = decimal.Zero
				it.Urgency = "asap"
			}),
			item(func(it *domain.BloodRequestItemInput) {
				it.IsGeneral = true
				it.UnitsFulfilled = &tooMany
			}),
			item(func(it *domain.BloodRequestItemInput) {
				it.IsGeneral = true
				it.UnitsFulfilled = &neg
				it.RecipientData = &domain.RecipientInput{Gender: "other", DateOfBirth: "2999-01-01"}
			}),
		},
	}
	want := []string{
		"hospital_id",
		"items.0.units_requested",
		"items.0.urgency",
		"items.1.units_fulfilled",
		"items.2.recipient_data.date_of_birth",
		"items.2.recipient_data.gender",
		"items.2.units_fulfilled",
		"request_date",
	}
	res := NewDefaultEngine().Evaluate(in)
	if got := fieldKeys(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
}

func TestHeader_EmptyItemsAndMissingDate(t *testing.T) {
	res := NewDefaultEngine().Evaluate(domain.BloodRequestInput{HospitalID: "h1"})
	want := []string{"items", "request_date"}
	if got := fieldKeys(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	if len(res.Fields()["request_date"]) != 1 {
		t.Fatalf("expected only the required message for a blank date: %v", res.Fields())
	}
}

func TestItemField(t *testing.T) {
	if got := ItemField(3, "recipient_data.name"); got != "items.3.recipient_data.name" {
		t.Fatalf("got %q", got)
	}
}
