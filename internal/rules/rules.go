// Package rules validates blood request payloads before anything is written.
//
// Validation is an ordered list of Rule values evaluated by an Engine. Every
// rule sees the full payload and reports all of its violations, so a caller
// gets the complete set of field errors in one pass. Violations are keyed by
// dot paths that mirror the JSON payload (e.g. "items.0.recipient_data.name").
package rules

import (
	"fmt"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

// Violation is one failed check on one field.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result aggregates violations from the engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// OK reports whether no rule was violated.
func (r Result) OK() bool { return len(r.Violations) == 0 }

// Fields groups messages by field path, preserving evaluation order.
func (r Result) Fields() map[string][]string {
	out := make(map[string][]string, len(r.Violations))
	for _, v := range r.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}

// Err returns a *ValidationError when r has violations, nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Result: r}
}

// Rule is a pure check over a request payload.
type Rule interface {
	Name() string
	Evaluate(in domain.BloodRequestInput) Result
}

// Engine evaluates registered rules in registration order.
type Engine struct {
	rules []Rule
}

// NewEngine constructs an empty engine.
func NewEngine() *Engine {
	return &Engine{}
}

// NewDefaultEngine returns an engine with the request rules of this package
// registered.
func NewDefaultEngine() *Engine {
	e := NewEngine()
	for _, r := range DefaultRules() {
		e.Register(r)
	}
	return e
}

// Register appends a rule to the engine.
func (e *Engine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in order.
func (e *Engine) Rules() []string {
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Name()
	}
	return out
}

// Evaluate executes all registered rules and aggregates their results.
func (e *Engine) Evaluate(in domain.BloodRequestInput) Result {
	var combined Result
	for _, rule := range e.rules {
		combined.Merge(rule.Evaluate(in))
	}
	return combined
}

// ValidationError is returned when a payload has violations.
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	n := len(e.Result.Violations)
	if n == 1 {
		v := e.Result.Violations[0]
		return fmt.Sprintf("validation failed: %s: %s", v.Field, v.Message)
	}
	return fmt.Sprintf("validation failed: %d violations", n)
}

// Fields is shorthand for e.Result.Fields().
func (e *ValidationError) Fields() map[string][]string { return e.Result.Fields() }
