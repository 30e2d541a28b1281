package domain

// RequestStatus is the lifecycle state of a blood request header.
//
// Transitions are monotonic: a request only moves forward in rank
// (pending < partial < approved < closed), may be cancelled from any
// non-terminal state, and never leaves a terminal state.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestPartial   RequestStatus = "partial"
	RequestApproved  RequestStatus = "approved"
	RequestClosed    RequestStatus = "closed"
	RequestCancelled RequestStatus = "cancelled"
)

var requestRank = map[RequestStatus]int{
	RequestPending:   0,
	RequestPartial:   1,
	RequestApproved:  2,
	RequestClosed:    3,
	RequestCancelled: 3,
}

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	_, ok := requestRank[s]
	return ok
}

// Terminal reports whether s is closed or cancelled.
func (s RequestStatus) Terminal() bool {
	return s == RequestClosed || s == RequestCancelled
}

// Active reports whether a request in s still awaits fulfillment.
func (s RequestStatus) Active() bool {
	return s.Valid() && !s.Terminal()
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == RequestCancelled {
		return true
	}
	return requestRank[next] > requestRank[s]
}

// ItemStatus is the state of a single request item. New items are always
// created pending.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemApproved  ItemStatus = "approved"
	ItemCancelled ItemStatus = "cancelled"
)

// Urgency classifies how soon an item must be served.
type Urgency string

const (
	UrgencyNormal     Urgency = "normal"
	UrgencyUrgent     Urgency = "urgent"
	UrgencyVeryUrgent Urgency = "very_urgent"
)

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyVeryUrgent:
		return true
	}
	return false
}

// Elevated reports whether u is urgent or very urgent.
func (u Urgency) Elevated() bool {
	return u == UrgencyUrgent || u == UrgencyVeryUrgent
}

// Gender of a recipient.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}
