// Package services defines the business logic for blood requests, recipients,
// and the hospital-scoped views on them. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer. Payload validation failures are not listed here;
// they surface as *rules.ValidationError.
package services

import "errors"

// Blood request errors.
var (
	// ErrNoItems is returned when a request is built without any item. It is
	// raised before any transaction is opened.
	ErrNoItems = errors.New("blood request has no items")

	// ErrNoHospital is returned when a write is attempted by a caller that owns
	// no hospital.
	ErrNoHospital = errors.New("no hospital is associated with the caller")

	// ErrRequestNotFound indicates that the requested blood request does not
	// exist or belongs to another hospital.
	ErrRequestNotFound = errors.New("blood request not found")

	// ErrRequestClosed is returned when a closed or cancelled request is
	// modified.
	ErrRequestClosed = errors.New("blood request is closed")

	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid blood request status")

	// ErrInvalidTransition is returned when a status change would move a
	// request backwards.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCodeExhausted is returned when no unique item code could be assigned
	// within the configured number of attempts.
	ErrCodeExhausted = errors.New("could not generate a unique item code")
)

// Recipient and reference data errors.
var (
	// ErrRecipientNotFound indicates that a referenced recipient does not exist.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrIncompleteRecipient is returned when a new recipient lacks a required
	// field.
	ErrIncompleteRecipient = errors.New("recipient data is incomplete")

	// ErrDuplicateRecipient is returned when a recipient with the same ID
	// number already exists.
	ErrDuplicateRecipient = errors.New("recipient already exists")

	// ErrHospitalNotFound indicates that a referenced hospital does not exist.
	ErrHospitalNotFound = errors.New("hospital not found")

	// ErrBloodGroupNotFound indicates that a referenced blood group does not
	// exist.
	ErrBloodGroupNotFound = errors.New("blood group not found")
)
