// Package handlers provides HTTP handler implementations for the public API.
//
// This file declares the service contracts the handlers depend on and the
// Handlers type that groups every endpoint. Handlers are transport-thin: they
// bind and check input, call application services with the caller identity
// taken from the Gin context, and translate results into HTTP responses.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/bloodbank-backend/internal/domain"
	"github.com/tbourn/bloodbank-backend/internal/http/middleware"
)

//
// Service contracts (context-aware)
//

// BloodRequestFacade is the hospital-scoped view on blood requests. Every
// method acts on the hospital owned by caller.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type BloodRequestFacade interface {
	CurrentHospital(ctx context.Context, caller string) (*domain.Hospital, error)
	RequestsForCurrentHospital(ctx context.Context, caller string, f domain.RequestFilter, page, pageSize int) ([]domain.BloodRequest, int64, error)
	StatsForCurrentHospital(ctx context.Context, caller string) (*domain.RequestStats, error)
	ExportForCurrentHospital(ctx context.Context, caller string, f domain.RequestFilter) (*domain.RequestExport, error)
	GetForCurrentHospital(ctx context.Context, caller, id string) (*domain.BloodRequest, error)
	VersionForCurrentHospital(ctx context.Context, caller string) (int64, *time.Time, error)
	CreateForCurrentHospital(ctx context.Context, caller string, in domain.BloodRequestInput) (*domain.BloodRequest, error)
	UpdateStatusForCurrentHospital(ctx context.Context, caller, id string, status domain.RequestStatus) (*domain.BloodRequest, error)
	DeleteForCurrentHospital(ctx context.Context, caller, id string) error
	ClearCache(ctx context.Context, caller string) error
}

// RequestValidator runs the payload rules without persisting anything.
type RequestValidator interface {
	Validate(ctx context.Context, in domain.BloodRequestInput) error
}

// RecipientService registers and lists recipients of a hospital.
type RecipientService interface {
	Create(ctx context.Context, actor, hospitalID string, in domain.RecipientInput) (*domain.Recipient, error)
	ListPage(ctx context.Context, hospitalID, search string, page, pageSize int) ([]domain.Recipient, int64, error)
}

// ReferenceService exposes reference data.
type ReferenceService interface {
	BloodGroups(ctx context.Context) ([]domain.BloodGroup, error)
}

// IdempotencyRecorder remembers which resource a keyed request produced.
type IdempotencyRecorder interface {
	Record(ctx context.Context, userID, scope, key, resourceID string, status int) error
}

//
// Handler wiring
//

const (
	defaultPageSize = 15
	maxPageSize     = 100
)

// Handlers groups HTTP endpoints for blood requests, recipients, and
// reference data.
type Handlers struct {
	requests   BloodRequestFacade
	validator  RequestValidator
	recipients RecipientService
	reference  ReferenceService
	idem       IdempotencyRecorder

	pageSize int
}

// New constructs a Handlers instance bound to the given services.
func New(requests BloodRequestFacade, validator RequestValidator, recipients RecipientService, reference ReferenceService) *Handlers {
	return &Handlers{
		requests:   requests,
		validator:  validator,
		recipients: recipients,
		reference:  reference,
		pageSize:   defaultPageSize,
	}
}

// WithIdempotency records created resources so retried requests carrying the
// same Idempotency-Key are replayed.
func (h *Handlers) WithIdempotency(rec IdempotencyRecorder) *Handlers {
	h.idem = rec
	return h
}

// WithPageSize sets the page size used when the client sends none.
func (h *Handlers) WithPageSize(n int) *Handlers {
	if n > 0 {
		h.pageSize = n
	}
	return h
}

// callerID returns the identity resolved by the auth middleware.
func callerID(c *gin.Context) string {
	return middleware.UserID(c)
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}
