// Package services – HospitalRequests
//
// HospitalRequests is the hospital-scoped façade over BloodRequestService.
// Every operation takes the caller identity explicitly and works on the
// hospital that caller owns. The hospital lookup is cached per caller and the
// statistics per hospital, both read-through with fixed expiry. Nothing is
// invalidated on write: callers invoke ClearCache after a mutation.
//
// A caller without a hospital gets empty reads (an empty page, nil stats, an
// empty export) and ErrNoHospital on writes.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/cache"
	"github.com/tbourn/bloodbank-backend/internal/domain"
	"github.com/tbourn/bloodbank-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultHospitalTTL = 30 * time.Minute
	DefaultStatsTTL    = 10 * time.Minute
)

// HospitalRequests scopes blood request operations to the caller's hospital.
type HospitalRequests struct {
	DB       *gorm.DB
	Requests *BloodRequestService
	Cache    cache.KV

	HospitalTTL time.Duration
	StatsTTL    time.Duration
}

// NewHospitalRequests returns a façade with the default cache expiries.
func NewHospitalRequests(db *gorm.DB, requests *BloodRequestService, kv cache.KV) *HospitalRequests {
	return &HospitalRequests{
		DB:          db,
		Requests:    requests,
		Cache:       kv,
		HospitalTTL: DefaultHospitalTTL,
		StatsTTL:    DefaultStatsTTL,
	}
}

func facadeTracer() trace.Tracer { return otel.Tracer("services/HospitalRequests") }

// CurrentHospital returns the hospital owned by caller, or nil when there is
// none. Found hospitals are cached per caller.
func (h *HospitalRequests) CurrentHospital(ctx context.Context, caller string) (*domain.Hospital, error) {
	if caller == "" {
		return nil, nil
	}
	hosp, hit, err := cache.Remember(ctx, h.Cache, cache.HospitalKey(caller), h.HospitalTTL,
		func(ctx context.Context) (*domain.Hospital, bool, error) {
			found, err := repo.GetHospitalByOwner(ctx, h.DB, caller)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
			return found, true, nil
		})
	if err != nil {
		return nil, err
	}
	observeLookup("hospital", hit)
	return hosp, nil
}

// RequestsForCurrentHospital returns a filtered page of the caller's hospital
// requests and the total number of matches.
func (h *HospitalRequests) RequestsForCurrentHospital(ctx context.Context, caller string, f domain.RequestFilter, page, pageSize int) ([]domain.BloodRequest, int64, error) {
	ctx, span := facadeTracer().Start(ctx, "RequestsForCurrentHospital", trace.WithAttributes(attribute.String("user.id", caller)))
	defer span.End()

	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil {
		return nil, 0, err
	}
	if hosp == nil {
		return []domain.BloodRequest{}, 0, nil
	}
	return h.Requests.ListPage(ctx, hosp.ID, f, page, pageSize)
}

// StatsForCurrentHospital returns the caller's hospital counters, cached per
// hospital. It returns nil when the caller owns no hospital.
func (h *HospitalRequests) StatsForCurrentHospital(ctx context.Context, caller string) (*domain.RequestStats, error) {
	ctx, span := facadeTracer().Start(ctx, "StatsForCurrentHospital", trace.WithAttributes(attribute.String("user.id", caller)))
	defer span.End()

	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil || hosp == nil {
		return nil, err
	}
	stats, hit, err := cache.Remember(ctx, h.Cache, cache.StatsKey(hosp.ID), h.StatsTTL,
		func(ctx context.Context) (*domain.RequestStats, bool, error) {
			st, err := h.Requests.Stats(ctx, hosp.ID)
			return st, err == nil, err
		})
	if err != nil {
		return nil, err
	}
	observeLookup("stats", hit)
	return stats, nil
}

// ExportForCurrentHospital flattens the caller's hospital requests matching
// f into rows plus a summary.
func (h *HospitalRequests) ExportForCurrentHospital(ctx context.Context, caller string, f domain.RequestFilter) (*domain.RequestExport, error) {
	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil {
		return nil, err
	}
	if hosp == nil {
		return buildExport("", nil), nil
	}
	return h.Requests.Export(ctx, hosp.ID, f)
}

// GetForCurrentHospital returns one request of the caller's hospital.
func (h *HospitalRequests) GetForCurrentHospital(ctx context.Context, caller, id string) (*domain.BloodRequest, error) {
	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil {
		return nil, err
	}
	if hosp == nil {
		return nil, ErrRequestNotFound
	}
	return h.Requests.Get(ctx, hosp.ID, id)
}

// VersionForCurrentHospital returns the request count and latest update of
// the caller's hospital for conditional responses.
func (h *HospitalRequests) VersionForCurrentHospital(ctx context.Context, caller string) (int64, *time.Time, error) {
	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil || hosp == nil {
		return 0, nil, err
	}
	return h.Requests.Version(ctx, hosp.ID)
}

// CreateForCurrentHospital validates in and builds it for the caller's
// hospital, overriding any hospital_id in the payload, including those of new
// recipients.
func (h *HospitalRequests) CreateForCurrentHospital(ctx context.Context, caller string, in domain.BloodRequestInput) (*domain.BloodRequest, error) {
	ctx, span := facadeTracer().Start(ctx, "CreateForCurrentHospital", trace.WithAttributes(attribute.String("user.id", caller)))
	defer span.End()

	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil {
		return nil, err
	}
	if hosp == nil {
		return nil, ErrNoHospital
	}
	return h.Requests.Create(ctx, caller, scopeToHospital(in, hosp.ID))
}

// scopeToHospital returns a copy of in with every hospital reference set to
// hospitalID. The caller's items and recipient data are left untouched.
func scopeToHospital(in domain.BloodRequestInput, hospitalID string) domain.BloodRequestInput {
	in.HospitalID = hospitalID
	items := make([]domain.BloodRequestItemInput, len(in.Items))
	copy(items, in.Items)
	for i := range items {
		if items[i].RecipientData != nil {
			rd := *items[i].RecipientData
			rd.HospitalID = hospitalID
			items[i].RecipientData = &rd
		}
	}
	in.Items = items
	return in
}

// UpdateStatusForCurrentHospital changes the status of one of the caller's
// hospital requests.
func (h *HospitalRequests) UpdateStatusForCurrentHospital(ctx context.Context, caller, id string, status domain.RequestStatus) (*domain.BloodRequest, error) {
	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil {
		return nil, err
	}
	if hosp == nil {
		return nil, ErrNoHospital
	}
	return h.Requests.UpdateStatus(ctx, caller, hosp.ID, id, status)
}

// DeleteForCurrentHospital soft-deletes one of the caller's hospital requests.
func (h *HospitalRequests) DeleteForCurrentHospital(ctx context.Context, caller, id string) error {
	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil {
		return err
	}
	if hosp == nil {
		return ErrNoHospital
	}
	return h.Requests.Delete(ctx, caller, hosp.ID, id)
}

// ClearCache drops the caller's hospital entry and that hospital's stats.
func (h *HospitalRequests) ClearCache(ctx context.Context, caller string) error {
	if h.Cache == nil || caller == "" {
		return nil
	}
	keys := []string{cache.HospitalKey(caller)}
	hosp, err := h.CurrentHospital(ctx, caller)
	if err != nil {
		return err
	}
	if hosp != nil {
		keys = append(keys, cache.StatsKey(hosp.ID))
	}
	return h.Cache.Del(ctx, keys...)
}
