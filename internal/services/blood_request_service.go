// Package services – BloodRequestService
//
// This file implements BloodRequestService, which owns the lifecycle of blood
// requests. It validates payloads with the rules engine, builds the request
// aggregate (header, recipients, items) in a single transaction, and serves
// the hospital-scoped reads, status changes, and soft deletion.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the hospital and request identifiers where applicable.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
	"github.com/tbourn/bloodbank-backend/internal/repo"
	"github.com/tbourn/bloodbank-backend/internal/rules"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BloodRequestService coordinates blood request persistence.
type BloodRequestService struct {
	DB         *gorm.DB
	Rules      *rules.Engine
	Codes      *CodeGenerator
	Recipients RecipientResolver

	// Now is the clock used for statistics.
	Now func() time.Time
}

// NewBloodRequestService wires a service with the default rules and a code
// generator trying up to maxCodeAttempts candidates per item.
func NewBloodRequestService(db *gorm.DB, maxCodeAttempts int) *BloodRequestService {
	return &BloodRequestService{
		DB:    db,
		Rules: rules.NewDefaultEngine(),
		Codes: NewCodeGenerator(maxCodeAttempts),
		Now:   time.Now,
	}
}

func tracer() trace.Tracer { return otel.Tracer("services/BloodRequestService") }

// Validate runs the rules engine over in. It returns a *rules.ValidationError
// listing every violation, or nil.
func (s *BloodRequestService) Validate(ctx context.Context, in domain.BloodRequestInput) error {
	_, span := tracer().Start(ctx, "Validate", trace.WithAttributes(attribute.Int("items", len(in.Items))))
	defer span.End()

	res := s.Rules.Evaluate(in)
	if !res.OK() {
		validationFailures.Inc()
		span.SetAttributes(attribute.Int("violations", len(res.Violations)))
	}
	return res.Err()
}

// Create validates in and builds the request on behalf of actor.
func (s *BloodRequestService) Create(ctx context.Context, actor string, in domain.BloodRequestInput) (*domain.BloodRequest, error) {
	if err := s.Validate(ctx, in); err != nil {
		return nil, err
	}
	return s.CreateWithItems(ctx, actor, in)
}

// CreateWithItems persists the header and all items of in atomically. Each
// item's recipient is resolved (and created when requested) inside the same
// transaction, items are always stored pending, and each gets a unique code.
// Any failure rolls everything back. The returned header has no items
// attached; callers that need them re-fetch with Get.
func (s *BloodRequestService) CreateWithItems(ctx context.Context, actor string, in domain.BloodRequestInput) (*domain.BloodRequest, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}

	ctx, span := tracer().Start(ctx, "CreateWithItems",
		trace.WithAttributes(
			attribute.String("hospital.id", in.HospitalID),
			attribute.Int("items", len(in.Items)),
		),
	)
	defer span.End()

	date, err := domain.ParseDate(in.RequestDate)
	if err != nil {
		return nil, rules.Result{Violations: []rules.Violation{{
			Field: "request_date", Rule: "request_date_format",
			Message: "The request date must be a date in YYYY-MM-DD format.",
		}}}.Err()
	}

	var header *domain.BloodRequest
	urgencies := make([]domain.Urgency, 0, len(in.Items))

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hospital, err := repo.GetHospital(ctx, tx, strings.TrimSpace(in.HospitalID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrHospitalNotFound, in.HospitalID)
			}
			return err
		}
		prefix := HospitalPrefix(hospital.Name)
		w := repo.Audited(tx, actor)

		header = &domain.BloodRequest{
			HospitalID:  hospital.ID,
			RequestDate: date,
			Notes:       strings.TrimSpace(in.Notes),
			Status:      domain.RequestPending,
		}
		if err := repo.CreateBloodRequest(ctx, w, header); err != nil {
			return fmt.Errorf("create header: %w", err)
		}

		for i, it := range in.Items {
			recipientID, bloodGroupID, err := s.Recipients.Resolve(ctx, w, hospital.ID, it)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			item := newItem(header.ID, recipientID, bloodGroupID, it)
			if _, err := s.Codes.Assign(ctx, tx, prefix, func(code string) error {
				item.Code = code
				return repo.CreateBloodRequestItem(ctx, w, item)
			}); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			urgencies = append(urgencies, item.Urgency)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, err
	}

	requestsCreated.Inc()
	for _, u := range urgencies {
		itemsCreated.WithLabelValues(string(u)).Inc()
	}
	span.SetAttributes(attribute.String("request.id", header.ID))
	log.Info().Str("request_id", header.ID).Str("hospital_id", header.HospitalID).Int("items", len(urgencies)).Msg("blood request created")
	return header, nil
}

// newItem maps an item payload to a pending item of request.
func newItem(requestID string, recipientID, bloodGroupID *string, it domain.BloodRequestItemInput) *domain.BloodRequestItem {
	urgency := it.Urgency
	if urgency == "" {
		urgency = domain.UrgencyNormal
	}
	item := &domain.BloodRequestItem{
		BloodRequestID: requestID,
		BloodGroupID:   bloodGroupID,
		RecipientID:    recipientID,
		UnitsRequested: it.UnitsRequested,
		Urgency:        urgency,
		Status:         domain.ItemPending,
		Notes:          strings.TrimSpace(it.Notes),
	}
	if it.UnitsFulfilled != nil {
		item.UnitsFulfilled = decimal.NewNullDecimal(*it.UnitsFulfilled)
	}
	return item
}

// Get returns a request of hospitalID with its items.
func (s *BloodRequestService) Get(ctx context.Context, hospitalID, id string) (*domain.BloodRequest, error) {
	ctx, span := tracer().Start(ctx, "Get",
		trace.WithAttributes(attribute.String("hospital.id", hospitalID), attribute.String("request.id", id)))
	defer span.End()

	r, err := repo.GetBloodRequest(ctx, s.DB, hospitalID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	return r, err
}

// ListPage returns a filtered page of hospitalID's requests and the total
// number of matches. It applies defaults for invalid page/pageSize.
func (s *BloodRequestService) ListPage(ctx context.Context, hospitalID string, f domain.RequestFilter, page, pageSize int) ([]domain.BloodRequest, int64, error) {
	ctx, span := tracer().Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("hospital.id", hospitalID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 15
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountBloodRequests(ctx, s.DB, hospitalID, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.BloodRequest{}, 0, nil
	}
	items, err := repo.ListBloodRequestsPage(ctx, s.DB, hospitalID, f, offset, pageSize)
	return items, total, err
}

// Stats computes the dashboard counters of hospitalID.
func (s *BloodRequestService) Stats(ctx context.Context, hospitalID string) (*domain.RequestStats, error) {
	ctx, span := tracer().Start(ctx, "Stats", trace.WithAttributes(attribute.String("hospital.id", hospitalID)))
	defer span.End()
	return repo.HospitalRequestStats(ctx, s.DB, hospitalID, s.now())
}

// Version returns the number of requests of hospitalID and the latest update
// time, suitable for building an ETag.
func (s *BloodRequestService) Version(ctx context.Context, hospitalID string) (int64, *time.Time, error) {
	return repo.BloodRequestsStats(ctx, s.DB, hospitalID)
}

// Export flattens every request of hospitalID matching f into one row per
// item plus a summary. Requests without items yield no rows but are counted.
func (s *BloodRequestService) Export(ctx context.Context, hospitalID string, f domain.RequestFilter) (*domain.RequestExport, error) {
	ctx, span := tracer().Start(ctx, "Export", trace.WithAttributes(attribute.String("hospital.id", hospitalID)))
	defer span.End()

	reqs, err := repo.ListBloodRequestsForExport(ctx, s.DB, hospitalID, f)
	if err != nil {
		return nil, err
	}
	return buildExport(hospitalID, reqs), nil
}

func buildExport(hospitalID string, reqs []domain.BloodRequest) *domain.RequestExport {
	out := &domain.RequestExport{
		HospitalID: hospitalID,
		Rows:       []domain.ExportRow{},
		Summary:    domain.ExportSummary{Requests: len(reqs)},
	}
	for _, r := range reqs {
		for _, it := range r.Items {
			row := domain.ExportRow{
				RequestID:      r.ID,
				RequestDate:    r.RequestDate.UTC().Format(domain.DateLayout),
				RequestStatus:  r.Status,
				ItemCode:       it.Code,
				BloodGroup:     "General",
				Urgency:        it.Urgency,
				ItemStatus:     it.Status,
				UnitsRequested: it.UnitsRequested,
				UnitsFulfilled: it.UnitsFulfilled.Decimal,
			}
			if it.BloodGroup != nil {
				row.BloodGroup = it.BloodGroup.Name
			}
			if it.Recipient != nil {
				row.RecipientName = it.Recipient.Name
				if it.Recipient.IDNumber != nil {
					row.RecipientIDNo = *it.Recipient.IDNumber
				}
			}
			out.Rows = append(out.Rows, row)
			out.Summary.Items++
			out.Summary.UnitsRequested = out.Summary.UnitsRequested.Add(row.UnitsRequested)
			out.Summary.UnitsFulfilled = out.Summary.UnitsFulfilled.Add(row.UnitsFulfilled)
		}
	}
	return out
}

// UpdateStatus moves a request of hospitalID to status on behalf of actor.
// Transitions are monotonic; cancelling also cancels the request's pending
// items.
func (s *BloodRequestService) UpdateStatus(ctx context.Context, actor, hospitalID, id string, status domain.RequestStatus) (*domain.BloodRequest, error) {
	ctx, span := tracer().Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.String("request.id", id),
			attribute.String("status", string(status)),
		),
	)
	defer span.End()

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.GetBloodRequest(ctx, tx, hospitalID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if r.Status.Terminal() {
			return ErrRequestClosed
		}
		if !r.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, status)
		}
		w := repo.Audited(tx, actor)
		if err := repo.UpdateBloodRequestStatus(ctx, w, r, status); err != nil {
			return err
		}
		if status == domain.RequestCancelled {
			return tx.Model(&domain.BloodRequestItem{}).
				Where("blood_request_id = ? AND status = ?", r.ID, domain.ItemPending).
				Updates(map[string]any{"status": domain.ItemCancelled, "updated_by": actor}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, hospitalID, id)
}

// Delete soft-deletes a request of hospitalID on behalf of actor.
func (s *BloodRequestService) Delete(ctx context.Context, actor, hospitalID, id string) error {
	ctx, span := tracer().Start(ctx, "Delete", trace.WithAttributes(attribute.String("request.id", id)))
	defer span.End()

	r, err := repo.GetBloodRequest(ctx, s.DB, hospitalID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	err = repo.SoftDeleteBloodRequest(ctx, repo.Audited(s.DB, actor), r)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequestNotFound
	}
	return err
}

func (s *BloodRequestService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
