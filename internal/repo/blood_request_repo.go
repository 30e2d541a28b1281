// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// BloodRequest aggregate: headers and their items.
//
// All functions are context-aware and accept either a *gorm.DB handle (reads)
// or an AuditedDB writer (writes), making them safe for use within
// transactions. Every read is scoped to a hospital; soft-deleted headers are
// excluded by GORM's default scope.
//
// Functions:
//
//   - CreateBloodRequest / CreateBloodRequestItem
//     Insert rows with UUID primary keys through the audited writer.
//
//   - ItemCodeExists(ctx, db, code) -> bool, error
//     Checks whether an item code is already taken (unique index backstop).
//
//   - GetBloodRequest(ctx, db, hospitalID, id) -> *domain.BloodRequest, error
//     Fetches a header with items, their blood groups and recipients.
//
//   - CountBloodRequests / ListBloodRequestsPage / ListBloodRequestsForExport
//     Filtered listings, see domain.RequestFilter.
//
//   - UpdateBloodRequestStatus / SoftDeleteBloodRequest
//     Audited state changes on a header.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[string]string{
	"request_date": "request_date",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"status":       "status",
}

// CreateBloodRequest inserts the header r, assigning an ID when empty.
func CreateBloodRequest(ctx context.Context, w AuditedDB, r *domain.BloodRequest) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return w.Create(ctx, r)
}

// CreateBloodRequestItem inserts item, assigning an ID when empty. A taken
// code surfaces as a unique violation (see IsDuplicate).
func CreateBloodRequestItem(ctx context.Context, w AuditedDB, item *domain.BloodRequestItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return w.Create(ctx, item)
}

// ItemCodeExists reports whether code is already used by any item.
func ItemCodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.BloodRequestItem{}).Where("code = ?", code).Limit(1).Count(&n).Error
	return n > 0, err
}

func preloadItems(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, code ASC") }).
		Preload("Items.BloodGroup").
		Preload("Items.Recipient")
}

// GetBloodRequest fetches a header of hospitalID with its items.
func GetBloodRequest(ctx context.Context, db *gorm.DB, hospitalID, id string) (*domain.BloodRequest, error) {
	var r domain.BloodRequest
	err := preloadItems(db.WithContext(ctx)).
		Where("hospital_id = ?", hospitalID).
		First(&r, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// filteredRequests builds the filtered header query of hospitalID. Item-level
// filters use subqueries so a header matches at most once.
func filteredRequests(ctx context.Context, db *gorm.DB, hospitalID string, f domain.RequestFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.BloodRequest{}).Where("blood_requests.hospital_id = ?", hospitalID)

	if f.Status != "" {
		q = q.Where("blood_requests.status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		byRecipient := db.Model(&domain.BloodRequestItem{}).
			Select("blood_request_items.blood_request_id").
			Joins("JOIN recipients ON recipients.id = blood_request_items.recipient_id").
			Where("LOWER(recipients.name) LIKE ? OR LOWER(recipients.id_number) LIKE ?", like, like)
		q = q.Where("(LOWER(blood_requests.notes) LIKE ? OR blood_requests.id IN (?))", like, byRecipient)
	}
	if f.Urgency != "" {
		q = q.Where("blood_requests.id IN (?)",
			db.Model(&domain.BloodRequestItem{}).Select("blood_request_id").Where("urgency = ?", f.Urgency))
	}
	if f.BloodGroupID != "" {
		q = q.Where("blood_requests.id IN (?)",
			db.Model(&domain.BloodRequestItem{}).Select("blood_request_id").Where("blood_group_id = ?", f.BloodGroupID))
	}
	if f.DateFrom != nil {
		q = q.Where("blood_requests.request_date >= ?", startOfDay(*f.DateFrom))
	}
	if f.DateTo != nil {
		q = q.Where("blood_requests.request_date < ?", startOfDay(*f.DateTo).Add(24*time.Hour))
	}
	return q
}

func orderRequests(q *gorm.DB, f domain.RequestFilter) *gorm.DB {
	col, ok := sortColumns[strings.ToLower(strings.TrimSpace(f.SortBy))]
	if !ok {
		col = "request_date"
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(f.SortDir), "asc") {
		dir = "ASC"
	}
	return q.Order("blood_requests." + col + " " + dir).Order("blood_requests.created_at DESC")
}

// CountBloodRequests returns how many headers of hospitalID match f.
func CountBloodRequests(ctx context.Context, db *gorm.DB, hospitalID string, f domain.RequestFilter) (int64, error) {
	var n int64
	err := filteredRequests(ctx, db, hospitalID, f).Count(&n).Error
	return n, err
}

// ListBloodRequestsPage returns a page of headers of hospitalID matching f,
// with items preloaded.
func ListBloodRequestsPage(ctx context.Context, db *gorm.DB, hospitalID string, f domain.RequestFilter, offset, limit int) ([]domain.BloodRequest, error) {
	var out []domain.BloodRequest
	q := orderRequests(filteredRequests(ctx, db, hospitalID, f), f)
	err := preloadItems(q).Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ListBloodRequestsForExport returns every header of hospitalID matching f
// with items, ordered like the listing.
func ListBloodRequestsForExport(ctx context.Context, db *gorm.DB, hospitalID string, f domain.RequestFilter) ([]domain.BloodRequest, error) {
	var out []domain.BloodRequest
	q := orderRequests(filteredRequests(ctx, db, hospitalID, f), f)
	err := preloadItems(q).Find(&out).Error
	return out, err
}

// UpdateBloodRequestStatus sets r's status on behalf of the writer's actor.
func UpdateBloodRequestStatus(ctx context.Context, w AuditedDB, r *domain.BloodRequest, status domain.RequestStatus) error {
	n, err := w.Updates(ctx, r, map[string]any{"status": status})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	r.Status = status
	return nil
}

// SoftDeleteBloodRequest marks r deleted on behalf of the writer's actor.
// Items are kept for fulfillment history.
func SoftDeleteBloodRequest(ctx context.Context, w AuditedDB, r *domain.BloodRequest) error {
	return w.SoftDelete(ctx, r)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
