// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipient
// model.
//
// Functions:
//
//   - CreateRecipient(ctx, w, r) -> error
//     Inserts a recipient through the audited writer (added_by stamped).
//
//   - GetRecipient(ctx, db, id) -> *domain.Recipient, error
//     Fetches a recipient by ID, or ErrNotFound.
//
//   - GetHospitalRecipient(ctx, db, hospitalID, id) -> *domain.Recipient, error
//     Same, but only within one hospital.
//
//   - CountRecipients / ListRecipientsPage
//     Paginated listing of a hospital's recipients with optional search on
//     name or id number.
package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

// CreateRecipient inserts r, assigning an ID when empty.
func CreateRecipient(ctx context.Context, w AuditedDB, r *domain.Recipient) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return w.Create(ctx, r)
}

// GetRecipient fetches a recipient by id.
func GetRecipient(ctx context.Context, db *gorm.DB, id string) (*domain.Recipient, error) {
	var r domain.Recipient
	if err := db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// GetHospitalRecipient fetches a recipient by id that belongs to hospitalID.
func GetHospitalRecipient(ctx context.Context, db *gorm.DB, hospitalID, id string) (*domain.Recipient, error) {
	var r domain.Recipient
	if err := db.WithContext(ctx).First(&r, "id = ? AND hospital_id = ?", id, hospitalID).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func recipientsQuery(ctx context.Context, db *gorm.DB, hospitalID, search string) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Recipient{}).Where("hospital_id = ?", hospitalID)
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(id_number) LIKE ?)", like, like)
	}
	return q
}

// CountRecipients returns how many recipients of hospitalID match search.
func CountRecipients(ctx context.Context, db *gorm.DB, hospitalID, search string) (int64, error) {
	var n int64
	err := recipientsQuery(ctx, db, hospitalID, search).Count(&n).Error
	return n, err
}

// ListRecipientsPage returns a page of recipients ordered by name.
func ListRecipientsPage(ctx context.Context, db *gorm.DB, hospitalID, search string, offset, limit int) ([]domain.Recipient, error) {
	var out []domain.Recipient
	err := recipientsQuery(ctx, db, hospitalID, search).
		Preload("BloodGroup").
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
