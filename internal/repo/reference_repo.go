// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for reference
// data: blood groups and hospitals.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return ErrNotFound.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

// ListBloodGroups returns all blood groups ordered by name.
func ListBloodGroups(ctx context.Context, db *gorm.DB) ([]domain.BloodGroup, error) {
	var out []domain.BloodGroup
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// GetBloodGroup fetches a blood group by id.
func GetBloodGroup(ctx context.Context, db *gorm.DB, id string) (*domain.BloodGroup, error) {
	var bg domain.BloodGroup
	if err := db.WithContext(ctx).First(&bg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bg, nil
}

// GetBloodGroupByName fetches a blood group by its label, e.g. "O-".
func GetBloodGroupByName(ctx context.Context, db *gorm.DB, name string) (*domain.BloodGroup, error) {
	var bg domain.BloodGroup
	if err := db.WithContext(ctx).First(&bg, "name = ?", strings.ToUpper(strings.TrimSpace(name))).Error; err != nil {
		return nil, err
	}
	return &bg, nil
}

// CreateHospital inserts a hospital owned by ownerUserID on behalf of the
// audited writer's actor.
func CreateHospital(ctx context.Context, w AuditedDB, name, code, ownerUserID string) (*domain.Hospital, error) {
	h := &domain.Hospital{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Code:        strings.TrimSpace(code),
		OwnerUserID: ownerUserID,
	}
	if err := w.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetHospital fetches a hospital by id.
func GetHospital(ctx context.Context, db *gorm.DB, id string) (*domain.Hospital, error) {
	var h domain.Hospital
	if err := db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// GetHospitalByOwner returns the hospital owned by userID. When several rows
// exist for the same owner the oldest wins, so the answer is stable.
func GetHospitalByOwner(ctx context.Context, db *gorm.DB, userID string) (*domain.Hospital, error) {
	var h domain.Hospital
	err := db.WithContext(ctx).
		Where("owner_user_id = ?", userID).
		Order("created_at ASC").
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}
