// Package services – RecipientService and ReferenceService
//
// RecipientService registers and lists the recipients of a hospital.
// ReferenceService exposes blood groups and the operator-side hospital
// registration used by the CLI.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
	"github.com/tbourn/bloodbank-backend/internal/repo"
)

// RecipientService manages recipients.
type RecipientService struct {
	DB *gorm.DB
}

// Create registers a recipient on behalf of actor. hospitalID is used when
// in names no hospital.
func (s *RecipientService) Create(ctx context.Context, actor, hospitalID string, in domain.RecipientInput) (*domain.Recipient, error) {
	var rec *domain.Recipient
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = createRecipient(ctx, repo.Audited(tx, actor), hospitalID, &in)
		return err
	})
	return rec, err
}

// ListPage returns a page of hospitalID's recipients matching search and the
// total number of matches.
func (s *RecipientService) ListPage(ctx context.Context, hospitalID, search string, page, pageSize int) ([]domain.Recipient, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 15
	}
	total, err := repo.CountRecipients(ctx, s.DB, hospitalID, search)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Recipient{}, 0, nil
	}
	items, err := repo.ListRecipientsPage(ctx, s.DB, hospitalID, search, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Get returns a recipient by id.
func (s *RecipientService) Get(ctx context.Context, id string) (*domain.Recipient, error) {
	r, err := repo.GetRecipient(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipientNotFound
	}
	return r, err
}

// ReferenceService serves reference data.
type ReferenceService struct {
	DB *gorm.DB
}

// BloodGroups lists all blood groups by name.
func (s *ReferenceService) BloodGroups(ctx context.Context) ([]domain.BloodGroup, error) {
	return repo.ListBloodGroups(ctx, s.DB)
}

// SeedBloodGroups inserts the standard groups that are missing.
func (s *ReferenceService) SeedBloodGroups(ctx context.Context) (int, error) {
	return repo.SeedBloodGroups(ctx, s.DB)
}

// RegisterHospital creates a hospital owned by owner on behalf of actor. An
// empty code defaults to the item code prefix of the name.
func (s *ReferenceService) RegisterHospital(ctx context.Context, actor, name, code, owner string) (*domain.Hospital, error) {
	name, owner = strings.TrimSpace(name), strings.TrimSpace(owner)
	if name == "" || owner == "" {
		return nil, errors.New("hospital name and owner are required")
	}
	if strings.TrimSpace(code) == "" {
		code = HospitalPrefix(name)
	}
	return repo.CreateHospital(ctx, repo.Audited(s.DB, actor), name, code, owner)
}
