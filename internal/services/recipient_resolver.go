// Package services – recipient resolution
//
// RecipientResolver decides which recipient and which blood group a request
// item is stored with. The recipient record is trusted over the payload: a
// specific item tied to an existing recipient is stored with that recipient's
// blood group, whatever the item itself carried, and falls back to the item's
// group only when the recipient has none on file. Existing recipients must
// belong to the requesting hospital. "General" is a per-item flag; general
// items are always stored without a blood group.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
	"github.com/tbourn/bloodbank-backend/internal/repo"
)

// RecipientResolver resolves and, when asked to, creates item recipients.
type RecipientResolver struct{}

// Resolve returns the recipient ID and effective blood group ID of it.
// hospitalID is the requesting hospital: referenced recipients of other
// hospitals are reported as not found, and new recipient data that names no
// hospital is filed under it. Writes go through w, so a recipient created here is rolled
// back with the enclosing transaction.
func (RecipientResolver) Resolve(ctx context.Context, w repo.AuditedDB, hospitalID string, it domain.BloodRequestItemInput) (recipientID, bloodGroupID *string, err error) {
	ref := strings.TrimSpace(it.RecipientID)

	switch {
	case ref != "" && !it.AddNewRecipient:
		rec, err := repo.GetHospitalRecipient(ctx, w.DB(), hospitalID, ref)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: %s", ErrRecipientNotFound, ref)
			}
			return nil, nil, err
		}
		if it.IsGeneral {
			return &rec.ID, nil, nil
		}
		if rec.BloodGroupID != nil && *rec.BloodGroupID != "" {
			return &rec.ID, rec.BloodGroupID, nil
		}
		bg := strings.TrimSpace(it.BloodGroupID)
		if bg == "" {
			return nil, nil, fmt.Errorf("%w: recipient %s has no blood group and the item names none", ErrIncompleteRecipient, rec.ID)
		}
		if err := ensureBloodGroup(ctx, w.DB(), bg); err != nil {
			return nil, nil, err
		}
		return &rec.ID, &bg, nil

	case it.AddNewRecipient || !it.RecipientData.IsEmpty():
		rec, err := createRecipient(ctx, w, hospitalID, it.RecipientData)
		if err != nil {
			return nil, nil, err
		}
		if it.IsGeneral {
			return &rec.ID, nil, nil
		}
		return &rec.ID, rec.BloodGroupID, nil

	case it.IsGeneral:
		return nil, nil, nil
	}

	bg := strings.TrimSpace(it.BloodGroupID)
	if bg == "" {
		return nil, nil, nil
	}
	if err := ensureBloodGroup(ctx, w.DB(), bg); err != nil {
		return nil, nil, err
	}
	return nil, &bg, nil
}

// buildRecipient checks in for completeness and converts it to a model.
// defaultHospital is used when in names no hospital.
func buildRecipient(in *domain.RecipientInput, defaultHospital string) (*domain.Recipient, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: no recipient data", ErrIncompleteRecipient)
	}
	hospital := strings.TrimSpace(in.HospitalID)
	if hospital == "" {
		hospital = defaultHospital
	}
	required := []struct{ field, value string }{
		{"name", in.Name},
		{"blood_group_id", in.BloodGroupID},
		{"hospital_id", hospital},
		{"gender", string(in.Gender)},
		{"date_of_birth", in.DateOfBirth},
		{"id_number", in.IDNumber},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrIncompleteRecipient, r.field)
		}
	}
	if !in.Gender.Valid() {
		return nil, fmt.Errorf("%w: gender must be male or female", ErrIncompleteRecipient)
	}
	dob, err := domain.ParseDate(in.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: date_of_birth: %v", ErrIncompleteRecipient, err)
	}

	bg := strings.TrimSpace(in.BloodGroupID)
	idn := strings.TrimSpace(in.IDNumber)
	return &domain.Recipient{
		Name:         strings.TrimSpace(in.Name),
		IDNumber:     &idn,
		BloodGroupID: &bg,
		HospitalID:   hospital,
		DateOfBirth:  &dob,
		Gender:       in.Gender,
		MedicalNotes: strings.TrimSpace(in.MedicalNotes),
	}, nil
}

// createRecipient validates in, checks its references, and inserts it.
func createRecipient(ctx context.Context, w repo.AuditedDB, defaultHospital string, in *domain.RecipientInput) (*domain.Recipient, error) {
	rec, err := buildRecipient(in, defaultHospital)
	if err != nil {
		return nil, err
	}
	if err := ensureBloodGroup(ctx, w.DB(), *rec.BloodGroupID); err != nil {
		return nil, err
	}
	if _, err := repo.GetHospital(ctx, w.DB(), rec.HospitalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHospitalNotFound, rec.HospitalID)
		}
		return nil, err
	}
	if err := repo.CreateRecipient(ctx, w, rec); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: id number %s", ErrDuplicateRecipient, *rec.IDNumber)
		}
		return nil, err
	}
	return rec, nil
}

func ensureBloodGroup(ctx context.Context, db *gorm.DB, id string) error {
	if _, err := repo.GetBloodGroup(ctx, db, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrBloodGroupNotFound, id)
		}
		return err
	}
	return nil
}
