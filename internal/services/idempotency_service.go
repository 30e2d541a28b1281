// Package services – IdempotencyService
//
// IdempotencyService remembers which resource a keyed request produced so a
// retried request can be answered with the same resource instead of creating
// a second one. Records are scoped by (user, route, key) and expire after TTL.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/repo"
)

// DefaultIdempotencyTTL is used when no TTL is configured.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyService stores and looks up idempotency records.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
}

// Lookup returns the resource recorded for (userID, scope, key) if the record
// is still valid at now.
func (s *IdempotencyService) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (string, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.ResourceID, true, nil
}

// Record stores resourceID as the result of (userID, scope, key). A record
// written concurrently by another request wins; that case is not an error.
func (s *IdempotencyService) Record(ctx context.Context, userID, scope, key, resourceID string, status int) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}
