// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides aggregate/statistics queries: the small
// count + latest-update pair used for ETag generation in the HTTP layer, and
// the dashboard counters of a hospital's blood requests.
package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

// BloodRequestsStats returns aggregate metadata for a hospital's requests:
// the total number of live rows and the maximum UpdatedAt among them.
//
// When the hospital has no requests, the returned count is 0 and
// maxUpdatedAt is nil.
func BloodRequestsStats(ctx context.Context, db *gorm.DB, hospitalID string) (count int64, maxUpdatedAt *time.Time, err error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.BloodRequest{}).Where("hospital_id = ?", hospitalID)
	}

	if err = base().Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = base().Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// HospitalRequestStats computes the dashboard counters for hospitalID as of
// now. Soft-deleted requests and their items are not counted.
func HospitalRequestStats(ctx context.Context, db *gorm.DB, hospitalID string, now time.Time) (*domain.RequestStats, error) {
	requests := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.BloodRequest{}).Where("hospital_id = ?", hospitalID)
	}
	items := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.BloodRequestItem{}).
			Where("blood_request_id IN (?)", db.Model(&domain.BloodRequest{}).Select("id").Where("hospital_id = ?", hospitalID))
	}

	out := &domain.RequestStats{HospitalID: hospitalID, GeneratedAt: now.UTC()}

	var byStatus []struct {
		Status domain.RequestStatus
		N      int64
	}
	if err := requests().Select("status, COUNT(*) AS n").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, s := range byStatus {
		out.TotalRequests += s.N
		switch s.Status {
		case domain.RequestPending:
			out.PendingRequests += s.N
		case domain.RequestClosed:
			out.FulfilledRequests += s.N
		case domain.RequestCancelled:
			out.CancelledRequests += s.N
		}
		if s.Status.Active() {
			out.ActiveRequests += s.N
		}
	}

	if err := items().Count(&out.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := items().Where("urgency IN ?", []domain.Urgency{domain.UrgencyUrgent, domain.UrgencyVeryUrgent}).
		Count(&out.UrgentItems).Error; err != nil {
		return nil, err
	}

	var units decimal.NullDecimal
	if err := items().Select("SUM(units_requested)").Row().Scan(&units); err != nil {
		return nil, err
	}
	out.TotalUnitsRequested = units.Decimal

	month, week := periodStarts(now)
	if err := requests().Where("request_date >= ?", month).Count(&out.ThisMonth).Error; err != nil {
		return nil, err
	}
	if err := requests().Where("request_date >= ?", week).Count(&out.ThisWeek).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// periodStarts returns midnight UTC of the first day of now's month and of
// the Monday of now's week.
func periodStarts(now time.Time) (month, week time.Time) {
	day := startOfDay(now)
	month = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	week = day.AddDate(0, 0, -offset)
	return month, week
}
