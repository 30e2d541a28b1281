package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStats is the counter bundle shown on a hospital dashboard.
//
// Active counts pending, partial, and approved requests. Fulfilled counts
// closed requests. ThisWeek starts on Monday; both period counters use the
// request date.
type RequestStats struct {
	HospitalID          string          `json:"hospital_id"`
	TotalRequests       int64           `json:"total_requests"`
	ActiveRequests      int64           `json:"active_requests"`
	PendingRequests     int64           `json:"pending_requests"`
	FulfilledRequests   int64           `json:"fulfilled_requests"`
	CancelledRequests   int64           `json:"cancelled_requests"`
	TotalItems          int64           `json:"total_items"`
	UrgentItems         int64           `json:"urgent_items"`
	TotalUnitsRequested decimal.Decimal `json:"total_units_requested" swaggertype:"string"`
	ThisMonth           int64           `json:"this_month"`
	ThisWeek            int64           `json:"this_week"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// ExportRow is one flattened request item, ready for a tabular renderer.
type ExportRow struct {
	RequestID      string          `json:"request_id"`
	RequestDate    string          `json:"request_date"`
	RequestStatus  RequestStatus   `json:"request_status"`
	ItemCode       string          `json:"item_code"`
	BloodGroup     string          `json:"blood_group"`
	RecipientName  string          `json:"recipient_name"`
	RecipientIDNo  string          `json:"recipient_id_number"`
	Urgency        Urgency         `json:"urgency"`
	ItemStatus     ItemStatus      `json:"item_status"`
	UnitsRequested decimal.Decimal `json:"units_requested" swaggertype:"string"`
	UnitsFulfilled decimal.Decimal `json:"units_fulfilled" swaggertype:"string"`
}

// ExportSummary is the trailing totals row of an export.
type ExportSummary struct {
	Requests       int             `json:"requests"`
	Items          int             `json:"items"`
	UnitsRequested decimal.Decimal `json:"units_requested" swaggertype:"string"`
	UnitsFulfilled decimal.Decimal `json:"units_fulfilled" swaggertype:"string"`
}

// RequestExport bundles rows and summary for one hospital.
type RequestExport struct {
	HospitalID string        `json:"hospital_id"`
	Rows       []ExportRow   `json:"rows"`
	Summary    ExportSummary `json:"summary"`
}
