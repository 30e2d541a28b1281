// Blood request HTTP handlers.
//
// This file exposes REST endpoints for the caller's hospital requests:
//   - POST   /blood-requests/validate   (run the payload rules only)
//   - POST   /blood-requests            (create, idempotent)
//   - GET    /blood-requests            (filtered list, paginated, ETag support)
//   - GET    /blood-requests/stats      (counters, cached)
//   - GET    /blood-requests/export     (flat rows + summary)
//   - DELETE /blood-requests/cache      (drop the caller's cached entries)
//   - GET    /blood-requests/{id}
//   - PATCH  /blood-requests/{id}/status
//   - DELETE /blood-requests/{id}
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// create exists for (user, route, key), the handler returns that request and
// sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/bloodbank-backend/internal/domain"
	"github.com/tbourn/bloodbank-backend/internal/http/middleware"
	"github.com/tbourn/bloodbank-backend/internal/utils"
)

//
// DTOs
//

// ListBloodRequestsResponse wraps a page of requests and pagination information.
type ListBloodRequestsResponse struct {
	Requests   []domain.BloodRequest `json:"requests"`
	Pagination Pagination            `json:"pagination"`
}

// ValidateResponse is returned when a payload passes every rule.
type ValidateResponse struct {
	Valid bool `json:"valid" example:"true"`
}

// UpdateStatusRequest is the JSON payload for changing a request status.
type UpdateStatusRequest struct {
	Status domain.RequestStatus `json:"status" binding:"required" example:"approved"`
}

//
// Helpers
//

// parseFilter reads listing filters from the query string. Unknown status or
// urgency values and malformed dates are rejected.
func parseFilter(c *gin.Context) (domain.RequestFilter, error) {
	f := domain.RequestFilter{
		Status:       domain.RequestStatus(strings.TrimSpace(c.Query("status"))),
		Search:       strings.TrimSpace(c.Query("search")),
		Urgency:      domain.Urgency(strings.TrimSpace(c.Query("urgency"))),
		BloodGroupID: strings.TrimSpace(c.Query("blood_group_id")),
		SortBy:       c.Query("sort_by"),
		SortDir:      c.Query("sort_dir"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("unknown status %q", f.Status)
	}
	if f.Urgency != "" && !f.Urgency.Valid() {
		return f, fmt.Errorf("unknown urgency %q", f.Urgency)
	}
	if s := strings.TrimSpace(c.Query("date_from")); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return f, fmt.Errorf("date_from must be YYYY-MM-DD")
		}
		f.DateFrom = &d
	}
	if s := strings.TrimSpace(c.Query("date_to")); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return f, fmt.Errorf("date_to must be YYYY-MM-DD")
		}
		f.DateTo = &d
	}
	return f, nil
}

// queryTag condenses the raw query so listings with different filters or
// pages never share an ETag.
func queryTag(raw string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(raw))
	return h.Sum64()
}

//
// Handlers
//

// ValidateBloodRequest godoc
// @ID          validateBloodRequest
// @Summary     Validate a blood request payload
// @Description Runs every payload rule and reports field errors keyed by dot path. Nothing is stored.
// @Tags        BloodRequests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
// @Param       body       body    domain.BloodRequestInput  true  "Blood request payload"
//
// @Success     200  {object}  handlers.ValidateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Router      /blood-requests/validate [post]
func (h *Handlers) ValidateBloodRequest(c *gin.Context) {
	var in domain.BloodRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ctx := c.Request.Context()

	// The stored request always belongs to the caller's hospital.
	if hosp, err := h.requests.CurrentHospital(ctx, callerID(c)); err == nil && hosp != nil {
		in.HospitalID = hosp.ID
	}
	if err := h.validator.Validate(ctx, in); err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, ValidateResponse{Valid: true})
}

// CreateBloodRequest godoc
// @ID          createBloodRequest
// @Summary     Create a blood request
// @Description Validates the payload and creates the request with all its items for the caller's hospital.
// @Description Supports idempotency via the Idempotency-Key header (same key → same request).
// @Tags        BloodRequests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (development auth)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    domain.BloodRequestInput  true  "Blood request payload"
//
// @Success     201  {object}  domain.BloodRequest
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Caller has no hospital"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /blood-requests [post]
func (h *Handlers) CreateBloodRequest(c *gin.Context) {
	ctx := c.Request.Context()
	caller := callerID(c)

	var in domain.BloodRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Idempotency (replay path).
	if middleware.IsReplay(c) {
		if rid := middleware.ReplayResourceID(c); rid != "" {
			if prev, err := h.requests.GetForCurrentHospital(ctx, caller, rid); err == nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, http.StatusCreated, prev)
				return
			}
		}
	}

	created, err := h.requests.CreateForCurrentHospital(ctx, caller, in)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}

	if err := h.requests.ClearCache(ctx, caller); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("clear cache after create")
	}

	// Idempotency (store path) – best effort.
	if key, has := middleware.GetIdempotencyKey(c); has && h.idem != nil && caller != "" {
		if err := h.idem.Record(ctx, caller, middleware.IdempotencyScope(c), key, created.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("record idempotency key")
		}
	}

	// Answer with the items attached.
	if full, err := h.requests.GetForCurrentHospital(ctx, caller, created.ID); err == nil {
		created = full
	}
	ok(c, http.StatusCreated, created)
}

// ListBloodRequests godoc
// @ID          listBloodRequests
// @Summary     List blood requests (paginated)
// @Description Returns a filtered page of the caller's hospital requests. Supports weak ETag via If-None-Match and may return 304.
// @Tags        BloodRequests
// @Produce     json
//
// @Param       X-User-ID       header  string  false "User ID (development auth)"  example(user123)
// @Param       If-None-Match   header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       status          query   string  false "Request status"  Enums(pending, partial, approved, closed, cancelled)
// @Param       search          query   string  false "Matches notes, recipient name or ID number"
// @Param       urgency         query   string  false "Any item with this urgency"  Enums(normal, urgent, very_urgent)
// @Param       blood_group_id  query   string  false "Any item with this blood group"
// @Param       date_from       query   string  false "Inclusive start day (YYYY-MM-DD)"
// @Param       date_to         query   string  false "Inclusive end day (YYYY-MM-DD)"
// @Param       sort_by         query   string  false "Sort column"  Enums(request_date, created_at, updated_at, status)
// @Param       sort_dir        query   string  false "Sort direction"  Enums(asc, desc)
// @Param       page            query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size       query   int     false "Items per page"  minimum(1) maximum(100) default(15)
//
// @Success     200  {object} handlers.ListBloodRequestsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blood-requests [get]
func (h *Handlers) ListBloodRequests(c *gin.Context) {
	ctx := c.Request.Context()
	caller := callerID(c)

	f, err := parseFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	page, pageSize := utils.PageParams(c.Query("page"), c.Query("page_size"), h.pageSize, maxPageSize)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.requests.VersionForCurrentHospital(ctx, caller); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"blood-requests:%s:%d:%d:%x"`, caller, count, ts, queryTag(c.Request.URL.RawQuery))
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.requests.RequestsForCurrentHospital(ctx, caller, f, page, pageSize)
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	if items == nil {
		items = []domain.BloodRequest{}
	}

	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListBloodRequestsResponse{
		Requests: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// BloodRequestStats godoc
// @ID          bloodRequestStats
// @Summary     Blood request counters
// @Description Returns request and item counters of the caller's hospital. Values are cached for a few minutes.
// @Tags        BloodRequests
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
//
// @Success     200  {object} domain.RequestStats
// @Failure     404  {object} handlers.ErrorResponse "Caller has no hospital"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blood-requests/stats [get]
func (h *Handlers) BloodRequestStats(c *gin.Context) {
	st, err := h.requests.StatsForCurrentHospital(c.Request.Context(), callerID(c))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	if st == nil {
		fail(c, http.StatusNotFound, ErrCodeNoHospital, "no hospital is associated with the caller")
		return
	}
	ok(c, http.StatusOK, st)
}

// ExportBloodRequests godoc
// @ID          exportBloodRequests
// @Summary     Export blood requests
// @Description Flattens the caller's hospital requests matching the filters into one row per item plus a summary.
// @Tags        BloodRequests
// @Produce     json
//
// @Param       X-User-ID       header  string  false "User ID (development auth)"  example(user123)
// @Param       status          query   string  false "Request status"
// @Param       search          query   string  false "Matches notes, recipient name or ID number"
// @Param       urgency         query   string  false "Any item with this urgency"
// @Param       blood_group_id  query   string  false "Any item with this blood group"
// @Param       date_from       query   string  false "Inclusive start day (YYYY-MM-DD)"
// @Param       date_to         query   string  false "Inclusive end day (YYYY-MM-DD)"
//
// @Success     200  {object} domain.RequestExport
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blood-requests/export [get]
func (h *Handlers) ExportBloodRequests(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	exp, err := h.requests.ExportForCurrentHospital(c.Request.Context(), callerID(c), f)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, exp)
}

// ClearBloodRequestCache godoc
// @ID          clearBloodRequestCache
// @Summary     Clear cached hospital data
// @Description Drops the caller's cached hospital lookup and that hospital's cached counters.
// @Tags        BloodRequests
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
//
// @Success     204  {string} string "No Content"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blood-requests/cache [delete]
func (h *Handlers) ClearBloodRequestCache(c *gin.Context) {
	if err := h.requests.ClearCache(c.Request.Context(), callerID(c)); err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// GetBloodRequest godoc
// @ID          getBloodRequest
// @Summary     Get a blood request
// @Description Returns one request of the caller's hospital with its items.
// @Tags        BloodRequests
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
// @Param       id         path    string  true  "Blood request ID (UUID)"      format(uuid)
//
// @Success     200  {object} domain.BloodRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /blood-requests/{id} [get]
func (h *Handlers) GetBloodRequest(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "blood request id must be a UUID")
		return
	}
	r, err := h.requests.GetForCurrentHospital(c.Request.Context(), callerID(c), id)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, r)
}

// UpdateBloodRequestStatus godoc
// @ID          updateBloodRequestStatus
// @Summary     Change a blood request status
// @Description Moves a request forward in its lifecycle. Closed and cancelled requests cannot change.
// @Tags        BloodRequests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
// @Param       id         path    string  true  "Blood request ID (UUID)"      format(uuid)
// @Param       body       body    handlers.UpdateStatusRequest  true  "New status"
//
// @Success     200  {object} domain.BloodRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller has no hospital"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     409  {object} handlers.ErrorResponse "Closed request or invalid transition"
// @Router      /blood-requests/{id}/status [patch]
func (h *Handlers) UpdateBloodRequestStatus(c *gin.Context) {
	ctx := c.Request.Context()
	caller := callerID(c)
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "blood request id must be a UUID")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}

	r, err := h.requests.UpdateStatusForCurrentHospital(ctx, caller, id, req.Status)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	if err := h.requests.ClearCache(ctx, caller); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("clear cache after status change")
	}
	ok(c, http.StatusOK, r)
}

// DeleteBloodRequest godoc
// @ID          deleteBloodRequest
// @Summary     Delete a blood request
// @Description Soft-deletes a request of the caller's hospital. Items are kept.
// @Tags        BloodRequests
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
// @Param       id         path    string  true  "Blood request ID (UUID)"      format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller has no hospital"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /blood-requests/{id} [delete]
func (h *Handlers) DeleteBloodRequest(c *gin.Context) {
	ctx := c.Request.Context()
	caller := callerID(c)
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "blood request id must be a UUID")
		return
	}
	if err := h.requests.DeleteForCurrentHospital(ctx, caller, id); err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	if err := h.requests.ClearCache(ctx, caller); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("clear cache after delete")
	}
	noContent(c)
}
