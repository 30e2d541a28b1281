// Recipient HTTP handlers.
//
//   - GET  /recipients   (the caller's hospital recipients, paginated, searchable)
//   - POST /recipients   (register a recipient in the caller's hospital)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/bloodbank-backend/internal/domain"
	"github.com/tbourn/bloodbank-backend/internal/services"
	"github.com/tbourn/bloodbank-backend/internal/utils"
)

// ListRecipientsResponse wraps a page of recipients and pagination information.
type ListRecipientsResponse struct {
	Recipients []domain.Recipient `json:"recipients"`
	Pagination Pagination         `json:"pagination"`
}

// ListRecipients godoc
// @ID          listRecipients
// @Summary     List recipients (paginated)
// @Description Returns recipients of the caller's hospital ordered by name. An empty page is returned when the caller has no hospital.
// @Tags        Recipients
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
// @Param       search     query   string  false "Matches name or ID number"
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(15)
//
// @Success     200  {object} handlers.ListRecipientsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipients [get]
func (h *Handlers) ListRecipients(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := utils.PageParams(c.Query("page"), c.Query("page_size"), h.pageSize, maxPageSize)

	hosp, err := h.requests.CurrentHospital(ctx, callerID(c))
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	items, total := []domain.Recipient{}, int64(0)
	if hosp != nil {
		items, total, err = h.recipients.ListPage(ctx, hosp.ID, strings.TrimSpace(c.Query("search")), page, pageSize)
		if err != nil {
			failService(c, err, ErrCodeListFailed)
			return
		}
		if items == nil {
			items = []domain.Recipient{}
		}
	}

	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListRecipientsResponse{
		Recipients: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// CreateRecipient godoc
// @ID          createRecipient
// @Summary     Register a recipient
// @Description Registers a recipient in the caller's hospital. ID numbers are unique.
// @Tags        Recipients
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
// @Param       body       body    domain.RecipientInput  true  "Recipient payload"
//
// @Success     201  {object} domain.Recipient
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller has no hospital"
// @Failure     409  {object} handlers.ErrorResponse "Duplicate ID number"
// @Failure     422  {object} handlers.ErrorResponse "Incomplete recipient"
// @Router      /recipients [post]
func (h *Handlers) CreateRecipient(c *gin.Context) {
	ctx := c.Request.Context()
	caller := callerID(c)

	var in domain.RecipientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	hosp, err := h.requests.CurrentHospital(ctx, caller)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	if hosp == nil {
		failService(c, services.ErrNoHospital, ErrCodeCreateFailed)
		return
	}
	in.HospitalID = hosp.ID

	rec, err := h.recipients.Create(ctx, caller, hosp.ID, in)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, rec)
}
