// Reference data HTTP handlers.
//
//   - GET /hospital      (the caller's hospital)
//   - GET /blood-groups  (all blood groups)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/bloodbank-backend/internal/domain"
)

// ListBloodGroupsResponse wraps the blood group list.
type ListBloodGroupsResponse struct {
	BloodGroups []domain.BloodGroup `json:"blood_groups"`
}

// CurrentHospital godoc
// @ID          currentHospital
// @Summary     Current hospital
// @Description Returns the hospital owned by the caller.
// @Tags        Reference
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (development auth)"  example(user123)
//
// @Success     200  {object} domain.Hospital
// @Failure     404  {object} handlers.ErrorResponse "Caller has no hospital"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /hospital [get]
func (h *Handlers) CurrentHospital(c *gin.Context) {
	hosp, err := h.requests.CurrentHospital(c.Request.Context(), callerID(c))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	if hosp == nil {
		fail(c, http.StatusNotFound, ErrCodeNoHospital, "no hospital is associated with the caller")
		return
	}
	ok(c, http.StatusOK, hosp)
}

// ListBloodGroups godoc
// @ID          listBloodGroups
// @Summary     List blood groups
// @Tags        Reference
// @Produce     json
//
// @Success     200  {object} handlers.ListBloodGroupsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blood-groups [get]
func (h *Handlers) ListBloodGroups(c *gin.Context) {
	groups, err := h.reference.BloodGroups(c.Request.Context())
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	if groups == nil {
		groups = []domain.BloodGroup{}
	}
	ok(c, http.StatusOK, ListBloodGroupsResponse{BloodGroups: groups})
}
