package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collegetimetable/scheduler-api/internal/service"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
	"github.com/collegetimetable/scheduler-api/pkg/response"
)

// TeacherAvailabilityHandler exposes a teacher's weekly availability.
type TeacherAvailabilityHandler struct {
	service *service.TeacherAvailabilityService
}

// NewTeacherAvailabilityHandler constructs the handler.
func NewTeacherAvailabilityHandler(svc *service.TeacherAvailabilityService) *TeacherAvailabilityHandler {
	return &TeacherAvailabilityHandler{service: svc}
}

// Get godoc
// @Summary Get a teacher's available slots
// @Tags Teacher Availability
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/availability [get]
func (h *TeacherAvailabilityHandler) Get(c *gin.Context) {
	slots, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Replace godoc
// @Summary Replace a teacher's weekly availability
// @Tags Teacher Availability
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body service.SetTeacherAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/availability [put]
func (h *TeacherAvailabilityHandler) Replace(c *gin.Context) {
	var req service.SetTeacherAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	slots, err := h.service.Replace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
