package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collegetimetable/scheduler-api/internal/service"
	"github.com/collegetimetable/scheduler-api/pkg/response"
)

// ScheduleExportHandler exposes CSV/PDF downloads for a saved schedule.
type ScheduleExportHandler struct {
	service *service.ScheduleExportService
}

// NewScheduleExportHandler constructs the export handler.
func NewScheduleExportHandler(svc *service.ScheduleExportService) *ScheduleExportHandler {
	return &ScheduleExportHandler{service: svc}
}

// CSV godoc
// @Summary Download a saved schedule as CSV
// @Tags Schedules
// @Produce text/csv
// @Param id path string true "Schedule ID"
// @Success 200 {file} file
// @Router /schedules/{id}/export.csv [get]
func (h *ScheduleExportHandler) CSV(c *gin.Context) {
	id := c.Param("id")
	data, err := h.service.RenderCSV(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%s.csv", id))
	c.Data(http.StatusOK, "text/csv", data)
}

// PDF godoc
// @Summary Download a saved schedule as PDF
// @Tags Schedules
// @Produce application/pdf
// @Param id path string true "Schedule ID"
// @Success 200 {file} file
// @Router /schedules/{id}/export.pdf [get]
func (h *ScheduleExportHandler) PDF(c *gin.Context) {
	id := c.Param("id")
	data, err := h.service.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", data)
}
