package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/collegetimetable/scheduler-api/internal/dto"
	"github.com/collegetimetable/scheduler-api/internal/models"
	"github.com/collegetimetable/scheduler-api/internal/scheduler"
	"github.com/collegetimetable/scheduler-api/internal/service"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
	"github.com/collegetimetable/scheduler-api/pkg/response"
)

const maxCourseIDs = 64

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Save(ctx context.Context, req dto.SaveScheduleRequest) (string, error)
	List(ctx context.Context, query dto.SemesterScheduleQuery) ([]models.SemesterSchedule, error)
	GetSlots(ctx context.Context, id string) ([]models.SemesterScheduleSlot, error)
	GetSkips(ctx context.Context, id string) ([]models.SemesterScheduleSkip, error)
	Occupants(ctx context.Context, scheduleID string, day scheduler.Day, slot scheduler.Slot) ([]models.SemesterScheduleSlot, error)
	FreeRooms(ctx context.Context, scheduleID string, day scheduler.Day, slot scheduler.Slot) ([]models.Classroom, error)
	AssignmentsOf(ctx context.Context, scheduleID, teacherID string) ([]models.SemesterScheduleSlot, error)
	Delete(ctx context.Context, id string) error
	EnqueueGenerate(ctx context.Context, req dto.GenerateScheduleRequest) (string, error)
	JobStatus(jobID string) (dto.GenerateJobStatus, bool)
}

// ScheduleGeneratorHandler exposes timetable generation endpoints.
type ScheduleGeneratorHandler struct {
	service scheduleGenerator
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Generate a timetable proposal for a set of courses
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/generator [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if len(req.CourseIDs) > maxCourseIDs {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseIds exceeds supported limit"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateAsync godoc
// @Summary Queue a timetable proposal generation for background processing
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 202 {object} response.Envelope
// @Router /schedules/generator/async [post]
func (h *ScheduleGeneratorHandler) GenerateAsync(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if len(req.CourseIDs) > maxCourseIDs {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseIds exceeds supported limit"))
		return
	}
	jobID, err := h.service.EnqueueGenerate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.GenerateJobAccepted{JobID: jobID}, nil)
}

// JobStatus godoc
// @Summary Poll the status of a queued generate job
// @Tags Scheduler
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/generator/jobs/{jobId} [get]
func (h *ScheduleGeneratorHandler) JobStatus(c *gin.Context) {
	status, ok := h.service.JobStatus(c.Param("jobId"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "job not found"))
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Save godoc
// @Summary Save a generated proposal as a semester schedule
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleRequest true "Save schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/save [post]
func (h *ScheduleGeneratorHandler) Save(c *gin.Context) {
	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	id, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"scheduleId": id})
}

// List godoc
// @Summary List semester schedule versions for a term
// @Tags Scheduler
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleGeneratorHandler) List(c *gin.Context) {
	query := dto.SemesterScheduleQuery{TermID: c.Query("termId")}
	result, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Slots godoc
// @Summary Get placed sessions for a semester schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Semester schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/slots [get]
func (h *ScheduleGeneratorHandler) Slots(c *gin.Context) {
	slots, err := h.service.GetSlots(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Skips godoc
// @Summary Get requirements the generator could not place
// @Tags Scheduler
// @Produce json
// @Param id path string true "Semester schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/skips [get]
func (h *ScheduleGeneratorHandler) Skips(c *gin.Context) {
	skips, err := h.service.GetSkips(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skips, nil)
}

// Occupants godoc
// @Summary Get every session occupying a day/slot of a schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Semester schedule ID"
// @Param day query string true "Day (Mon..Sat)"
// @Param slot query int true "Slot index (0-9)"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/occupants [get]
func (h *ScheduleGeneratorHandler) Occupants(c *gin.Context) {
	day, slot, err := parseDaySlot(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	occupants, err := h.service.Occupants(c.Request.Context(), c.Param("id"), day, slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occupants, nil)
}

// FreeRooms godoc
// @Summary Get every classroom free at a day/slot of a schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Semester schedule ID"
// @Param day query string true "Day (Mon..Sat)"
// @Param slot query int true "Slot index (0-9)"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/free-rooms [get]
func (h *ScheduleGeneratorHandler) FreeRooms(c *gin.Context) {
	day, slot, err := parseDaySlot(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rooms, err := h.service.FreeRooms(c.Request.Context(), c.Param("id"), day, slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// Assignments godoc
// @Summary Get every session a teacher has across a schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Semester schedule ID"
// @Param teacherId query string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/assignments [get]
func (h *ScheduleGeneratorHandler) Assignments(c *gin.Context) {
	teacherID := c.Query("teacherId")
	if teacherID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId is required"))
		return
	}
	assignments, err := h.service.AssignmentsOf(c.Request.Context(), c.Param("id"), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Delete godoc
// @Summary Delete a draft semester schedule
// @Tags Scheduler
// @Param id path string true "Semester schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleGeneratorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseDaySlot(c *gin.Context) (scheduler.Day, scheduler.Slot, error) {
	day, ok := scheduler.ParseDay(c.Query("day"))
	if !ok {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "day must be one of Mon..Sat")
	}
	slotVal, ok := c.GetQuery("slot")
	if !ok {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "slot is required")
	}
	slot, err := strconv.Atoi(slotVal)
	if err != nil || slot < 0 || slot >= scheduler.NumSlots {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "slot must be an integer between 0 and 9")
	}
	return day, scheduler.Slot(slot), nil
}
