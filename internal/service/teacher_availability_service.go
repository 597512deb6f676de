package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/collegetimetable/scheduler-api/internal/models"
	"github.com/collegetimetable/scheduler-api/internal/scheduler"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
)

type teacherAvailabilityRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAvailabilitySlot, error)
	ReplaceForTeacher(ctx context.Context, teacherID string, slots []models.TeacherAvailabilitySlot) error
}

// SetTeacherAvailabilityRequest replaces a teacher's weekly availability.
type SetTeacherAvailabilityRequest struct {
	Days []models.TeacherAvailabilityDay `json:"days" validate:"required,dive"`
}

// TeacherAvailabilityService manages per-slot teacher availability.
type TeacherAvailabilityService struct {
	teachers  teacherRepository
	repo      teacherAvailabilityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherAvailabilityService builds the service.
func NewTeacherAvailabilityService(teachers teacherRepository, repo teacherAvailabilityRepository, validate *validator.Validate, logger *zap.Logger) *TeacherAvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherAvailabilityService{teachers: teachers, repo: repo, validator: validate, logger: logger}
}

// Get returns the slots a teacher is available for.
func (s *TeacherAvailabilityService) Get(ctx context.Context, teacherID string) ([]models.TeacherAvailabilitySlot, error) {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	slots, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher availability")
	}
	return slots, nil
}

// Replace sets a teacher's full weekly availability, validating each
// day/slot falls within the fixed week the scheduler understands.
func (s *TeacherAvailabilityService) Replace(ctx context.Context, teacherID string, req SetTeacherAvailabilityRequest) ([]models.TeacherAvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	var slots []models.TeacherAvailabilitySlot
	for _, day := range req.Days {
		dayOfWeek, ok := scheduler.ParseDay(day.DayOfWeek)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "day must be one of Mon..Sat")
		}
		for _, slotRange := range day.Ranges {
			parsed := scheduler.ExpandRange(slotRange)
			if len(parsed) == 0 {
				return nil, appErrors.Clone(appErrors.ErrValidation, "invalid slot range: "+slotRange)
			}
			for _, slot := range parsed {
				slots = append(slots, models.TeacherAvailabilitySlot{
					TeacherID: teacherID,
					DayOfWeek: int(dayOfWeek),
					TimeSlot:  int(slot),
				})
			}
		}
	}

	if err := s.repo.ReplaceForTeacher(ctx, teacherID, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save teacher availability")
	}
	return slots, nil
}
