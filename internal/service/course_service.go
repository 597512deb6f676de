package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/collegetimetable/scheduler-api/internal/models"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Detail(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	ReplaceSubjects(ctx context.Context, exec sqlx.ExtContext, courseID string, subjectIDs []string) error
}

// CourseSubjectInput orders a subject within a course's curriculum.
type CourseSubjectInput struct {
	SubjectID string `json:"subject_id" validate:"required"`
}

// CreateCourseRequest captures fields for creating a course.
type CreateCourseRequest struct {
	Name       string               `json:"name" validate:"required"`
	Semester   int                  `json:"semester" validate:"min=1"`
	NumBatches int                  `json:"num_batches" validate:"min=1"`
	Capacity   int                  `json:"capacity" validate:"min=1"`
	Subjects   []CourseSubjectInput `json:"subjects" validate:"omitempty,dive"`
}

// UpdateCourseRequest modifies course fields and curriculum order.
type UpdateCourseRequest struct {
	Name       string               `json:"name" validate:"required"`
	Semester   int                  `json:"semester" validate:"min=1"`
	NumBatches int                  `json:"num_batches" validate:"min=1"`
	Capacity   int                  `json:"capacity" validate:"min=1"`
	Subjects   []CourseSubjectInput `json:"subjects" validate:"omitempty,dive"`
}

// CourseService handles course/curriculum workflows.
type CourseService struct {
	repo      courseRepository
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService builds a CourseService.
func NewCourseService(repo courseRepository, tx txProvider, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, tx: tx, validator: validate, logger: logger}
}

// List returns paginated courses.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return courses, pagination, nil
}

// Get returns a course with its ordered subject list.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	detail, err := s.repo.Detail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return detail, nil
}

// Create adds a new course and its curriculum.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Name:       req.Name,
		Semester:   req.Semester,
		NumBatches: req.NumBatches,
		Capacity:   req.Capacity,
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	if len(req.Subjects) > 0 {
		subjectIDs := make([]string, len(req.Subjects))
		for i, sub := range req.Subjects {
			subjectIDs[i] = sub.SubjectID
		}
		if err := s.repo.ReplaceSubjects(ctx, tx, course.ID, subjectIDs); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set course subjects")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit course")
	}

	return s.Get(ctx, course.ID)
}

// Update modifies an existing course and replaces its curriculum.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	course.Name = req.Name
	course.Semester = req.Semester
	course.NumBatches = req.NumBatches
	course.Capacity = req.Capacity

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	subjectIDs := make([]string, len(req.Subjects))
	for i, sub := range req.Subjects {
		subjectIDs[i] = sub.SubjectID
	}
	if err := s.repo.ReplaceSubjects(ctx, tx, course.ID, subjectIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set course subjects")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit course")
	}

	return s.Get(ctx, course.ID)
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}
