package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collegetimetable/scheduler-api/internal/models"
)

// SemesterScheduleSkipRepository records requirements the generator
// could not place for a saved schedule.
type SemesterScheduleSkipRepository struct {
	db *sqlx.DB
}

// NewSemesterScheduleSkipRepository builds repository.
func NewSemesterScheduleSkipRepository(db *sqlx.DB) *SemesterScheduleSkipRepository {
	return &SemesterScheduleSkipRepository{db: db}
}

func (r *SemesterScheduleSkipRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch persists the skipped requirements for a schedule.
func (r *SemesterScheduleSkipRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, skips []models.SemesterScheduleSkip) error {
	if len(skips) == 0 {
		return nil
	}
	target := r.exec(exec)
	const query = `INSERT INTO semester_schedule_skips (id, semester_schedule_id, course_id, subject_label, batch_tag, reason)
VALUES (:id, :semester_schedule_id, :course_id, :subject_label, :batch_tag, :reason)`
	for i := range skips {
		skip := &skips[i]
		if skip.ID == "" {
			skip.ID = uuid.NewString()
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, skip); err != nil {
			return fmt.Errorf("insert semester schedule skip: %w", err)
		}
	}
	return nil
}

// ListBySchedule returns the skipped requirements for a schedule.
func (r *SemesterScheduleSkipRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSkip, error) {
	const query = `SELECT id, semester_schedule_id, course_id, subject_label, batch_tag, reason FROM semester_schedule_skips WHERE semester_schedule_id = $1`
	var skips []models.SemesterScheduleSkip
	if err := r.db.SelectContext(ctx, &skips, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list semester schedule skips: %w", err)
	}
	return skips, nil
}
