package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collegetimetable/scheduler-api/internal/models"
)

// SemesterScheduleSlotRepository manages placed sessions for semester
// schedules.
type SemesterScheduleSlotRepository struct {
	db *sqlx.DB
}

// NewSemesterScheduleSlotRepository builds repository.
func NewSemesterScheduleSlotRepository(db *sqlx.DB) *SemesterScheduleSlotRepository {
	return &SemesterScheduleSlotRepository{db: db}
}

func (r *SemesterScheduleSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch persists the full set of placed sessions for a schedule.
func (r *SemesterScheduleSlotRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SemesterScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO semester_schedule_slots (id, semester_schedule_id, course_id, subject_label, base_subject, kind, batch_tag, day_of_week, time_slot, duration, teacher_id, room_id, created_at)
VALUES (:id, :semester_schedule_id, :course_id, :subject_label, :base_subject, :kind, :batch_tag, :day_of_week, :time_slot, :duration, :teacher_id, :room_id, :created_at)`

	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, slot); err != nil {
			return fmt.Errorf("insert semester schedule slot: %w", err)
		}
	}
	return nil
}

// ListBySchedule returns slots ordered by day/time for a schedule.
func (r *SemesterScheduleSlotRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error) {
	const query = `SELECT id, semester_schedule_id, course_id, subject_label, base_subject, kind, batch_tag, day_of_week, time_slot, duration, teacher_id, room_id, created_at
FROM semester_schedule_slots WHERE semester_schedule_id = $1 ORDER BY day_of_week ASC, time_slot ASC`
	var slots []models.SemesterScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list semester schedule slots: %w", err)
	}
	return slots, nil
}

// ListByDaySlot returns every occupant of a given day/slot across a schedule.
func (r *SemesterScheduleSlotRepository) ListByDaySlot(ctx context.Context, scheduleID string, dayOfWeek, timeSlot int) ([]models.SemesterScheduleSlot, error) {
	const query = `SELECT id, semester_schedule_id, course_id, subject_label, base_subject, kind, batch_tag, day_of_week, time_slot, duration, teacher_id, room_id, created_at
FROM semester_schedule_slots WHERE semester_schedule_id = $1 AND day_of_week = $2 AND time_slot = $3`
	var slots []models.SemesterScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID, dayOfWeek, timeSlot); err != nil {
		return nil, fmt.Errorf("list semester schedule slots by day/slot: %w", err)
	}
	return slots, nil
}

// ListByTeacher returns every session a teacher has across a schedule.
func (r *SemesterScheduleSlotRepository) ListByTeacher(ctx context.Context, scheduleID, teacherID string) ([]models.SemesterScheduleSlot, error) {
	const query = `SELECT id, semester_schedule_id, course_id, subject_label, base_subject, kind, batch_tag, day_of_week, time_slot, duration, teacher_id, room_id, created_at
FROM semester_schedule_slots WHERE semester_schedule_id = $1 AND teacher_id = $2 ORDER BY day_of_week ASC, time_slot ASC`
	var slots []models.SemesterScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID, teacherID); err != nil {
		return nil, fmt.Errorf("list semester schedule slots by teacher: %w", err)
	}
	return slots, nil
}

// Delete removes every slot for a schedule, used when a draft is discarded.
func (r *SemesterScheduleSlotRepository) Delete(ctx context.Context, exec sqlx.ExtContext, scheduleID string) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM semester_schedule_slots WHERE semester_schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("delete semester schedule slots: %w", err)
	}
	return nil
}
