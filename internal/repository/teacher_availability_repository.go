package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collegetimetable/scheduler-api/internal/models"
)

// TeacherAvailabilityRepository persists the per-slot availability a
// teacher submitted, replacing the old day-string blob design so
// individual slots can be queried and updated directly.
type TeacherAvailabilityRepository struct {
	db *sqlx.DB
}

// NewTeacherAvailabilityRepository constructs the repository.
func NewTeacherAvailabilityRepository(db *sqlx.DB) *TeacherAvailabilityRepository {
	return &TeacherAvailabilityRepository{db: db}
}

// ListByTeacher returns every allowed slot for a teacher.
func (r *TeacherAvailabilityRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAvailabilitySlot, error) {
	const query = `SELECT id, teacher_id, day_of_week, time_slot FROM teacher_availability_slots WHERE teacher_id = $1 ORDER BY day_of_week ASC, time_slot ASC`
	var slots []models.TeacherAvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher availability: %w", err)
	}
	return slots, nil
}

// ListAll returns every teacher's availability slots in one query, the
// shape the generator's availability table is built from.
func (r *TeacherAvailabilityRepository) ListAll(ctx context.Context) ([]models.TeacherAvailabilitySlot, error) {
	const query = `SELECT id, teacher_id, day_of_week, time_slot FROM teacher_availability_slots ORDER BY teacher_id, day_of_week ASC, time_slot ASC`
	var slots []models.TeacherAvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list all teacher availability: %w", err)
	}
	return slots, nil
}

// ReplaceForTeacher replaces a teacher's full availability for the week.
func (r *TeacherAvailabilityRepository) ReplaceForTeacher(ctx context.Context, teacherID string, slots []models.TeacherAvailabilitySlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher availability tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM teacher_availability_slots WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("clear teacher availability: %w", err)
	}

	const insert = `INSERT INTO teacher_availability_slots (id, teacher_id, day_of_week, time_slot) VALUES ($1, $2, $3, $4)`
	for _, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, insert, slot.ID, teacherID, slot.DayOfWeek, slot.TimeSlot); err != nil {
			return fmt.Errorf("insert teacher availability slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher availability tx: %w", err)
	}
	return nil
}
