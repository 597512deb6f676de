package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegetimetable/scheduler-api/internal/models"
)

func newSemesterScheduleSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSemesterScheduleSlotRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newSemesterScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewSemesterScheduleSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semester_schedule_slots")).
		WithArgs(sqlmock.AnyArg(), "sched-1", "course-1", "sub-1", "sub-1", "lecture", "", 1, 1, 1, "teacher-1", "R1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semester_schedule_slots")).
		WithArgs(sqlmock.AnyArg(), "sched-1", "course-1", "sub-2", "sub-2", "lecture", "", 1, 2, 1, "teacher-2", "R2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slots := []models.SemesterScheduleSlot{
		{
			SemesterScheduleID: "sched-1",
			CourseID:           "course-1",
			SubjectLabel:       "sub-1",
			BaseSubject:        "sub-1",
			Kind:               "lecture",
			DayOfWeek:          1,
			TimeSlot:           1,
			Duration:           1,
			TeacherID:          "teacher-1",
			RoomID:             "R1",
		},
		{
			SemesterScheduleID: "sched-1",
			CourseID:           "course-1",
			SubjectLabel:       "sub-2",
			BaseSubject:        "sub-2",
			Kind:               "lecture",
			DayOfWeek:          1,
			TimeSlot:           2,
			Duration:           1,
			TeacherID:          "teacher-2",
			RoomID:             "R2",
		},
	}

	require.NoError(t, repo.InsertBatch(context.Background(), nil, slots))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterScheduleSlotRepositoryListBySchedule(t *testing.T) {
	db, mock, cleanup := newSemesterScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewSemesterScheduleSlotRepository(db)

	rows := sqlmock.NewRows([]string{"id", "semester_schedule_id", "course_id", "subject_label", "base_subject", "kind", "batch_tag", "day_of_week", "time_slot", "duration", "teacher_id", "room_id", "created_at"}).
		AddRow("slot-1", "sched-1", "course-1", "sub-1", "sub-1", "lecture", "", 1, 1, 1, "teacher-1", "R1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, semester_schedule_id, course_id, subject_label, base_subject, kind, batch_tag, day_of_week, time_slot, duration, teacher_id, room_id, created_at FROM semester_schedule_slots WHERE semester_schedule_id = $1 ORDER BY day_of_week ASC, time_slot ASC")).
		WithArgs("sched-1").
		WillReturnRows(rows)

	slots, err := repo.ListBySchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
