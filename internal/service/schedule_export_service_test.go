package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/collegetimetable/scheduler-api/internal/models"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
)

func TestScheduleExportServiceRenderCSV(t *testing.T) {
	svc := newScheduleExportFixture(t)

	data, err := svc.RenderCSV(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Data Structures")
	assert.Contains(t, string(data), "Dr. Rao")
	assert.Contains(t, string(data), "CR-101")
}

func TestScheduleExportServiceRenderPDF(t *testing.T) {
	svc := newScheduleExportFixture(t)

	data, err := svc.RenderPDF(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestScheduleExportServiceUnknownSchedule(t *testing.T) {
	svc := newScheduleExportFixture(t)

	_, err := svc.RenderCSV(context.Background(), "does-not-exist")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func newScheduleExportFixture(t *testing.T) *ScheduleExportService {
	t.Helper()

	schedules := exportScheduleReaderStub{
		byID: map[string]*models.SemesterSchedule{
			"sched-1": {ID: "sched-1", TermID: "2025-1", Version: 1},
		},
	}
	slots := exportSlotReaderStub{
		bySchedule: map[string][]models.SemesterScheduleSlot{
			"sched-1": {
				{
					ID:                 "slot-1",
					SemesterScheduleID: "sched-1",
					CourseID:           "course-1",
					SubjectLabel:       "Data Structures",
					Kind:               "LECTURE",
					BatchTag:           "ALL",
					DayOfWeek:          1,
					TimeSlot:           0,
					TeacherID:          "t-1",
					RoomID:             "room-1",
				},
			},
		},
	}
	courses := exportCourseRepoStub{byID: map[string]*models.Course{"course-1": {ID: "course-1", Name: "BSc-CS-3"}}}
	teachers := exportTeacherRepoStub{byID: map[string]*models.Teacher{"t-1": {ID: "t-1", Name: "Dr. Rao"}}}
	classrooms := exportClassroomRepoStub{byID: map[string]*models.Classroom{"room-1": {ID: "room-1", RoomID: "CR-101"}}}

	return NewScheduleExportService(schedules, slots, courses, teachers, classrooms, zap.NewNop())
}

type exportScheduleReaderStub struct {
	byID map[string]*models.SemesterSchedule
}

func (s exportScheduleReaderStub) FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error) {
	schedule, ok := s.byID[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return schedule, nil
}

type exportSlotReaderStub struct {
	bySchedule map[string][]models.SemesterScheduleSlot
}

func (s exportSlotReaderStub) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error) {
	return s.bySchedule[scheduleID], nil
}

type exportCourseRepoStub struct {
	byID map[string]*models.Course
}

func (s exportCourseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}
func (s exportCourseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}
func (s exportCourseRepoStub) Detail(ctx context.Context, id string) (*models.CourseDetail, error) {
	return nil, nil
}
func (s exportCourseRepoStub) Create(ctx context.Context, course *models.Course) error { return nil }
func (s exportCourseRepoStub) Update(ctx context.Context, course *models.Course) error { return nil }
func (s exportCourseRepoStub) Delete(ctx context.Context, id string) error             { return nil }
func (s exportCourseRepoStub) ReplaceSubjects(ctx context.Context, exec sqlx.ExtContext, courseID string, subjectIDs []string) error {
	return nil
}

type exportTeacherRepoStub struct {
	byID map[string]*models.Teacher
}

func (s exportTeacherRepoStub) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	return nil, 0, nil
}
func (s exportTeacherRepoStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
}
func (s exportTeacherRepoStub) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	return false, nil
}
func (s exportTeacherRepoStub) Create(ctx context.Context, teacher *models.Teacher) error { return nil }
func (s exportTeacherRepoStub) Update(ctx context.Context, teacher *models.Teacher) error { return nil }
func (s exportTeacherRepoStub) Deactivate(ctx context.Context, id string) error           { return nil }
func (s exportTeacherRepoStub) ReplaceSubjects(ctx context.Context, exec sqlx.ExtContext, teacherID string, subjectIDs []string) error {
	return nil
}

type exportClassroomRepoStub struct {
	byID map[string]*models.Classroom
}

func (s exportClassroomRepoStub) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error) {
	return nil, 0, nil
}
func (s exportClassroomRepoStub) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
}
func (s exportClassroomRepoStub) ExistsByRoomID(ctx context.Context, roomID string, excludeID string) (bool, error) {
	return false, nil
}
func (s exportClassroomRepoStub) Create(ctx context.Context, classroom *models.Classroom) error { return nil }
func (s exportClassroomRepoStub) Update(ctx context.Context, classroom *models.Classroom) error { return nil }
func (s exportClassroomRepoStub) Delete(ctx context.Context, id string) error                   { return nil }
