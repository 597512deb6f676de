package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/collegetimetable/scheduler-api/internal/dto"
	"github.com/collegetimetable/scheduler-api/internal/models"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
	"github.com/collegetimetable/scheduler-api/pkg/jobs"
)

func TestScheduleGeneratorServiceGenerateSuccess(t *testing.T) {
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{})

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		TermID:    "term-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Assignments)
	assert.Empty(t, resp.Skipped)
}

func TestScheduleGeneratorServiceGenerateUnknownCourse(t *testing.T) {
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{})

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		TermID:    "term-1",
		CourseIDs: []string{"does-not-exist"},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestScheduleGeneratorServiceSaveDraft(t *testing.T) {
	txProvider, mock := newTxProviderMock(t)
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{tx: txProvider})

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		TermID:    "term-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	id, err := svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleGeneratorServiceSaveExpiredProposal(t *testing.T) {
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{ttl: time.Millisecond})

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		TermID:    "term-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestScheduleGeneratorServiceEnqueueGenerateRequiresQueue(t *testing.T) {
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{})

	_, err := svc.EnqueueGenerate(context.Background(), dto.GenerateScheduleRequest{
		TermID:    "term-1",
		CourseIDs: []string{"course-1"},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestScheduleGeneratorServiceHandleGenerateJobSuccess(t *testing.T) {
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{})

	req := dto.GenerateScheduleRequest{TermID: "term-1", CourseIDs: []string{"course-1"}}
	jobID := "job-1"
	svc.jobs.Set(jobID, dto.GenerateJobStatus{JobID: jobID, State: dto.GenerateJobPending})

	err := svc.HandleGenerateJob(context.Background(), jobs.Job{ID: jobID, Type: "schedule.generate", Payload: req})
	require.NoError(t, err)

	status, ok := svc.JobStatus(jobID)
	require.True(t, ok)
	assert.Equal(t, dto.GenerateJobSucceeded, status.State)
	require.NotNil(t, status.Result)
	assert.NotEmpty(t, status.Result.Assignments)
}

func TestScheduleGeneratorServiceHandleGenerateJobBadPayload(t *testing.T) {
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{})

	jobID := "job-2"
	svc.jobs.Set(jobID, dto.GenerateJobStatus{JobID: jobID, State: dto.GenerateJobPending})

	err := svc.HandleGenerateJob(context.Background(), jobs.Job{ID: jobID, Type: "schedule.generate", Payload: "not-a-request"})
	require.Error(t, err)

	status, ok := svc.JobStatus(jobID)
	require.True(t, ok)
	assert.Equal(t, dto.GenerateJobFailed, status.State)
}

func TestScheduleGeneratorServiceOccupantsUsesCache(t *testing.T) {
	svc := newSchedulerServiceFixture(t, schedulerFixtureConfig{})

	schedules := svc.schedules.(*semesterScheduleRepoStub)
	schedules.items = append(schedules.items, models.SemesterSchedule{ID: "sched-1", TermID: "term-1"})
	slotStub := svc.slots.(*semesterScheduleSlotRepoStub)
	slotStub.items = map[string][]models.SemesterScheduleSlot{
		"sched-1": {{ID: "slot-1", SemesterScheduleID: "sched-1", DayOfWeek: 1, TimeSlot: 0, RoomID: "room-1"}},
	}

	cacheRepo := newFakeCacheRepository()
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc.AttachCache(cacheSvc)

	first, err := svc.Occupants(context.Background(), "sched-1", 1, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	slotStub.items["sched-1"] = nil

	second, err := svc.Occupants(context.Background(), "sched-1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// --- Fixtures ---

type schedulerFixtureConfig struct {
	tx  txProvider
	ttl time.Duration
}

func newSchedulerServiceFixture(t *testing.T, cfg schedulerFixtureConfig) *ScheduleGeneratorService {
	t.Helper()

	courses := courseReaderStub{
		details: []models.CourseDetail{
			{
				Course: models.Course{ID: "course-1", Name: "BSc-CS-3", Semester: 3, NumBatches: 2, Capacity: 60},
				Subjects: []models.CourseSubjectRef{
					{SubjectID: "subj-1", SubjectName: "Data Structures", Position: 0},
				},
			},
		},
	}
	subjects := subjectReaderStub{
		byName: map[string]models.Subject{
			"Data Structures": {ID: "subj-1", Name: "Data Structures", Department: "CS", LectureHours: 3},
		},
	}
	teachers := teacherReaderStub{
		details: []models.TeacherDetail{
			{Teacher: models.Teacher{ID: "t-1", Name: "Dr. Rao", FacultyType: models.FacultyTypePermanent, Active: true}, Subjects: []string{"Data Structures"}},
		},
	}
	availability := availabilityReaderStub{}
	classrooms := classroomReaderStub{
		rooms: []models.Classroom{
			{ID: "room-1", RoomID: "CR-101", ClassType: models.RoomTypeCR, Department: "CS", Capacity: 70},
		},
	}
	terms := termReaderStub{}
	schedules := &semesterScheduleRepoStub{}
	slots := &semesterScheduleSlotRepoStub{}
	skips := &semesterScheduleSkipRepoStub{}

	tx := cfg.tx
	if tx == nil {
		tx = noopTxProvider{}
	}
	ttl := cfg.ttl
	if ttl == 0 {
		ttl = time.Hour
	}

	return NewScheduleGeneratorService(
		terms,
		courses,
		subjects,
		teachers,
		availability,
		classrooms,
		schedules,
		slots,
		skips,
		tx,
		validator.New(),
		zap.NewNop(),
		ScheduleGeneratorConfig{ProposalTTL: ttl},
	)
}

type courseReaderStub struct {
	details []models.CourseDetail
}

func (s courseReaderStub) ListDetails(ctx context.Context, ids []string) ([]models.CourseDetail, error) {
	if len(ids) == 0 {
		return s.details, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.CourseDetail
	for _, d := range s.details {
		if _, ok := want[d.ID]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

type subjectReaderStub struct {
	byName map[string]models.Subject
}

func (s subjectReaderStub) FindByNames(ctx context.Context, names []string) (map[string]models.Subject, error) {
	out := make(map[string]models.Subject, len(names))
	for _, n := range names {
		if subj, ok := s.byName[n]; ok {
			out[n] = subj
		}
	}
	return out, nil
}

type teacherReaderStub struct {
	details []models.TeacherDetail
}

func (s teacherReaderStub) ListActive(ctx context.Context) ([]models.TeacherDetail, error) {
	return s.details, nil
}

type availabilityReaderStub struct{}

func (availabilityReaderStub) ListAll(ctx context.Context) ([]models.TeacherAvailabilitySlot, error) {
	return nil, nil
}

type classroomReaderStub struct {
	rooms []models.Classroom
}

func (s classroomReaderStub) ListAll(ctx context.Context) ([]models.Classroom, error) {
	return s.rooms, nil
}

type termReaderStub struct{}

func (termReaderStub) FindByID(ctx context.Context, id string) (*models.Term, error) {
	return &models.Term{ID: id}, nil
}

type semesterScheduleRepoStub struct {
	items   []models.SemesterSchedule
	courses map[string][]string
}

func (s *semesterScheduleRepoStub) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, schedule *models.SemesterSchedule) error {
	schedule.ID = uuidString(len(s.items) + 1)
	schedule.Version = len(s.items) + 1
	s.items = append(s.items, *schedule)
	return nil
}

func (s *semesterScheduleRepoStub) AddCourses(ctx context.Context, exec sqlx.ExtContext, scheduleID string, courseIDs []string) error {
	if s.courses == nil {
		s.courses = make(map[string][]string)
	}
	s.courses[scheduleID] = courseIDs
	return nil
}

func (s *semesterScheduleRepoStub) ListByTerm(ctx context.Context, termID string) ([]models.SemesterSchedule, error) {
	return s.items, nil
}

func (s *semesterScheduleRepoStub) FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error) {
	for _, item := range s.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *semesterScheduleRepoStub) Delete(ctx context.Context, id string) error {
	for idx, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *semesterScheduleRepoStub) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SemesterScheduleStatus, meta types.JSONText) error {
	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items[idx].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

type semesterScheduleSlotRepoStub struct {
	items map[string][]models.SemesterScheduleSlot
}

func (s *semesterScheduleSlotRepoStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SemesterScheduleSlot) error {
	if s.items == nil {
		s.items = make(map[string][]models.SemesterScheduleSlot)
	}
	for _, slot := range slots {
		s.items[slot.SemesterScheduleID] = append(s.items[slot.SemesterScheduleID], slot)
	}
	return nil
}

func (s *semesterScheduleSlotRepoStub) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error) {
	return s.items[scheduleID], nil
}

func (s *semesterScheduleSlotRepoStub) ListByDaySlot(ctx context.Context, scheduleID string, dayOfWeek, timeSlot int) ([]models.SemesterScheduleSlot, error) {
	var out []models.SemesterScheduleSlot
	for _, slot := range s.items[scheduleID] {
		if slot.DayOfWeek == dayOfWeek && slot.TimeSlot == timeSlot {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *semesterScheduleSlotRepoStub) ListByTeacher(ctx context.Context, scheduleID, teacherID string) ([]models.SemesterScheduleSlot, error) {
	var out []models.SemesterScheduleSlot
	for _, slot := range s.items[scheduleID] {
		if slot.TeacherID == teacherID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *semesterScheduleSlotRepoStub) Delete(ctx context.Context, exec sqlx.ExtContext, scheduleID string) error {
	delete(s.items, scheduleID)
	return nil
}

type semesterScheduleSkipRepoStub struct {
	items map[string][]models.SemesterScheduleSkip
}

func (s *semesterScheduleSkipRepoStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, skips []models.SemesterScheduleSkip) error {
	if s.items == nil {
		s.items = make(map[string][]models.SemesterScheduleSkip)
	}
	for _, sk := range skips {
		s.items[sk.SemesterScheduleID] = append(s.items[sk.SemesterScheduleID], sk)
	}
	return nil
}

func (s *semesterScheduleSkipRepoStub) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSkip, error) {
	return s.items[scheduleID], nil
}

type noopTxProvider struct{}

func (noopTxProvider) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider unavailable")
}

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

func uuidString(v int) string {
	return "sched-" + strconv.Itoa(v)
}

type fakeCacheRepository struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCacheRepository() *fakeCacheRepository {
	return &fakeCacheRepository{items: make(map[string][]byte)}
}

func (c *fakeCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *fakeCacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		delete(c.items, k)
	}
	return nil
}
