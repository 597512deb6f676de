package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/collegetimetable/scheduler-api/internal/dto"
	"github.com/collegetimetable/scheduler-api/internal/models"
	"github.com/collegetimetable/scheduler-api/internal/scheduler"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
	"github.com/collegetimetable/scheduler-api/pkg/jobs"
)

type semesterScheduleRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, schedule *models.SemesterSchedule) error
	AddCourses(ctx context.Context, exec sqlx.ExtContext, scheduleID string, courseIDs []string) error
	ListByTerm(ctx context.Context, termID string) ([]models.SemesterSchedule, error)
	FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SemesterScheduleStatus, meta types.JSONText) error
}

type semesterScheduleSlotRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SemesterScheduleSlot) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error)
	ListByDaySlot(ctx context.Context, scheduleID string, dayOfWeek, timeSlot int) ([]models.SemesterScheduleSlot, error)
	ListByTeacher(ctx context.Context, scheduleID, teacherID string) ([]models.SemesterScheduleSlot, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, scheduleID string) error
}

type semesterScheduleSkipRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, skips []models.SemesterScheduleSkip) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSkip, error)
}

type schedulerTermReader interface {
	FindByID(ctx context.Context, id string) (*models.Term, error)
}

type schedulerCourseReader interface {
	ListDetails(ctx context.Context, ids []string) ([]models.CourseDetail, error)
}

type schedulerSubjectReader interface {
	FindByNames(ctx context.Context, names []string) (map[string]models.Subject, error)
}

type schedulerTeacherReader interface {
	ListActive(ctx context.Context) ([]models.TeacherDetail, error)
}

type schedulerAvailabilityReader interface {
	ListAll(ctx context.Context) ([]models.TeacherAvailabilitySlot, error)
}

type schedulerClassroomReader interface {
	ListAll(ctx context.Context) ([]models.Classroom, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// ScheduleGeneratorService builds timetable proposals with the
// constraint-based solver and persists accepted ones as semester
// schedules.
type ScheduleGeneratorService struct {
	terms        schedulerTermReader
	courses      schedulerCourseReader
	subjects     schedulerSubjectReader
	teachers     schedulerTeacherReader
	availability schedulerAvailabilityReader
	classrooms   schedulerClassroomReader
	schedules    semesterScheduleRepository
	slots        semesterScheduleSlotRepository
	skips        semesterScheduleSkipRepository
	tx           txProvider
	validator    *validator.Validate
	logger       *zap.Logger
	store        *proposalStore
	jobs         *jobStatusStore
	queue        *jobs.Queue
	cache        *CacheService
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	ProposalTTL time.Duration
}

// NewScheduleGeneratorService wires scheduler dependencies.
func NewScheduleGeneratorService(
	terms schedulerTermReader,
	courses schedulerCourseReader,
	subjects schedulerSubjectReader,
	teachers schedulerTeacherReader,
	availability schedulerAvailabilityReader,
	classrooms schedulerClassroomReader,
	schedules semesterScheduleRepository,
	slots semesterScheduleSlotRepository,
	skips semesterScheduleSkipRepository,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	return &ScheduleGeneratorService{
		terms:        terms,
		courses:      courses,
		subjects:     subjects,
		teachers:     teachers,
		availability: availability,
		classrooms:   classrooms,
		schedules:    schedules,
		slots:        slots,
		skips:        skips,
		tx:           tx,
		validator:    validate,
		logger:       logger,
		store:        newProposalStore(cfg.ProposalTTL),
		jobs:         newJobStatusStore(),
	}
}

// AttachQueue wires an async worker-pool queue so Generate can be run
// out of band via EnqueueGenerate. The queue's handler must be this
// service's HandleGenerateJob.
func (s *ScheduleGeneratorService) AttachQueue(queue *jobs.Queue) {
	s.queue = queue
}

// AttachCache wires a cache service used to short-circuit the
// read-heavy occupants/free-rooms lookups.
func (s *ScheduleGeneratorService) AttachCache(cache *CacheService) {
	s.cache = cache
}

// EnqueueGenerate queues a generate request for background processing
// and returns immediately with a job id the caller can poll.
func (s *ScheduleGeneratorService) EnqueueGenerate(ctx context.Context, req dto.GenerateScheduleRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	if s.queue == nil {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "async schedule generation is not enabled")
	}
	jobID := uuid.NewString()
	s.jobs.Set(jobID, dto.GenerateJobStatus{JobID: jobID, State: dto.GenerateJobPending})
	if err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: "schedule.generate", Payload: req}); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue schedule generation")
	}
	return jobID, nil
}

// JobStatus reports the lifecycle state of a queued generate job.
func (s *ScheduleGeneratorService) JobStatus(jobID string) (dto.GenerateJobStatus, bool) {
	return s.jobs.Get(jobID)
}

// HandleGenerateJob is the jobs.Handler driving the async generate queue.
func (s *ScheduleGeneratorService) HandleGenerateJob(ctx context.Context, job jobs.Job) error {
	s.jobs.Set(job.ID, dto.GenerateJobStatus{JobID: job.ID, State: dto.GenerateJobRunning})
	req, ok := job.Payload.(dto.GenerateScheduleRequest)
	if !ok {
		s.jobs.Set(job.ID, dto.GenerateJobStatus{JobID: job.ID, State: dto.GenerateJobFailed, Error: "invalid job payload"})
		return fmt.Errorf("schedule.generate: unexpected payload type %T", job.Payload)
	}
	result, err := s.Generate(ctx, req)
	if err != nil {
		s.jobs.Set(job.ID, dto.GenerateJobStatus{JobID: job.ID, State: dto.GenerateJobFailed, Error: err.Error()})
		return err
	}
	s.jobs.Set(job.ID, dto.GenerateJobStatus{JobID: job.ID, State: dto.GenerateJobSucceeded, Result: result})
	return nil
}

// Generate runs the backtracking search over the requested courses and
// caches the result as a proposal pending Save.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	if s.terms != nil {
		if _, err := s.terms.FindByID(ctx, req.TermID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
		}
	}

	courseDetails, err := s.courses.ListDetails(ctx, req.CourseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if len(courseDetails) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no courses found for the requested ids")
	}

	courses, subjectNames, courseIDByName := toSchedulerCourses(courseDetails)
	specsByName, err := s.loadSubjectSpecs(ctx, subjectNames)
	if err != nil {
		return nil, err
	}

	teacherDetails, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	if len(teacherDetails) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active teachers available")
	}
	teachers := toSchedulerTeachers(teacherDetails)

	availSlots, err := s.availability.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher availability")
	}
	availByName := toSchedulerAvailability(teacherDetails, availSlots)

	rooms, err := s.classrooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no classrooms available")
	}
	schedulerRooms := toSchedulerClassrooms(rooms)

	requirements := scheduler.Expand(courses, specsByName)
	if len(requirements) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the requested courses produce no timetable requirements")
	}

	assignments, skipped, err := scheduler.Solve(scheduler.Input{
		Requirements: requirements,
		Teachers:     teachers,
		Availability: availByName,
		Classrooms:   schedulerRooms,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrUnsatisfiable) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "no feasible timetable exists for the requested courses")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule generation failed")
	}

	proposal := scheduleProposal{
		ProposalID:     uuid.NewString(),
		TermID:         req.TermID,
		CourseIDs:      req.CourseIDs,
		CourseIDByName: courseIDByName,
		Assignments:    assignments,
		Skipped:        skipped,
		RequestedAt:    time.Now().UTC(),
	}
	s.store.Save(proposal)

	return &dto.GenerateScheduleResponse{
		ProposalID:  proposal.ProposalID,
		Assignments: toAssignmentViews(assignments),
		Skipped:     toSkipViews(skipped),
	}, nil
}

// Save persists a cached proposal as a new semester schedule version.
func (s *ScheduleGeneratorService) Save(ctx context.Context, req dto.SaveScheduleRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save schedule payload")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if s.tx == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	metaPayload := map[string]any{
		"generated":    proposal.RequestedAt,
		"courseIds":    proposal.CourseIDs,
		"skippedCount": len(proposal.Skipped),
	}
	metaBytes, marshalErr := json.Marshal(metaPayload)
	if marshalErr != nil {
		err = appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule metadata")
		return "", err
	}

	status := models.SemesterScheduleStatusDraft
	if req.Publish {
		status = models.SemesterScheduleStatusPublished
	}
	record := &models.SemesterSchedule{
		TermID: proposal.TermID,
		Status: status,
		Meta:   types.JSONText(metaBytes),
	}
	if err = s.schedules.CreateVersioned(ctx, tx, record); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester schedule")
		return "", err
	}
	if err = s.schedules.AddCourses(ctx, tx, record.ID, proposal.CourseIDs); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link semester schedule courses")
		return "", err
	}

	courseIDByName := proposal.CourseIDByName
	slotModels := make([]models.SemesterScheduleSlot, 0, len(proposal.Assignments))
	for _, a := range proposal.Assignments {
		slotModels = append(slotModels, models.SemesterScheduleSlot{
			SemesterScheduleID: record.ID,
			CourseID:           courseIDByName[a.Course],
			SubjectLabel:       a.SubjectLabel,
			BaseSubject:        a.BaseSubject,
			Kind:               a.Kind.String(),
			BatchTag:           a.BatchTag,
			DayOfWeek:          int(a.Day),
			TimeSlot:           int(a.StartSlot),
			Duration:           a.Duration,
			TeacherID:          a.Teacher,
			RoomID:             a.RoomID,
		})
	}
	if err = s.slots.InsertBatch(ctx, tx, slotModels); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist semester schedule slots")
		return "", err
	}

	if len(proposal.Skipped) > 0 {
		skipModels := make([]models.SemesterScheduleSkip, 0, len(proposal.Skipped))
		for _, sk := range proposal.Skipped {
			skipModels = append(skipModels, models.SemesterScheduleSkip{
				SemesterScheduleID: record.ID,
				CourseID:           courseIDByName[sk.Course],
				SubjectLabel:       sk.SubjectLabel,
				BatchTag:           sk.BatchTag,
				Reason:             sk.Reason,
			})
		}
		if err = s.skips.InsertBatch(ctx, tx, skipModels); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist skipped requirements")
			return "", err
		}
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
		return "", err
	}

	s.store.Delete(req.ProposalID)
	return record.ID, nil
}

// List returns semester schedules for a term.
func (s *ScheduleGeneratorService) List(ctx context.Context, query dto.SemesterScheduleQuery) ([]models.SemesterSchedule, error) {
	if query.TermID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "termId is required")
	}
	list, err := s.schedules.ListByTerm(ctx, query.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester schedules")
	}
	return list, nil
}

// GetSlots returns slot detail for a stored schedule.
func (s *ScheduleGeneratorService) GetSlots(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error) {
	if _, err := s.mustFindSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	slots, err := s.slots.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester schedule slots")
	}
	return slots, nil
}

// GetSkips returns the requirements dropped during generation.
func (s *ScheduleGeneratorService) GetSkips(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSkip, error) {
	if _, err := s.mustFindSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	skips, err := s.skips.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester schedule skips")
	}
	return skips, nil
}

// Occupants returns every session occupying a day/slot in a schedule.
func (s *ScheduleGeneratorService) Occupants(ctx context.Context, scheduleID string, day scheduler.Day, slot scheduler.Slot) ([]models.SemesterScheduleSlot, error) {
	if _, err := s.mustFindSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("schedule:%s:occupants:%d:%d", scheduleID, day, slot)
	var cached []models.SemesterScheduleSlot
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}
	occupants, err := s.slots.ListByDaySlot(ctx, scheduleID, int(day), int(slot))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list occupants")
	}
	_ = s.cache.Set(ctx, cacheKey, occupants, 0)
	return occupants, nil
}

// FreeRooms returns every classroom not occupied at a day/slot in a schedule.
func (s *ScheduleGeneratorService) FreeRooms(ctx context.Context, scheduleID string, day scheduler.Day, slot scheduler.Slot) ([]models.Classroom, error) {
	if _, err := s.mustFindSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("schedule:%s:free-rooms:%d:%d", scheduleID, day, slot)
	var cached []models.Classroom
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}
	occupants, err := s.slots.ListByDaySlot(ctx, scheduleID, int(day), int(slot))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list occupants")
	}
	occupiedRooms := make(map[string]struct{}, len(occupants))
	for _, o := range occupants {
		occupiedRooms[o.RoomID] = struct{}{}
	}
	rooms, err := s.classrooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	free := make([]models.Classroom, 0, len(rooms))
	for _, r := range rooms {
		if _, occupied := occupiedRooms[r.RoomID]; !occupied {
			free = append(free, r)
		}
	}
	_ = s.cache.Set(ctx, cacheKey, free, 0)
	return free, nil
}

// AssignmentsOf returns every session a teacher has across a schedule.
func (s *ScheduleGeneratorService) AssignmentsOf(ctx context.Context, scheduleID, teacherID string) ([]models.SemesterScheduleSlot, error) {
	if _, err := s.mustFindSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByTeacher(ctx, scheduleID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher assignments")
	}
	return slots, nil
}

// Delete removes a draft schedule version.
func (s *ScheduleGeneratorService) Delete(ctx context.Context, scheduleID string) error {
	record, err := s.mustFindSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if record.Status != models.SemesterScheduleStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft schedules can be deleted")
	}
	if err := s.schedules.Delete(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "semester schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete semester schedule")
	}
	return nil
}

func (s *ScheduleGeneratorService) mustFindSchedule(ctx context.Context, scheduleID string) (*models.SemesterSchedule, error) {
	if scheduleID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	record, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester schedule")
	}
	return record, nil
}

func (s *ScheduleGeneratorService) loadSubjectSpecs(ctx context.Context, names []string) (map[string]scheduler.SubjectSpec, error) {
	subjectsByName, err := s.subjects.FindByNames(ctx, names)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	specs := make(map[string]scheduler.SubjectSpec, len(subjectsByName))
	for name, subj := range subjectsByName {
		specs[name] = scheduler.SubjectSpec{
			Name:          subj.Name,
			Department:    subj.Department,
			LectureHours:  subj.LectureHours,
			LabHours:      subj.LabHours,
			TutorialHours: subj.TutorialHours,
		}
	}
	return specs, nil
}

// --- model <-> scheduler translation ---

func toSchedulerCourses(details []models.CourseDetail) ([]scheduler.Course, []string, map[string]string) {
	courses := make([]scheduler.Course, 0, len(details))
	idByName := make(map[string]string, len(details))
	seen := make(map[string]struct{})
	var names []string
	for _, d := range details {
		subjectNames := make([]string, 0, len(d.Subjects))
		for _, ref := range d.Subjects {
			subjectNames = append(subjectNames, ref.SubjectName)
			if _, ok := seen[ref.SubjectName]; !ok {
				seen[ref.SubjectName] = struct{}{}
				names = append(names, ref.SubjectName)
			}
		}
		courses = append(courses, scheduler.Course{
			Name:       d.Name,
			Semester:   d.Semester,
			NumBatches: d.NumBatches,
			Capacity:   d.Capacity,
			Subjects:   subjectNames,
		})
		idByName[d.Name] = d.ID
	}
	return courses, names, idByName
}

func toSchedulerTeachers(details []models.TeacherDetail) []scheduler.Teacher {
	teachers := make([]scheduler.Teacher, 0, len(details))
	for _, d := range details {
		subjects := make(map[string]struct{}, len(d.Subjects))
		for _, name := range d.Subjects {
			subjects[name] = struct{}{}
		}
		teachers = append(teachers, scheduler.Teacher{Name: d.Name, Subjects: subjects})
	}
	return teachers
}

func toSchedulerAvailability(teacherDetails []models.TeacherDetail, slots []models.TeacherAvailabilitySlot) map[string]scheduler.TeacherAvailability {
	// No stored availability at all means no table: the solver then
	// leaves every teacher unrestricted.
	if len(slots) == 0 {
		return nil
	}
	facultyByID := make(map[string]models.FacultyType, len(teacherDetails))
	nameByID := make(map[string]string, len(teacherDetails))
	for _, d := range teacherDetails {
		facultyByID[d.ID] = d.FacultyType
		nameByID[d.ID] = d.Name
	}

	table := make(map[string]scheduler.TeacherAvailability)
	for _, slot := range slots {
		name, ok := nameByID[slot.TeacherID]
		if !ok {
			continue
		}
		entry, ok := table[name]
		if !ok {
			entry = scheduler.TeacherAvailability{Name: name}
			if facultyByID[slot.TeacherID] == models.FacultyTypePermanent {
				entry.FacultyType = scheduler.FacultyPermanent
			} else {
				entry.FacultyType = scheduler.FacultyVisiting
			}
			for i := range entry.Slots {
				entry.Slots[i] = make(map[scheduler.Slot]struct{})
			}
		}
		day := slot.DayOfWeek
		if day >= 0 && day < scheduler.NumDays {
			entry.Slots[day][scheduler.Slot(slot.TimeSlot)] = struct{}{}
		}
		table[name] = entry
	}
	return table
}

func toSchedulerClassrooms(rooms []models.Classroom) []scheduler.Classroom {
	out := make([]scheduler.Classroom, 0, len(rooms))
	for _, r := range rooms {
		var kind scheduler.RoomType
		switch r.ClassType {
		case models.RoomTypeCL:
			kind = scheduler.RoomCL
		case models.RoomTypeTR:
			kind = scheduler.RoomTR
		case models.RoomTypeLH:
			kind = scheduler.RoomLH
		default:
			kind = scheduler.RoomCR
		}
		out = append(out, scheduler.Classroom{
			RoomID:     r.RoomID,
			ClassType:  kind,
			Department: r.Department,
			Capacity:   r.Capacity,
		})
	}
	return out
}

func toAssignmentViews(assignments []scheduler.Assignment) []dto.AssignmentView {
	views := make([]dto.AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, dto.AssignmentView{
			Course:       a.Course,
			SubjectLabel: a.DisplaySubjectLabel(),
			BatchTag:     a.BatchTag,
			Teacher:      a.Teacher,
			Day:          a.Day.String(),
			StartTime:    a.StartSlot.StartTime(),
			Duration:     a.Duration,
			RoomID:       a.RoomID,
			Kind:         a.Kind.String(),
		})
	}
	return views
}

func toSkipViews(skips []scheduler.SoftSkip) []dto.SkipView {
	views := make([]dto.SkipView, 0, len(skips))
	for _, sk := range skips {
		views = append(views, dto.SkipView{
			Course:       sk.Course,
			SubjectLabel: sk.SubjectLabel,
			BatchTag:     sk.BatchTag,
			Reason:       sk.Reason,
		})
	}
	return views
}

// --- Proposal cache ---

type scheduleProposal struct {
	ProposalID     string
	TermID         string
	CourseIDs      []string
	CourseIDByName map[string]string
	Assignments    []scheduler.Assignment
	Skipped        []scheduler.SoftSkip
	RequestedAt    time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]scheduleProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]scheduleProposal),
	}
}

func (s *proposalStore) Save(proposal scheduleProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (scheduleProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return scheduleProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return scheduleProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// --- Async job status cache ---

type jobStatusStore struct {
	mu    sync.RWMutex
	items map[string]dto.GenerateJobStatus
}

func newJobStatusStore() *jobStatusStore {
	return &jobStatusStore{items: make(map[string]dto.GenerateJobStatus)}
}

func (s *jobStatusStore) Set(id string, status dto.GenerateJobStatus) {
	s.mu.Lock()
	s.items[id] = status
	s.mu.Unlock()
}

func (s *jobStatusStore) Get(id string) (dto.GenerateJobStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.items[id]
	return status, ok
}

