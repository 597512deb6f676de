package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/collegetimetable/scheduler-api/internal/models"
	"github.com/collegetimetable/scheduler-api/internal/scheduler"
	appErrors "github.com/collegetimetable/scheduler-api/pkg/errors"
	"github.com/collegetimetable/scheduler-api/pkg/export"
)

type scheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.SemesterSchedule, error)
}

type scheduleSlotReader interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SemesterScheduleSlot, error)
}

// ScheduleExportService renders a saved schedule's slots into CSV or PDF.
type ScheduleExportService struct {
	schedules scheduleReader
	slots     scheduleSlotReader
	courses   courseRepository
	teachers  teacherRepository
	classrooms classroomRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewScheduleExportService builds a ScheduleExportService.
func NewScheduleExportService(
	schedules scheduleReader,
	slots scheduleSlotReader,
	courses courseRepository,
	teachers teacherRepository,
	classrooms classroomRepository,
	logger *zap.Logger,
) *ScheduleExportService {
	return &ScheduleExportService{
		schedules: schedules,
		slots:     slots,
		courses:   courses,
		teachers:  teachers,
		classrooms: classrooms,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

var scheduleExportHeaders = []string{"day", "time", "course", "subject", "kind", "batch", "teacher", "room"}

func (s *ScheduleExportService) buildDataset(ctx context.Context, scheduleID string) (export.Dataset, *models.SemesterSchedule, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return export.Dataset{}, nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}

	slots, err := s.slots.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return export.Dataset{}, nil, fmt.Errorf("list schedule slots: %w", err)
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].TimeSlot < slots[j].TimeSlot
	})

	courseNames := make(map[string]string)
	teacherNames := make(map[string]string)
	roomNames := make(map[string]string)

	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		courseName, ok := courseNames[slot.CourseID]
		if !ok {
			if course, err := s.courses.FindByID(ctx, slot.CourseID); err == nil {
				courseName = course.Name
			} else {
				courseName = slot.CourseID
			}
			courseNames[slot.CourseID] = courseName
		}

		teacherName, ok := teacherNames[slot.TeacherID]
		if !ok {
			if teacher, err := s.teachers.FindByID(ctx, slot.TeacherID); err == nil {
				teacherName = teacher.Name
			} else {
				teacherName = slot.TeacherID
			}
			teacherNames[slot.TeacherID] = teacherName
		}

		roomName, ok := roomNames[slot.RoomID]
		if !ok {
			if room, err := s.classrooms.FindByID(ctx, slot.RoomID); err == nil {
				roomName = room.RoomID
			} else {
				roomName = slot.RoomID
			}
			roomNames[slot.RoomID] = roomName
		}

		rows = append(rows, map[string]string{
			"day":     scheduler.Day(slot.DayOfWeek).String(),
			"time":    scheduler.Slot(slot.TimeSlot).StartTime(),
			"course":  courseName,
			"subject": slot.SubjectLabel,
			"kind":    slot.Kind,
			"batch":   slot.BatchTag,
			"teacher": teacherName,
			"room":    roomName,
		})
	}

	return export.Dataset{Headers: scheduleExportHeaders, Rows: rows}, schedule, nil
}

// RenderCSV produces CSV bytes for a saved schedule.
func (s *ScheduleExportService) RenderCSV(ctx context.Context, scheduleID string) ([]byte, error) {
	dataset, _, err := s.buildDataset(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return data, nil
}

// RenderPDF produces a PDF document for a saved schedule.
func (s *ScheduleExportService) RenderPDF(ctx context.Context, scheduleID string) ([]byte, error) {
	dataset, schedule, err := s.buildDataset(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("schedule %s v%d", schedule.TermID, schedule.Version)
	data, err := s.pdf.Render(dataset, title)
	if err != nil {
		s.logger.Error("render schedule pdf failed", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return data, nil
}
