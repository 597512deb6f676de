package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SemesterScheduleStatus represents lifecycle phases for generated schedules.
type SemesterScheduleStatus string

const (
	SemesterScheduleStatusDraft     SemesterScheduleStatus = "DRAFT"
	SemesterScheduleStatusPublished SemesterScheduleStatus = "PUBLISHED"
	SemesterScheduleStatusArchived  SemesterScheduleStatus = "ARCHIVED"
)

// SemesterSchedule is one generated-and-saved timetable for a term. A
// single schedule spans every course that was included at generation
// time; which courses those are is recorded in SemesterScheduleCourse.
type SemesterSchedule struct {
	ID        string                 `db:"id" json:"id"`
	TermID    string                 `db:"term_id" json:"term_id"`
	Version   int                    `db:"version" json:"version"`
	Status    SemesterScheduleStatus `db:"status" json:"status"`
	Meta      types.JSONText         `db:"meta" json:"meta"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt time.Time              `db:"updated_at" json:"updated_at"`
}

// SemesterScheduleCourse links a saved schedule to one of the courses
// it was generated for.
type SemesterScheduleCourse struct {
	ID                 string `db:"id" json:"id"`
	SemesterScheduleID string `db:"semester_schedule_id" json:"semester_schedule_id"`
	CourseID           string `db:"course_id" json:"course_id"`
}

// SemesterScheduleSlot is one placed session inside a saved schedule,
// the persisted form of a scheduler.Assignment.
type SemesterScheduleSlot struct {
	ID                 string    `db:"id" json:"id"`
	SemesterScheduleID string    `db:"semester_schedule_id" json:"semester_schedule_id"`
	CourseID           string    `db:"course_id" json:"course_id"`
	SubjectLabel       string    `db:"subject_label" json:"subject_label"`
	BaseSubject        string    `db:"base_subject" json:"base_subject"`
	Kind               string    `db:"kind" json:"kind"` // "lecture" | "lab" | "tutorial"
	BatchTag           string    `db:"batch_tag" json:"batch_tag,omitempty"`
	DayOfWeek          int       `db:"day_of_week" json:"day_of_week"`
	TimeSlot           int       `db:"time_slot" json:"time_slot"`
	Duration           int       `db:"duration" json:"duration"`
	TeacherID          string    `db:"teacher_id" json:"teacher_id"`
	RoomID             string    `db:"room_id" json:"room_id"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SemesterScheduleSkip is one requirement the generator could not place
// and dropped instead of failing the whole run.
type SemesterScheduleSkip struct {
	ID                 string `db:"id" json:"id"`
	SemesterScheduleID string `db:"semester_schedule_id" json:"semester_schedule_id"`
	CourseID           string `db:"course_id" json:"course_id"`
	SubjectLabel       string `db:"subject_label" json:"subject_label"`
	BatchTag           string `db:"batch_tag" json:"batch_tag,omitempty"`
	Reason             string `db:"reason" json:"reason"`
}

// SemesterScheduleSummary aggregates versions available for a term.
type SemesterScheduleSummary struct {
	TermID    string                 `json:"term_id"`
	ActiveID  *string                `json:"active_id,omitempty"`
	Versions  []SemesterScheduleMeta `json:"versions"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SemesterScheduleMeta represents lightweight metadata for list views.
type SemesterScheduleMeta struct {
	ID        string                 `json:"id"`
	Version   int                    `json:"version"`
	Status    SemesterScheduleStatus `json:"status"`
	SkipCount int                    `json:"skip_count"`
	CreatedAt time.Time              `json:"created_at"`
}
