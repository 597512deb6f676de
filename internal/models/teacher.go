package models

import "time"

// FacultyType distinguishes a teacher's employment category, which
// feeds the availability-preference scoring the generator applies.
type FacultyType string

const (
	FacultyTypePermanent FacultyType = "PERMANENT"
	FacultyTypeVisiting  FacultyType = "VISITING"
)

// Teacher represents an instructor qualified to teach one or more
// subjects.
type Teacher struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	FacultyType FacultyType `db:"faculty_type" json:"faculty_type"`
	Active      bool        `db:"active" json:"active"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// TeacherSubject records that a teacher is qualified to teach a subject.
type TeacherSubject struct {
	ID        string `db:"id" json:"id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}

// TeacherDetail is a Teacher plus the names of the subjects it qualifies for.
type TeacherDetail struct {
	Teacher
	Subjects []string `json:"subjects"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	FacultyType FacultyType
	Search      string
	Active      *bool
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
