package models

import "time"

// Course represents a semester's cohort of students taking a fixed
// list of subjects together, split into batches for lab/tutorial work.
type Course struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Semester   int       `db:"semester" json:"semester"`
	NumBatches int       `db:"num_batches" json:"num_batches"`
	Capacity   int       `db:"capacity" json:"capacity"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CourseSubject links a course to one of its subjects, preserving the
// input order the timetable expander depends on.
type CourseSubject struct {
	ID        string `db:"id" json:"id"`
	CourseID  string `db:"course_id" json:"course_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
	Position  int    `db:"position" json:"position"`
}

// CourseSubjectRef is a denormalized subject reference returned on a
// course detail view.
type CourseSubjectRef struct {
	SubjectID   string `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Position    int    `db:"position" json:"position"`
}

// CourseDetail is a Course plus its ordered subject list.
type CourseDetail struct {
	Course
	Subjects []CourseSubjectRef `json:"subjects"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Semester  *int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
