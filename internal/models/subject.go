package models

import "time"

// Subject describes the weekly lecture/lab/tutorial load a subject
// demands, independent of which courses reference it.
type Subject struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Department    string    `db:"department" json:"department"`
	LectureHours  int       `db:"lecture_hours" json:"lecture_hours"`
	LabHours      int       `db:"lab_hours" json:"lab_hours"`
	TutorialHours int       `db:"tutorial_hours" json:"tutorial_hours"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Department string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
