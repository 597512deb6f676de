package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseAssignment() Assignment {
	return Assignment{
		Course:       "CS101",
		SubjectLabel: "Algorithms",
		BaseSubject:  "Algorithms",
		Teacher:      "Asha",
		Day:          Mon,
		StartSlot:    2,
		RoomID:       "R1",
		Kind:         KindLecture,
		Duration:     1,
	}
}

func TestSchedulePlaceAddsOccupantsAndStack(t *testing.T) {
	s := NewSchedule()
	a := baseAssignment()

	s.Place(a)

	occ := s.OccupantsOf(Mon, 2)
	require.Len(t, occ, 1)
	assert.Equal(t, a, occ[0])
	assert.Equal(t, []Assignment{a}, s.Stack())
}

func TestSchedulePlaceSpansDuration(t *testing.T) {
	s := NewSchedule()
	a := baseAssignment()
	a.Duration = 2

	s.Place(a)

	assert.Len(t, s.OccupantsOf(Mon, 2), 1)
	assert.Len(t, s.OccupantsOf(Mon, 3), 1)
	assert.Empty(t, s.OccupantsOf(Mon, 4))
}

func TestScheduleUnplaceIsExactInverse(t *testing.T) {
	s := NewSchedule()
	a := baseAssignment()

	s.Place(a)
	s.Unplace(a)

	assert.Empty(t, s.OccupantsOf(Mon, 2))
	assert.Empty(t, s.Stack())
}

func TestScheduleUnplaceOnlyRemovesMatchingEntry(t *testing.T) {
	s := NewSchedule()
	a := baseAssignment()
	b := baseAssignment()
	b.Teacher = "Bina"
	b.Kind = KindLab
	b.Duration = 1
	b.BatchTag = "Batch 1"
	b.SubjectLabel = "Algorithms (Lab)"
	b.BaseSubject = "Algorithms"
	b.Course = "CS201"

	s.Place(a)
	s.Place(b)
	s.Unplace(a)

	occ := s.OccupantsOf(Mon, 2)
	require.Len(t, occ, 1)
	assert.Equal(t, b, occ[0])
}

func TestScheduleFreeRooms(t *testing.T) {
	s := NewSchedule()
	a := baseAssignment()
	s.Place(a)

	rooms := []Classroom{{RoomID: "R1"}, {RoomID: "R2"}}
	free := s.FreeRooms(Mon, 2, rooms)

	require.Len(t, free, 1)
	assert.Equal(t, "R2", free[0].RoomID)
}

func TestScheduleAssignmentsOfFilters(t *testing.T) {
	s := NewSchedule()
	a := baseAssignment()
	b := baseAssignment()
	b.Teacher = "Bina"
	b.RoomID = "R2"
	b.Day = Tue

	s.Place(a)
	s.Place(b)

	assert.Len(t, s.AssignmentsOfCourse("CS101"), 2)
	assert.Len(t, s.AssignmentsOfTeacher("Asha"), 1)
	assert.Len(t, s.AssignmentsOfRoom("R2"), 1)
}
