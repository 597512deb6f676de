package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandLectureOnly(t *testing.T) {
	courses := []Course{{Name: "CS101", NumBatches: 2, Capacity: 60, Subjects: []string{"Algorithms"}}}
	specs := map[string]SubjectSpec{
		"Algorithms": {Name: "Algorithms", Department: "CS", LectureHours: 3},
	}

	reqs := Expand(courses, specs)

	assert.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.Equal(t, KindLecture, r.Kind)
		assert.Equal(t, 1, r.Duration)
		assert.Equal(t, "Algorithms", r.SubjectLabel)
		assert.Equal(t, 60, r.CapacityNeeded)
		assert.Empty(t, r.BatchTag)
	}
}

func TestExpandLabHoursTruncateToEvenSessions(t *testing.T) {
	// 5 lab hours, 2 batches: floor(5/2) = 2 two-hour sessions per batch.
	courses := []Course{{Name: "CS101", NumBatches: 2, Capacity: 60, Subjects: []string{"Algorithms"}}}
	specs := map[string]SubjectSpec{
		"Algorithms": {Name: "Algorithms", Department: "CS", LabHours: 5},
	}

	reqs := Expand(courses, specs)

	assert.Len(t, reqs, 4) // 2 sessions * 2 batches
	for _, r := range reqs {
		assert.Equal(t, KindLab, r.Kind)
		assert.Equal(t, 2, r.Duration)
		assert.Equal(t, "Algorithms (Lab)", r.SubjectLabel)
		assert.Equal(t, "Algorithms", r.BaseSubject)
		assert.Equal(t, 30, r.CapacityNeeded)
	}
	assert.Equal(t, "Batch 1", reqs[0].BatchTag)
	assert.Equal(t, "Batch 1", reqs[1].BatchTag)
	assert.Equal(t, "Batch 2", reqs[2].BatchTag)
	assert.Equal(t, "Batch 2", reqs[3].BatchTag)
}

func TestExpandLabHoursBelowTwoOmitted(t *testing.T) {
	courses := []Course{{Name: "CS101", NumBatches: 2, Capacity: 60, Subjects: []string{"Algorithms"}}}
	specs := map[string]SubjectSpec{
		"Algorithms": {Name: "Algorithms", Department: "CS", LabHours: 1},
	}

	reqs := Expand(courses, specs)

	assert.Empty(t, reqs)
}

func TestExpandLabOmittedWithZeroBatches(t *testing.T) {
	courses := []Course{{Name: "CS101", NumBatches: 0, Capacity: 60, Subjects: []string{"Algorithms"}}}
	specs := map[string]SubjectSpec{
		"Algorithms": {Name: "Algorithms", Department: "CS", LabHours: 4},
	}

	reqs := Expand(courses, specs)

	assert.Empty(t, reqs)
}

func TestExpandTutorialPerBatch(t *testing.T) {
	courses := []Course{{Name: "CS101", NumBatches: 3, Capacity: 60, Subjects: []string{"Algorithms"}}}
	specs := map[string]SubjectSpec{
		"Algorithms": {Name: "Algorithms", Department: "CS", TutorialHours: 1},
	}

	reqs := Expand(courses, specs)

	assert.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.Equal(t, KindTutorial, r.Kind)
		assert.Equal(t, "Algorithms (Tutorial)", r.SubjectLabel)
		assert.Equal(t, 20, r.CapacityNeeded)
	}
}

func TestExpandEmissionOrderLecturesLabsTutorials(t *testing.T) {
	courses := []Course{{Name: "CS101", NumBatches: 1, Capacity: 40, Subjects: []string{"Algorithms"}}}
	specs := map[string]SubjectSpec{
		"Algorithms": {Name: "Algorithms", Department: "CS", LectureHours: 2, LabHours: 2, TutorialHours: 1},
	}

	reqs := Expand(courses, specs)

	assert.Len(t, reqs, 4)
	assert.Equal(t, KindLecture, reqs[0].Kind)
	assert.Equal(t, KindLecture, reqs[1].Kind)
	assert.Equal(t, KindLab, reqs[2].Kind)
	assert.Equal(t, KindTutorial, reqs[3].Kind)
}

func TestExpandSkipsUnknownSubject(t *testing.T) {
	courses := []Course{{Name: "CS101", NumBatches: 1, Capacity: 40, Subjects: []string{"Ghost"}}}
	specs := map[string]SubjectSpec{}

	reqs := Expand(courses, specs)

	assert.Empty(t, reqs)
}

func TestExpandPreservesCourseInputOrder(t *testing.T) {
	courses := []Course{
		{Name: "CS201", NumBatches: 1, Capacity: 30, Subjects: []string{"Networks"}},
		{Name: "CS101", NumBatches: 1, Capacity: 30, Subjects: []string{"Networks"}},
	}
	specs := map[string]SubjectSpec{
		"Networks": {Name: "Networks", Department: "CS", LectureHours: 1},
	}

	reqs := Expand(courses, specs)

	assert.Len(t, reqs, 2)
	assert.Equal(t, "CS201", reqs[0].Course)
	assert.Equal(t, "CS101", reqs[1].Course)
}
