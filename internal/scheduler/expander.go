package scheduler

import "fmt"

// Expand turns courses and subject specs into the ordered requirement
// list the solver consumes. Emission order within a subject is
// lectures, labs (by batch then session), tutorials; courses are
// emitted in their input order. A subject absent from specs is
// silently skipped — it has no lecture/lab/tutorial load to derive.
//
// Lab sessions: lab_hours/2 two-hour sessions per batch, rounded
// down. A subject with lab_hours = 3 therefore gets one lab session
// per batch, not one-and-a-half — the leftover hour is dropped, not
// carried into a third slot or a shorter session.
func Expand(courses []Course, specs map[string]SubjectSpec) []Requirement {
	var out []Requirement
	for _, c := range courses {
		for _, subjectName := range c.Subjects {
			spec, ok := specs[subjectName]
			if !ok {
				continue
			}
			out = append(out, lectureRequirements(c, spec)...)
			out = append(out, labRequirements(c, spec)...)
			out = append(out, tutorialRequirements(c, spec)...)
		}
	}
	return out
}

func lectureRequirements(c Course, spec SubjectSpec) []Requirement {
	reqs := make([]Requirement, 0, spec.LectureHours)
	for h := 0; h < spec.LectureHours; h++ {
		reqs = append(reqs, Requirement{
			Course:         c.Name,
			SubjectLabel:   spec.Name,
			BaseSubject:    spec.Name,
			Kind:           KindLecture,
			Duration:       1,
			Department:     spec.Department,
			CapacityNeeded: c.Capacity,
		})
	}
	return reqs
}

func labRequirements(c Course, spec SubjectSpec) []Requirement {
	if spec.LabHours < 2 || c.NumBatches <= 0 {
		return nil
	}
	sessions := spec.LabHours / 2
	perBatch := c.Capacity / c.NumBatches
	var reqs []Requirement
	for batch := 1; batch <= c.NumBatches; batch++ {
		tag := fmt.Sprintf("Batch %d", batch)
		for s := 0; s < sessions; s++ {
			reqs = append(reqs, Requirement{
				Course:         c.Name,
				SubjectLabel:   spec.Name + " (Lab)",
				BaseSubject:    spec.Name,
				Kind:           KindLab,
				Duration:       2,
				Department:     spec.Department,
				CapacityNeeded: perBatch,
				BatchTag:       tag,
			})
		}
	}
	return reqs
}

func tutorialRequirements(c Course, spec SubjectSpec) []Requirement {
	if spec.TutorialHours <= 0 || c.NumBatches <= 0 {
		return nil
	}
	perBatch := c.Capacity / c.NumBatches
	var reqs []Requirement
	for batch := 1; batch <= c.NumBatches; batch++ {
		tag := fmt.Sprintf("Batch %d", batch)
		for h := 0; h < spec.TutorialHours; h++ {
			reqs = append(reqs, Requirement{
				Course:         c.Name,
				SubjectLabel:   spec.Name + " (Tutorial)",
				BaseSubject:    spec.Name,
				Kind:           KindTutorial,
				Duration:       1,
				Department:     spec.Department,
				CapacityNeeded: perBatch,
				BatchTag:       tag,
			})
		}
	}
	return reqs
}
