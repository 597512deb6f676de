package scheduler

import (
	"errors"
	"sort"
)

// MaxDepth bounds the recursion: past this many recursive entries the
// search aborts with failure regardless of remaining work.
const MaxDepth = 10000

// ErrUnsatisfiable is returned when the search exhausts every
// candidate (or exceeds MaxDepth) without placing every requirement.
// No partial schedule is ever returned alongside it.
var ErrUnsatisfiable = errors.New("scheduler: could not satisfy all constraints")

// SoftSkip records a requirement the solver omitted rather than
// failed on — logged for the caller's UI, never treated as an error.
type SoftSkip struct {
	Course       string
	SubjectLabel string
	BatchTag     string
	Reason       string
}

// Input bundles everything Solve needs. Teachers is an ordered slice —
// its order is the enumeration tie-break order candidates fall back
// to when scores are equal. Availability may be nil to mean no
// availability table was supplied at all, in which case every teacher
// is treated as unrestricted.
type Input struct {
	Requirements []Requirement
	Teachers     []Teacher
	Availability map[string]TeacherAvailability
	Classrooms   []Classroom

	// OnProgress, when set, is invoked roughly every third requirement
	// with (requirements placed or skipped so far, total). It must
	// never mutate solver state.
	OnProgress func(done, total int)
}

// Solve runs the backtracking search: enumerate candidates for the
// next requirement, place the best-scoring one, and recurse; backtrack
// and try the next candidate on failure. On success it returns the
// full ordered assignment list and any soft skips encountered along
// the way. On failure it returns ErrUnsatisfiable and nil slices — a
// partial schedule is never surfaced.
func Solve(in Input) ([]Assignment, []SoftSkip, error) {
	qualified := qualifiedTeachersBySubject(in.Teachers)
	if !capacityFeasible(in.Requirements, qualified) {
		return nil, nil, ErrUnsatisfiable
	}

	sched := NewSchedule()
	var skips []SoftSkip
	if !solve(sched, in, qualified, 0, 0, &skips) {
		return nil, nil, ErrUnsatisfiable
	}
	return sched.Stack(), skips, nil
}

func qualifiedTeachersBySubject(teachers []Teacher) map[string][]int {
	out := map[string][]int{}
	for idx, t := range teachers {
		for subject := range t.Subjects {
			out[subject] = append(out[subject], idx)
		}
	}
	return out
}

// capacityFeasible checks a necessary condition before the search ever
// starts: for every (course, base subject) group with exactly one
// qualified teacher, that teacher has no choice but to absorb the
// group's full duration. If those forced totals alone push a teacher
// past the 20-hour weekly cap (H4), no arrangement can ever succeed,
// and the backtracking search would only rediscover that after
// exhausting a combinatorial number of equivalent dead ends. Groups
// with zero or multiple qualified teachers are skipped here — the
// former soft-skips in the search proper, the latter leaves real
// choice that only the search can resolve.
func capacityFeasible(reqs []Requirement, qualified map[string][]int) bool {
	type group struct{ course, subject string }
	seen := map[group]bool{}
	forced := map[int]int{}

	for _, r := range reqs {
		g := group{r.Course, r.BaseSubject}
		if seen[g] {
			continue
		}
		idx := qualified[r.BaseSubject]
		if len(idx) != 1 {
			continue
		}
		seen[g] = true

		total := 0
		for _, other := range reqs {
			if other.Course == r.Course && other.BaseSubject == r.BaseSubject {
				total += other.Duration
			}
		}
		forced[idx[0]] += total
	}

	for _, total := range forced {
		if total > 20 {
			return false
		}
	}
	return true
}

func solve(sched *Schedule, in Input, qualified map[string][]int, i, depth int, skips *[]SoftSkip) bool {
	if depth > MaxDepth {
		return false
	}
	if i == len(in.Requirements) {
		return true
	}
	if in.OnProgress != nil && i%3 == 0 {
		in.OnProgress(i, len(in.Requirements))
	}

	r := in.Requirements[i]
	teacherIdx := continuityTeachers(sched, in, qualified, r)
	if len(teacherIdx) == 0 {
		*skips = append(*skips, SoftSkip{
			Course:       r.Course,
			SubjectLabel: r.SubjectLabel,
			BatchTag:     r.BatchTag,
			Reason:       "no qualified teacher",
		})
		return solve(sched, in, qualified, i+1, depth+1, skips)
	}

	candidates := enumerate(sched, in, r, teacherIdx)
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	for _, cand := range candidates {
		a := Assignment{
			Course:       r.Course,
			SubjectLabel: r.SubjectLabel,
			BaseSubject:  r.BaseSubject,
			Teacher:      cand.teacher,
			Day:          cand.day,
			StartSlot:    cand.start,
			RoomID:       cand.room.RoomID,
			Kind:         r.Kind,
			Duration:     r.Duration,
			BatchTag:     r.BatchTag,
		}
		sched.Place(a)
		if solve(sched, in, qualified, i+1, depth+1, skips) {
			return true
		}
		sched.Unplace(a)
	}
	return false
}

// continuityTeachers enforces teacher continuity: if the stack already
// has a session for this course/base-subject (any batch), the candidate
// teacher set collapses to that one teacher, regardless of whether
// they still show up in the qualification index.
func continuityTeachers(sched *Schedule, in Input, qualified map[string][]int, r Requirement) []int {
	for _, a := range sched.stack {
		if a.Course == r.Course && a.BaseSubject == r.BaseSubject {
			for idx, t := range in.Teachers {
				if t.Name == a.Teacher {
					return []int{idx}
				}
			}
			return nil
		}
	}
	return qualified[r.BaseSubject]
}

type candidate struct {
	teacher string
	day     Day
	start   Slot
	room    Classroom
	score   float64
}

// enumerate walks (teacher, day, start_slot, room) in a fixed order —
// teacher, then day, then start slot, then room — so that a stable
// sort on score preserves that order as the tie-break, and collects
// every combination that passes isValid along with its score.
func enumerate(sched *Schedule, in Input, r Requirement, teacherIdx []int) []candidate {
	rooms := roomCandidates(in.Classrooms, r)
	var out []candidate
	for _, ti := range teacherIdx {
		teacher := in.Teachers[ti].Name
		for day := Day(0); day < NumDays; day++ {
			for start := Slot(0); int(start)+r.Duration <= NumSlots; start++ {
				for _, room := range rooms {
					if !isValid(sched, r, teacher, day, start, room, in.Availability) {
						continue
					}
					out = append(out, candidate{
						teacher: teacher,
						day:     day,
						start:   start,
						room:    room,
						score:   score(sched, r, teacher, day, start, in.Availability),
					})
				}
			}
		}
	}
	return out
}
