package scheduler

// availability looks up a teacher's allowed slots for a day. restricted
// reports whether an availability table was supplied at all: when the
// table is nil, availability is unrestricted regardless of what is
// returned for set. When the table is non-nil but the teacher has no
// entry, the teacher is treated as having empty availability every
// day — a teacher present with no slots and a teacher absent from the
// table entirely are both rejections once a table exists at all.
func availability(tbl map[string]TeacherAvailability, teacher string, day Day) (restricted bool, set map[Slot]struct{}) {
	if tbl == nil {
		return false, nil
	}
	ta, ok := tbl[teacher]
	if !ok {
		return true, nil
	}
	return true, ta.Slots[day]
}

func facultyType(tbl map[string]TeacherAvailability, teacher string) FacultyType {
	if tbl == nil {
		return FacultyUnspecified
	}
	ta, ok := tbl[teacher]
	if !ok {
		return FacultyUnspecified
	}
	return ta.FacultyType
}

// isValid runs the full hard-constraint check for placing r with the
// given teacher, day, start slot and room. It is self-contained:
// callers may pre-filter room candidates for efficiency (see
// roomCandidates) but isValid never trusts that filtering.
func isValid(sched *Schedule, r Requirement, teacher string, day Day, start Slot, room Classroom, avail map[string]TeacherAvailability) bool {
	if int(start)+r.Duration > NumSlots {
		return false
	}

	for i := 0; i < r.Duration; i++ {
		slot := start + Slot(i)
		for _, occ := range sched.grid[day][slot] {
			if occ.Teacher == teacher { // no teacher double-books a slot
				return false
			}
			if occ.RoomID == room.RoomID { // no two occupants share a room
				return false
			}
			if occ.Course == r.Course {
				// Two sessions of the same course may run concurrently only
				// when both are batch-tagged, the batches differ, and the
				// subjects differ — parallel labs/tutorials for different
				// subjects, never two sessions of the same course-subject.
				concurrentBatches := occ.BatchTag != "" && r.BatchTag != "" &&
					occ.BatchTag != r.BatchTag && occ.BaseSubject != r.BaseSubject
				if !concurrentBatches {
					return false
				}
			}
		}
	}

	if !roomMatches(r, room) {
		return false
	}

	if teacherWeeklyLoad(sched.stack, teacher)+r.Duration > 20 {
		return false
	}

	restricted, set := availability(avail, teacher, day)
	if restricted {
		for i := 0; i < r.Duration; i++ {
			if _, ok := set[start+Slot(i)]; !ok {
				return false
			}
		}
	}

	if !withinBreakBudget(sched.stack, r, day, start) {
		return false
	}

	if countCourseDaySessions(sched.stack, r.Course, day, r.BatchTag)+1 > 8 {
		return false
	}

	return true
}

func roomMatches(r Requirement, room Classroom) bool {
	if room.Capacity < r.CapacityNeeded {
		return false
	}
	switch r.Kind {
	case KindLab:
		return room.ClassType == RoomCL && room.Department == r.Department
	case KindTutorial:
		return room.ClassType == RoomTR || room.ClassType == RoomCR
	default: // lecture
		return room.ClassType == RoomCR || room.ClassType == RoomLH
	}
}

// roomCandidates pre-filters and orders rooms for enumeration. For
// tutorials rooms are grouped tutorial-room-same-department,
// tutorial-room-other-department, classroom-same-department,
// classroom-other-department, so scoring never has to re-express the
// preference. isValid still re-checks every rule independently.
func roomCandidates(rooms []Classroom, r Requirement) []Classroom {
	switch r.Kind {
	case KindLab:
		var out []Classroom
		for _, room := range rooms {
			if room.ClassType == RoomCL && room.Department == r.Department && room.Capacity >= r.CapacityNeeded {
				out = append(out, room)
			}
		}
		return out
	case KindTutorial:
		var trSame, trOther, crSame, crOther []Classroom
		for _, room := range rooms {
			if room.Capacity < r.CapacityNeeded {
				continue
			}
			switch {
			case room.ClassType == RoomTR && room.Department == r.Department:
				trSame = append(trSame, room)
			case room.ClassType == RoomTR:
				trOther = append(trOther, room)
			case room.ClassType == RoomCR && room.Department == r.Department:
				crSame = append(crSame, room)
			case room.ClassType == RoomCR:
				crOther = append(crOther, room)
			}
		}
		out := append([]Classroom{}, trSame...)
		out = append(out, trOther...)
		out = append(out, crSame...)
		out = append(out, crOther...)
		return out
	default: // lecture
		var out []Classroom
		for _, room := range rooms {
			if (room.ClassType == RoomCR || room.ClassType == RoomLH) && room.Capacity >= r.CapacityNeeded {
				out = append(out, room)
			}
		}
		return out
	}
}

func teacherWeeklyLoad(stack []Assignment, teacher string) int {
	sum := 0
	for _, a := range stack {
		if a.Teacher == teacher {
			sum += a.Duration
		}
	}
	return sum
}

func teacherDayHours(stack []Assignment, teacher string, day Day) int {
	sum := 0
	for _, a := range stack {
		if a.Teacher == teacher && a.Day == day {
			sum += a.Duration
		}
	}
	return sum
}

// courseDaySlotSet collects the slots course occupies on day, counting
// only sessions that share batchTag or that are non-batched (lectures).
// Both the break-budget check and its scoring counterpart use this.
func courseDaySlotSet(stack []Assignment, course string, day Day, batchTag string) map[Slot]struct{} {
	set := map[Slot]struct{}{}
	for _, a := range stack {
		if a.Course != course || a.Day != day {
			continue
		}
		if a.BatchTag != "" && a.BatchTag != batchTag {
			continue
		}
		for i := 0; i < a.Duration; i++ {
			set[a.StartSlot+Slot(i)] = struct{}{}
		}
	}
	return set
}

// countCourseDaySessions counts course's sessions on day, filtered to
// batchTag only when batchTag is non-empty.
func countCourseDaySessions(stack []Assignment, course string, day Day, batchTag string) int {
	n := 0
	for _, a := range stack {
		if a.Course != course || a.Day != day {
			continue
		}
		if batchTag != "" && a.BatchTag != batchTag {
			continue
		}
		n++
	}
	return n
}

func withinBreakBudget(stack []Assignment, r Requirement, day Day, start Slot) bool {
	set := courseDaySlotSet(stack, r.Course, day, r.BatchTag)
	for i := 0; i < r.Duration; i++ {
		set[start+Slot(i)] = struct{}{}
	}
	total := len(set)
	minS, maxS := slotRange(set)
	span := int(maxS-minS) + 1
	gaps := span - total
	switch {
	case total <= 3:
		return gaps == 0
	case total <= 5:
		return gaps <= 1
	default:
		return gaps <= 2
	}
}

func slotRange(set map[Slot]struct{}) (min, max Slot) {
	first := true
	for s := range set {
		if first {
			min, max = s, s
			first = false
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}
