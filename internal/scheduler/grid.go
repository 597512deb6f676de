package scheduler

// Schedule holds the dense 6x10 occupancy grid plus the LIFO
// assignment stack, kept in lockstep: every occupancy entry
// corresponds to exactly one live assignment and vice versa. Place
// and Unplace are the only mutators and are each other's inverse.
type Schedule struct {
	grid  [NumDays][NumSlots][]Assignment
	stack []Assignment
}

// NewSchedule returns an empty grid and stack.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// Place appends one occupancy entry to each of the Duration cells
// starting at a.StartSlot, and pushes a onto the assignment stack.
func (s *Schedule) Place(a Assignment) {
	for i := 0; i < a.Duration; i++ {
		slot := a.StartSlot + Slot(i)
		s.grid[a.Day][slot] = append(s.grid[a.Day][slot], a)
	}
	s.stack = append(s.stack, a)
}

// Unplace removes the unique matching entry (by course + subject
// label + teacher) from each occupied cell and pops the assignment
// stack. It is the exact inverse of the Place call that pushed a; the
// caller must unplace in strict LIFO order.
func (s *Schedule) Unplace(a Assignment) {
	for i := 0; i < a.Duration; i++ {
		slot := a.StartSlot + Slot(i)
		cell := s.grid[a.Day][slot]
		for idx, occ := range cell {
			if occ.Course == a.Course && occ.SubjectLabel == a.SubjectLabel && occ.Teacher == a.Teacher {
				s.grid[a.Day][slot] = append(cell[:idx], cell[idx+1:]...)
				break
			}
		}
	}
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}

// Stack returns the current assignment list in placement order. The
// returned slice is a copy; mutating it does not affect the schedule.
func (s *Schedule) Stack() []Assignment {
	out := make([]Assignment, len(s.stack))
	copy(out, s.stack)
	return out
}

// OccupantsOf returns the occupancy entries at (day, slot).
func (s *Schedule) OccupantsOf(day Day, slot Slot) []Assignment {
	return append([]Assignment(nil), s.grid[day][slot]...)
}

// FreeRooms returns the rooms in allRooms with no occupant at (day, slot).
func (s *Schedule) FreeRooms(day Day, slot Slot, allRooms []Classroom) []Classroom {
	taken := map[string]struct{}{}
	for _, occ := range s.grid[day][slot] {
		taken[occ.RoomID] = struct{}{}
	}
	var free []Classroom
	for _, room := range allRooms {
		if _, ok := taken[room.RoomID]; !ok {
			free = append(free, room)
		}
	}
	return free
}

// AssignmentsOfCourse filters the stack to one course.
func (s *Schedule) AssignmentsOfCourse(course string) []Assignment {
	return filterAssignments(s.stack, func(a Assignment) bool { return a.Course == course })
}

// AssignmentsOfTeacher filters the stack to one teacher.
func (s *Schedule) AssignmentsOfTeacher(teacher string) []Assignment {
	return filterAssignments(s.stack, func(a Assignment) bool { return a.Teacher == teacher })
}

// AssignmentsOfRoom filters the stack to one room.
func (s *Schedule) AssignmentsOfRoom(roomID string) []Assignment {
	return filterAssignments(s.stack, func(a Assignment) bool { return a.RoomID == roomID })
}

func filterAssignments(stack []Assignment, keep func(Assignment) bool) []Assignment {
	var out []Assignment
	for _, a := range stack {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
