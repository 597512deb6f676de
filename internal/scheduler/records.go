package scheduler

import "strings"

// Course is a semester's worth of subjects taken together by one
// cohort, split into num_batches for lab/tutorial sessions.
type Course struct {
	Name       string
	Semester   int
	NumBatches int
	Capacity   int
	Subjects   []string // ordered, as listed on the course
}

// SubjectSpec describes the weekly hour load a subject demands,
// independent of which courses reference it.
type SubjectSpec struct {
	Name          string
	Department    string
	LectureHours  int
	LabHours      int
	TutorialHours int
}

// Teacher is qualified to teach every subject name present as a key
// in Subjects.
type Teacher struct {
	Name     string
	Subjects map[string]struct{}
}

// FacultyType distinguishes the availability-preference bonus a
// teacher earns when scored.
type FacultyType int

const (
	FacultyUnspecified FacultyType = iota
	FacultyPermanent
	FacultyVisiting
)

// TeacherAvailability holds one teacher's allowed slots per day. A
// nil entry for a day (including a day never set) means the teacher
// has no allowed slots that day.
type TeacherAvailability struct {
	Name        string
	FacultyType FacultyType
	Slots       [NumDays]map[Slot]struct{}
}

// RoomType is the class_type a Classroom carries.
type RoomType int

const (
	RoomCR RoomType = iota // regular classroom
	RoomCL                 // lab
	RoomTR                 // tutorial room
	RoomLH                 // lecture hall
)

func (t RoomType) String() string {
	switch t {
	case RoomCR:
		return "CR"
	case RoomCL:
		return "CL"
	case RoomTR:
		return "TR"
	case RoomLH:
		return "LH"
	default:
		return "?"
	}
}

// ParseRoomType matches a class_type code, case-insensitively.
func ParseRoomType(s string) (RoomType, bool) {
	switch strings.ToUpper(s) {
	case "CR":
		return RoomCR, true
	case "CL":
		return RoomCL, true
	case "TR":
		return RoomTR, true
	case "LH":
		return RoomLH, true
	default:
		return 0, false
	}
}

// Classroom is a bookable room of fixed type, department, and capacity.
type Classroom struct {
	RoomID     string
	ClassType  RoomType
	Department string
	Capacity   int
}

// Kind distinguishes the three session shapes a requirement can take.
type Kind int

const (
	KindLecture Kind = iota
	KindLab
	KindTutorial
)

func (k Kind) String() string {
	switch k {
	case KindLecture:
		return "lecture"
	case KindLab:
		return "lab"
	case KindTutorial:
		return "tutorial"
	default:
		return "?"
	}
}

// Requirement is one atomic session the solver must place. It is
// produced once by Expand and never mutated afterward.
//
// SubjectLabel carries the display suffix ("X (Lab)", "X (Tutorial)")
// while BaseSubject stays the bare subject name — used for teacher
// qualification lookup and for the teacher-continuity key, so
// continuity dispatch never has to parse a display string.
type Requirement struct {
	Course         string
	SubjectLabel   string
	BaseSubject    string
	Kind           Kind
	Duration       int
	Department     string
	CapacityNeeded int
	BatchTag       string // "" when not batch-tagged
}

// Assignment is one scheduled requirement, as placed by the solver.
type Assignment struct {
	Course       string
	SubjectLabel string
	BaseSubject  string
	Teacher      string
	Day          Day
	StartSlot    Slot
	RoomID       string
	Kind         Kind
	Duration     int
	BatchTag     string
}

// DisplaySubjectLabel renders the outbound subject text: the
// type-suffixed label plus, for batch-tagged sessions, " - Batch N".
func (a Assignment) DisplaySubjectLabel() string {
	if a.BatchTag == "" {
		return a.SubjectLabel
	}
	return a.SubjectLabel + " - " + a.BatchTag
}
