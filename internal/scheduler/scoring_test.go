package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseDayFillScoreBranches(t *testing.T) {
	var stack []Assignment
	assert.Equal(t, 20.0, courseDayFillScore(stack, "CS101", Mon)) // no sessions anywhere: h=0, no other day

	stack = []Assignment{{Course: "CS101", Day: Tue, Duration: 1}}
	assert.Equal(t, -30.0, courseDayFillScore(stack, "CS101", Mon)) // h=0 but has a session elsewhere

	stack = []Assignment{{Course: "CS101", Day: Mon, Duration: 1}}
	assert.Equal(t, 40.0, courseDayFillScore(stack, "CS101", Mon)) // h=1

	stack = []Assignment{{Course: "CS101", Day: Mon, Duration: 2}}
	assert.Equal(t, 15.0, courseDayFillScore(stack, "CS101", Mon)) // h>=2
}

func TestPerDayCountScoreBranches(t *testing.T) {
	mk := func(n int) []Assignment {
		var out []Assignment
		for i := 0; i < n; i++ {
			out = append(out, Assignment{Course: "CS101", Day: Mon, Duration: 1})
		}
		return out
	}
	assert.Equal(t, 20.0, perDayCountScore(mk(3), "CS101", Mon))
	assert.Equal(t, 10.0, perDayCountScore(mk(5), "CS101", Mon))
	assert.Equal(t, 0.0, perDayCountScore(mk(6), "CS101", Mon))
}

func TestTeacherWeeklyScoreBranches(t *testing.T) {
	mk := func(hours int) []Assignment {
		return []Assignment{{Teacher: "Asha", Duration: hours}}
	}
	assert.Equal(t, 25.0, teacherWeeklyScore(mk(14), "Asha"))
	assert.Equal(t, 10.0, teacherWeeklyScore(mk(17), "Asha"))
	assert.Equal(t, -20.0, teacherWeeklyScore(mk(18), "Asha"))
}

func TestTeacherDayScoreBranches(t *testing.T) {
	mk := func(hours int) []Assignment {
		if hours == 0 {
			return nil
		}
		return []Assignment{{Teacher: "Asha", Day: Mon, Duration: hours}}
	}
	assert.Equal(t, 5.0, teacherDayScore(mk(0), "Asha", Mon))
	assert.Equal(t, 30.0, teacherDayScore(mk(1), "Asha", Mon))
	assert.Equal(t, 20.0, teacherDayScore(mk(3), "Asha", Mon))
	assert.Equal(t, -15.0, teacherDayScore(mk(5), "Asha", Mon))
}

func TestSpreadScore(t *testing.T) {
	stack := []Assignment{
		{Course: "CS101", Day: Tue, Duration: 1},
		{Course: "CS101", Day: Wed, Duration: 1},
	}
	assert.Equal(t, 25.0, spreadScore(stack, "CS101", Mon)) // new day, span 2 < 4

	stack = append(stack,
		Assignment{Course: "CS101", Day: Thu, Duration: 1},
		Assignment{Course: "CS101", Day: Fri, Duration: 1},
	)
	assert.Equal(t, 0.0, spreadScore(stack, "CS101", Mon)) // span already 4
}

func TestMiddayScore(t *testing.T) {
	assert.Equal(t, 10.0, middayScore(2))
	assert.Equal(t, 10.0, middayScore(6))
	assert.Equal(t, 0.0, middayScore(0))
	assert.Equal(t, 0.0, middayScore(9))
}

func TestAvailabilityScoreUnrestricted(t *testing.T) {
	sc := availabilityScore(nil, "Asha", Mon, 2)
	assert.Equal(t, 40.0, sc) // unrestricted, faculty type unspecified adds nothing
}

func TestAvailabilityScorePreferredSlot(t *testing.T) {
	tbl := map[string]TeacherAvailability{
		"Asha": {Name: "Asha", FacultyType: FacultyPermanent, Slots: [NumDays]map[Slot]struct{}{Mon: {2: {}}}},
	}
	assert.Equal(t, 55.0, availabilityScore(tbl, "Asha", Mon, 2)) // 40 + 15
}

func TestAvailabilityScoreNonEmptyOtherSlot(t *testing.T) {
	tbl := map[string]TeacherAvailability{
		"Asha": {Name: "Asha", FacultyType: FacultyVisiting, Slots: [NumDays]map[Slot]struct{}{Mon: {5: {}}}},
	}
	assert.Equal(t, 15.0, availabilityScore(tbl, "Asha", Mon, 2)) // 10 + 5
}

func TestAvailabilityScoreEmptyDay(t *testing.T) {
	tbl := map[string]TeacherAvailability{
		"Asha": {Name: "Asha"},
	}
	assert.Equal(t, -30.0, availabilityScore(tbl, "Asha", Mon, 2))
}

func TestIsolationScoreBranches(t *testing.T) {
	r := Requirement{Course: "CS101", BatchTag: ""}

	assert.Equal(t, -40.0, isolationScore(nil, r, Mon, 4))

	oneSide := []Assignment{{Course: "CS101", Day: Mon, StartSlot: 3, Duration: 1}}
	assert.Equal(t, -10.0, isolationScore(oneSide, r, Mon, 4))

	bothSides := []Assignment{
		{Course: "CS101", Day: Mon, StartSlot: 3, Duration: 1},
		{Course: "CS101", Day: Mon, StartSlot: 5, Duration: 1},
	}
	assert.Equal(t, 0.0, isolationScore(bothSides, r, Mon, 4))
}

func TestBreakQualityScoreHighTotalPenalty(t *testing.T) {
	r := Requirement{Course: "CS101", Duration: 1}
	var stack []Assignment
	for _, s := range []Slot{0, 1, 2, 3, 4, 5} {
		stack = append(stack, Assignment{Course: "CS101", Day: Mon, StartSlot: s, Duration: 1})
	}
	// adding slot 6 makes total 7, one contiguous lecture block of 7, no breaks.
	sc := breakQualityScore(stack, r, Mon, 6)
	assert.Equal(t, -5*7.0-10*float64(7-3), sc)
}

func TestBreakQualityScoreBalancedBreak(t *testing.T) {
	r := Requirement{Course: "CS101", Duration: 1}
	stack := []Assignment{
		{Course: "CS101", Day: Mon, StartSlot: 0, Duration: 1},
		{Course: "CS101", Day: Mon, StartSlot: 1, Duration: 1},
		{Course: "CS101", Day: Mon, StartSlot: 4, Duration: 1},
		{Course: "CS101", Day: Mon, StartSlot: 5, Duration: 1},
	}
	// adding slot 6 yields blocks [0,1] gap [2,3] [4,5,6]: one break, two
	// lecture blocks of size 2 and 3, ratio 2/3 ≈ 0.67 -> +20, plus +10 for
	// the break existing at all.
	sc := breakQualityScore(stack, r, Mon, 6)
	assert.Equal(t, 30.0, sc)
}
