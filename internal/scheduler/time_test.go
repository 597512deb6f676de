package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandRangeWholeHours(t *testing.T) {
	assert.Equal(t, []Slot{0, 1}, ExpandRange("08:00-10:00"))
	assert.Equal(t, []Slot{9}, ExpandRange("17:00-18:00"))
}

func TestExpandRangeRejectsMisalignedStart(t *testing.T) {
	assert.Nil(t, ExpandRange("08:30-10:00"))
}

func TestExpandRangeRejectsOutOfBounds(t *testing.T) {
	assert.Nil(t, ExpandRange("07:00-09:00"))
	assert.Nil(t, ExpandRange("17:00-19:00"))
}

func TestExpandRangeNAandEmpty(t *testing.T) {
	assert.Nil(t, ExpandRange("NA"))
	assert.Nil(t, ExpandRange(""))
}

func TestExpandRangesUnionsSemicolonList(t *testing.T) {
	got := ExpandRanges("09:00-10:00;14:00-16:00")
	assert.Equal(t, []Slot{1, 6, 7}, got)
}

func TestExpandRangesNA(t *testing.T) {
	assert.Nil(t, ExpandRanges("NA"))
}

func TestSlotOf(t *testing.T) {
	slot, ok := SlotOf("09:00-10:00")
	assert.True(t, ok)
	assert.Equal(t, Slot(1), slot)

	_, ok = SlotOf("09:00-11:00")
	assert.False(t, ok)
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay("wed")
	assert.True(t, ok)
	assert.Equal(t, Wed, d)

	_, ok = ParseDay("Funday")
	assert.False(t, ok)
}

func TestSlotStartTime(t *testing.T) {
	assert.Equal(t, "08:00-09:00", Slot(0).StartTime())
	assert.Equal(t, "17:00-18:00", Slot(9).StartTime())
}
