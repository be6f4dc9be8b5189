package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdaysDecodeIgnoresJunk(t *testing.T) {
	rule := RecurringRule{DaysOfWeek: "5, 1,x, 3,9,1,"}
	assert.Equal(t, []int{1, 3, 5}, rule.Weekdays())

	assert.Empty(t, RecurringRule{DaysOfWeek: ""}.Weekdays())
}

func TestEncodeWeekdaysSortsAndDeduplicates(t *testing.T) {
	assert.Equal(t, "1,3,7", EncodeWeekdays([]int{7, 3, 1, 3, 0, 8}))
	assert.Equal(t, "", EncodeWeekdays(nil))
}

func TestAppliesOnUsesISOWeekdays(t *testing.T) {
	// 2025-06-09 is a Monday.
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)

	rule := RecurringRule{
		DaysOfWeek: "1,7",
		ValidFrom:  monday.AddDate(0, 0, -7),
	}
	assert.True(t, rule.AppliesOn(monday))
	assert.True(t, rule.AppliesOn(sunday), "Sunday maps to ISO day 7")
	assert.False(t, rule.AppliesOn(monday.AddDate(0, 0, 1)))
}

func TestAppliesOnValidityBoundsAreInclusive(t *testing.T) {
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	friday := monday.AddDate(0, 0, 4)

	rule := RecurringRule{
		DaysOfWeek: "1,2,3,4,5,6,7",
		ValidFrom:  monday,
		ValidUntil: &friday,
	}
	assert.False(t, rule.AppliesOn(monday.AddDate(0, 0, -1)))
	assert.True(t, rule.AppliesOn(monday))
	assert.True(t, rule.AppliesOn(friday), "valid_until day itself still applies")
	assert.False(t, rule.AppliesOn(friday.AddDate(0, 0, 1)))
}

func TestScheduleEntryOverlapsIsHalfOpen(t *testing.T) {
	start := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	entry := ScheduleEntry{StartAt: start, EndAt: start.Add(time.Hour)}

	assert.False(t, entry.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)), "back-to-back is not an overlap")
	assert.False(t, entry.Overlaps(start.Add(-time.Hour), start))
	assert.True(t, entry.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
}
