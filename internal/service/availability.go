package service

import (
	"time"

	"github.com/fieldserve/dispatch-api/internal/models"
	"github.com/fieldserve/dispatch-api/pkg/timeutil"
)

// Interval is a half-open [Start, End) time span.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the interval intersects [start, end).
func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && i.Start.Before(end)
}

// Minutes returns the interval length in whole minutes.
func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// DayPlan is the derived availability of one engineer on one calendar day:
// the working window plus the break carved out of its middle. It is
// recomputed from policy on every use, never persisted.
type DayPlan struct {
	Working Interval
	Break   *Interval
}

// PlanForDay derives the working and break intervals for an engineer on the
// given day. The break is centered on the midpoint of the working window.
func PlanForDay(engineer *models.Engineer, day time.Time) DayPlan {
	workStart := engineer.WorkStartHour * 60
	workEnd := engineer.WorkEndHour * 60

	plan := DayPlan{
		Working: Interval{
			Start: timeutil.At(day, workStart),
			End:   timeutil.At(day, workEnd),
		},
	}

	if engineer.BreakMinutes > 0 {
		mid := (workStart + workEnd) / 2
		breakStart := mid - engineer.BreakMinutes/2
		plan.Break = &Interval{
			Start: timeutil.At(day, breakStart),
			End:   timeutil.At(day, breakStart+engineer.BreakMinutes),
		}
	}

	return plan
}

// BookedMinutes sums the durations of the given entries.
func BookedMinutes(entries []models.ScheduleEntry) int {
	total := 0
	for _, entry := range entries {
		total += int(entry.EndAt.Sub(entry.StartAt) / time.Minute)
	}
	return total
}

// AvailableMinutes is the bookable capacity of one engineer day: the working
// window minus the break.
func AvailableMinutes(engineer *models.Engineer) int {
	return (engineer.WorkEndHour-engineer.WorkStartHour)*60 - engineer.BreakMinutes
}
