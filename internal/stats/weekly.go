package stats

import "time"

// DefaultWeeklyGoalTarget is the number of distinct reading days that counts
// as an achieved week.
const DefaultWeeklyGoalTarget = 4

// MaxWeeklyLookback bounds the backward walk of WeeklyStreak.
const MaxWeeklyLookback = 52

// WeeklyGoalState is the derived state of one Sunday–Saturday week.
type WeeklyGoalState struct {
	WeekStart          time.Time `json:"week_start"`
	WeekEnd            time.Time `json:"week_end"`
	DaysRead           int       `json:"days_read"`
	Target             int       `json:"target"`
	IsGoalAchieved     bool      `json:"is_goal_achieved"`
	ProgressPercentage float64   `json:"progress_percentage"`
}

// WeekProgress counts distinct reading days within [weekStart, weekStart+6].
func WeekProgress(dates DateSet, weekStart time.Time) int {
	weekStart = Day(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	n := 0
	for d := range dates {
		if !d.Before(weekStart) && !d.After(weekEnd) {
			n++
		}
	}
	return n
}

func IsGoalAchieved(daysRead, target int) bool {
	return daysRead >= target
}

// NewWeeklyGoalState assembles the derived week state for a day count.
// ProgressPercentage may exceed 100.
func NewWeeklyGoalState(weekStart time.Time, daysRead, target int) WeeklyGoalState {
	weekStart = Day(weekStart)
	return WeeklyGoalState{
		WeekStart:          weekStart,
		WeekEnd:            weekStart.AddDate(0, 0, 6),
		DaysRead:           daysRead,
		Target:             target,
		IsGoalAchieved:     IsGoalAchieved(daysRead, target),
		ProgressPercentage: float64(daysRead) / float64(target) * 100,
	}
}
