package stats

import (
	"sort"
	"time"
)

// DateSet is a set of distinct calendar dates (midnight UTC). Multiple
// readings on the same day collapse to one member, so streaks can never be
// inflated by logging several chapters in one sitting.
type DateSet map[time.Time]struct{}

func NewDateSet(dates ...time.Time) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[Day(d)] = struct{}{}
	}
	return s
}

func (s DateSet) Contains(d time.Time) bool {
	_, ok := s[Day(d)]
	return ok
}

// CurrentStreak counts consecutive reading days ending at today, with a
// one-day grace period: a user who read yesterday but not yet today still
// sees their full streak. If neither today nor yesterday was read, the
// streak is 0 regardless of history.
func CurrentStreak(dates DateSet, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	today = Day(today)
	yesterday := today.AddDate(0, 0, -1)

	cursor := today
	if !dates.Contains(today) {
		if !dates.Contains(yesterday) {
			return 0
		}
		cursor = yesterday
	}

	count := 0
	for dates.Contains(cursor) {
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}

// LongestStreak returns the longest run of consecutive dates anywhere in the
// set. It makes no assumption about today; future-dated entries are treated
// as plain values.
func LongestStreak(dates DateSet) int {
	if len(dates) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}
