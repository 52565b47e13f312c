package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func dateSet(t *testing.T, days ...string) DateSet {
	t.Helper()
	s := make(DateSet, len(days))
	for _, d := range days {
		s[day(t, d)] = struct{}{}
	}
	return s
}

func TestCurrentStreak(t *testing.T) {
	testCases := []struct {
		name     string
		dates    []string
		today    string
		expected int
	}{
		{
			name:     "no dates",
			dates:    nil,
			today:    "2024-06-20",
			expected: 0,
		},
		{
			name:     "read today only",
			dates:    []string{"2024-06-20"},
			today:    "2024-06-20",
			expected: 1,
		},
		{
			name:     "read yesterday only keeps streak via grace day",
			dates:    []string{"2024-06-19"},
			today:    "2024-06-20",
			expected: 1,
		},
		{
			name:     "missed today and yesterday breaks streak",
			dates:    []string{"2024-06-18", "2024-06-17", "2024-06-16"},
			today:    "2024-06-20",
			expected: 0,
		},
		{
			name:     "three day run ending today",
			dates:    []string{"2024-06-18", "2024-06-19", "2024-06-20"},
			today:    "2024-06-20",
			expected: 3,
		},
		{
			name:     "run ends yesterday after today's event removed",
			dates:    []string{"2024-06-18", "2024-06-19"},
			today:    "2024-06-20",
			expected: 2,
		},
		{
			name:     "gap before run limits count",
			dates:    []string{"2024-06-15", "2024-06-19", "2024-06-20"},
			today:    "2024-06-20",
			expected: 2,
		},
		{
			name:     "month boundary",
			dates:    []string{"2024-05-30", "2024-05-31", "2024-06-01"},
			today:    "2024-06-01",
			expected: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentStreak(dateSet(t, tc.dates...), day(t, tc.today))
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCurrentStreakIgnoresDuplicateDays(t *testing.T) {
	// Several readings on one day collapse into one set member and must not
	// inflate the streak.
	dates := NewDateSet(
		day(t, "2024-06-19"),
		day(t, "2024-06-19"),
		day(t, "2024-06-20"),
	)
	assert.Equal(t, 2, CurrentStreak(dates, day(t, "2024-06-20")))
}

func TestLongestStreak(t *testing.T) {
	testCases := []struct {
		name     string
		dates    []string
		expected int
	}{
		{
			name:     "no dates",
			dates:    nil,
			expected: 0,
		},
		{
			name:     "single date",
			dates:    []string{"2024-06-18"},
			expected: 1,
		},
		{
			name:     "three consecutive days",
			dates:    []string{"2024-06-18", "2024-06-19", "2024-06-20"},
			expected: 3,
		},
		{
			name:     "two dates two days apart are separate runs",
			dates:    []string{"2024-06-18", "2024-06-20"},
			expected: 1,
		},
		{
			name:     "longest of several runs",
			dates:    []string{"2024-06-01", "2024-06-02", "2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-20"},
			expected: 4,
		},
		{
			name:     "future dated entry is just a value",
			dates:    []string{"2024-06-18", "2024-06-19", "2030-01-01"},
			expected: 2,
		},
		{
			name:     "year boundary",
			dates:    []string{"2023-12-30", "2023-12-31", "2024-01-01"},
			expected: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := LongestStreak(dateSet(t, tc.dates...))
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCurrentNeverExceedsLongestOnQuiescentSet(t *testing.T) {
	dates := dateSet(t,
		"2024-06-10", "2024-06-11", "2024-06-12",
		"2024-06-18", "2024-06-19", "2024-06-20",
	)
	today := day(t, "2024-06-20")
	assert.LessOrEqual(t, CurrentStreak(dates, today), LongestStreak(dates))
}
