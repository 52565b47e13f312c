package stats

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/cache"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/logger"
)

// EventSource is the engine's view of the reading-event store.
type EventSource interface {
	// DistinctReadingDates returns every distinct calendar date the user
	// logged at least one reading on.
	DistinctReadingDates(ctx context.Context, userID uint64) (DateSet, error)
	// ReadingDatesInRange returns the distinct reading dates within
	// [from, to] inclusive.
	ReadingDatesInRange(ctx context.Context, userID uint64, from, to time.Time) (DateSet, error)
	// DayCountsInYear returns events-per-day for one calendar year, keyed
	// by "YYYY-MM-DD".
	DayCountsInYear(ctx context.Context, userID uint64, year int) (map[string]int, error)
}

// ProgressSource exposes the book-progress aggregates the dashboard summary
// needs.
type ProgressSource interface {
	CompletedBookCount(ctx context.Context, userID uint64) (int64, error)
	TotalChaptersRead(ctx context.Context, userID uint64) (int64, error)
}

// Service serves derived statistics cache-aside: a hit is returned as-is, a
// miss recomputes from the event store and repopulates. Because population
// always re-reads the store, racing with an eviction resolves to current
// truth.
type Service struct {
	Events   EventSource
	Progress ProgressSource
	Cache    cache.Store
	Log      *logger.Logger

	// Target is the weekly goal in distinct reading days.
	Target int
}

// streakEntry is the cached current-streak value, stamped with the date it
// was computed for. The streak depends on "today" (grace-day entry
// condition), so a stamp mismatch — date rollover or an explicit today
// override — is a miss, never a stale hit.
type streakEntry struct {
	AsOf  string `json:"as_of"`
	Value int    `json:"value"`
}

// Summary is the aggregate dashboard payload. AsOf carries the today it was
// computed for, same contract as streakEntry.
type Summary struct {
	AsOf           string          `json:"as_of"`
	CurrentStreak  int             `json:"current_streak"`
	LongestStreak  int             `json:"longest_streak"`
	WeeklyStreak   int             `json:"weekly_streak"`
	Week           WeeklyGoalState `json:"week"`
	BooksCompleted int64           `json:"books_completed"`
	ChaptersRead   int64           `json:"chapters_read"`
}

func (s *Service) target() int {
	if s.Target > 0 {
		return s.Target
	}
	return DefaultWeeklyGoalTarget
}

func (s *Service) GetCurrentStreak(ctx context.Context, userID uint64, today time.Time) (int, error) {
	key := cache.CurrentStreakKey(userID)
	asOf := Day(today).Format("2006-01-02")

	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if ok {
		var entry streakEntry
		if err := json.Unmarshal([]byte(raw), &entry); err == nil && entry.AsOf == asOf {
			return entry.Value, nil
		}
	}

	dates, err := s.Events.DistinctReadingDates(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := CurrentStreak(dates, today)
	return n, s.setJSON(ctx, key, streakEntry{AsOf: asOf, Value: n})
}

func (s *Service) GetLongestStreak(ctx context.Context, userID uint64) (int, error) {
	return s.cachedInt(ctx, cache.LongestStreakKey(userID), func() (int, error) {
		dates, err := s.Events.DistinctReadingDates(ctx, userID)
		if err != nil {
			return 0, err
		}
		return LongestStreak(dates), nil
	})
}

func (s *Service) GetWeeklyGoalState(ctx context.Context, userID uint64, today time.Time) (WeeklyGoalState, error) {
	return s.weekState(ctx, userID, WeekStart(today))
}

// GetWeeklyStreak counts consecutive achieved weeks walking backward from
// today's week. The current week seeds the streak when already achieved but
// never breaks it while still in progress; the walk starts at the previous
// week and stops at the first miss or after MaxWeeklyLookback weeks.
func (s *Service) GetWeeklyStreak(ctx context.Context, userID uint64, today time.Time) (int, error) {
	current, err := s.weekState(ctx, userID, WeekStart(today))
	if err != nil {
		return 0, err
	}

	streak := 0
	if current.IsGoalAchieved {
		streak = 1
	}

	ws := current.WeekStart
	for i := 0; i < MaxWeeklyLookback; i++ {
		ws = ws.AddDate(0, 0, -7)
		week, err := s.weekState(ctx, userID, ws)
		if err != nil {
			return 0, err
		}
		if !week.IsGoalAchieved {
			break
		}
		streak++
	}
	return streak, nil
}

// GetHeatmap returns events-per-day for one calendar year.
func (s *Service) GetHeatmap(ctx context.Context, userID uint64, year int) (map[string]int, error) {
	key := cache.HeatmapKey(userID, year)

	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		var counts map[string]int
		if err := json.Unmarshal([]byte(raw), &counts); err == nil {
			return counts, nil
		}
	}

	counts, err := s.Events.DayCountsInYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	return counts, s.setJSON(ctx, key, counts)
}

func (s *Service) GetSummary(ctx context.Context, userID uint64, today time.Time) (Summary, error) {
	key := cache.SummaryKey(userID)
	asOf := Day(today).Format("2006-01-02")

	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return Summary{}, err
	}
	if ok {
		var sum Summary
		if err := json.Unmarshal([]byte(raw), &sum); err == nil && sum.AsOf == asOf {
			return sum, nil
		}
	}

	sum := Summary{AsOf: asOf}
	if sum.CurrentStreak, err = s.GetCurrentStreak(ctx, userID, today); err != nil {
		return Summary{}, err
	}
	if sum.LongestStreak, err = s.GetLongestStreak(ctx, userID); err != nil {
		return Summary{}, err
	}
	if sum.WeeklyStreak, err = s.GetWeeklyStreak(ctx, userID, today); err != nil {
		return Summary{}, err
	}
	if sum.Week, err = s.GetWeeklyGoalState(ctx, userID, today); err != nil {
		return Summary{}, err
	}
	if sum.BooksCompleted, err = s.Progress.CompletedBookCount(ctx, userID); err != nil {
		return Summary{}, err
	}
	if sum.ChaptersRead, err = s.Progress.TotalChaptersRead(ctx, userID); err != nil {
		return Summary{}, err
	}

	return sum, s.setJSON(ctx, key, sum)
}

func (s *Service) weekState(ctx context.Context, userID uint64, weekStart time.Time) (WeeklyGoalState, error) {
	weekStart = Day(weekStart)
	key := cache.WeekKey(userID, weekStart)

	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return WeeklyGoalState{}, err
	}
	if ok {
		var week WeeklyGoalState
		if err := json.Unmarshal([]byte(raw), &week); err == nil {
			return week, nil
		}
	}

	dates, err := s.Events.ReadingDatesInRange(ctx, userID, weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		return WeeklyGoalState{}, err
	}
	week := NewWeeklyGoalState(weekStart, WeekProgress(dates, weekStart), s.target())
	return week, s.setJSON(ctx, key, week)
}

func (s *Service) cachedInt(ctx context.Context, key string, compute func() (int, error)) (int, error) {
	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n, nil
		}
	}

	n, err := compute()
	if err != nil {
		return 0, err
	}
	return n, s.Cache.Set(ctx, key, strconv.Itoa(n))
}

func (s *Service) setJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Cache.Set(ctx, key, string(b))
}
