package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is a per-user key-value cache for derived statistics. Implementations
// must treat a missing key as (value="", ok=false, err=nil); every other
// failure is a real error and must be reported, including on Delete — a
// swallowed eviction failure would leave a stale aggregate behind a
// committed write.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Key scheme. All keys are scoped to a single user; nothing in the cache is
// ever shared across users.

func SummaryKey(userID uint64) string {
	return fmt.Sprintf("stats:%d:summary", userID)
}

func CurrentStreakKey(userID uint64) string {
	return fmt.Sprintf("stats:%d:streak:current", userID)
}

func LongestStreakKey(userID uint64) string {
	return fmt.Sprintf("stats:%d:streak:longest", userID)
}

func WeekKey(userID uint64, weekStart time.Time) string {
	return fmt.Sprintf("stats:%d:week:%s", userID, weekStart.Format("2006-01-02"))
}

func HeatmapKey(userID uint64, year int) string {
	return fmt.Sprintf("stats:%d:heatmap:%d", userID, year)
}
