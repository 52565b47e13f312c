package stats

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/cache"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/logger"
)

// CachePolicy decides which cached statistics a reading-log mutation may have
// made wrong, and evicts exactly those. It must only run after the mutation
// has committed; an eviction failure is returned as an error even though the
// underlying write already succeeded, because serving a stale streak is worse
// than a visible failure.
type CachePolicy struct {
	Cache cache.Store
	Log   *logger.Logger
}

// OnMutation applies the eviction set for one event create or delete on
// dateRead. dayCountChanged reports whether the mutation changed the user's
// distinct-day count for that date: true for the first event of a day and for
// the deletion of a day's last event, false for a same-day second reading.
func (p *CachePolicy) OnMutation(ctx context.Context, userID uint64, dateRead time.Time, dayCountChanged bool) error {
	dateRead = Day(dateRead)

	// The summary aggregates everything, and a heatmap read near a year
	// boundary may span two years.
	keys := []string{
		cache.SummaryKey(userID),
		cache.HeatmapKey(userID, dateRead.Year()),
		cache.HeatmapKey(userID, dateRead.Year()-1),
	}

	if dayCountChanged {
		keys = append(keys,
			cache.CurrentStreakKey(userID),
			cache.WeekKey(userID, WeekStart(dateRead)),
		)

		atRisk, err := p.longestAtRisk(ctx, userID)
		if err != nil {
			return err
		}
		if atRisk {
			keys = append(keys, cache.LongestStreakKey(userID))
		}
	}

	if err := p.Cache.Delete(ctx, keys...); err != nil {
		return err
	}
	p.Log.Debug("cache evicted", "user_id", userID, "keys", keys)
	return nil
}

// longestAtRisk reports whether the longest-streak entry has to go. The
// longest streak only moves when the current streak sets a new record, so
// when both values are cached and current+1 cannot beat longest, the entry is
// provably still correct and a full history rescan is skipped. Cached values
// are read before any eviction so the decision sees pre-mutation state.
func (p *CachePolicy) longestAtRisk(ctx context.Context, userID uint64) (bool, error) {
	rawLongest, ok, err := p.Cache.Get(ctx, cache.LongestStreakKey(userID))
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	longest, err := strconv.Atoi(rawLongest)
	if err != nil {
		return true, nil
	}

	rawCurrent, ok, err := p.Cache.Get(ctx, cache.CurrentStreakKey(userID))
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	var current streakEntry
	if err := json.Unmarshal([]byte(rawCurrent), &current); err != nil {
		return true, nil
	}

	return current.Value+1 > longest, nil
}
