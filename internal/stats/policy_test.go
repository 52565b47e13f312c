package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/cache"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/logger"
)

const testUser uint64 = 7

// spyStore records every key handed to Delete.
type spyStore struct {
	cache.Store
	deleted []string
}

func (s *spyStore) Delete(ctx context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return s.Store.Delete(ctx, keys...)
}

type failingStore struct {
	err error
}

func (f *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, f.err
}
func (f *failingStore) Set(ctx context.Context, key, value string) error { return f.err }
func (f *failingStore) Delete(ctx context.Context, keys ...string) error { return f.err }

// currentEntry builds the stamped cache value GetCurrentStreak writes.
func currentEntry(t *testing.T, value int) string {
	t.Helper()
	b, err := json.Marshal(streakEntry{AsOf: "2024-06-18", Value: value})
	require.NoError(t, err)
	return string(b)
}

func seededPolicy(t *testing.T, currentStreak, longestStreak string) (*CachePolicy, *spyStore, *cache.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := cache.NewMemory()

	require.NoError(t, mem.Set(ctx, cache.SummaryKey(testUser), "{}"))
	require.NoError(t, mem.Set(ctx, cache.HeatmapKey(testUser, 2024), "{}"))
	require.NoError(t, mem.Set(ctx, cache.HeatmapKey(testUser, 2023), "{}"))
	require.NoError(t, mem.Set(ctx, cache.WeekKey(testUser, day(t, "2024-06-16")), "{}"))
	if currentStreak != "" {
		require.NoError(t, mem.Set(ctx, cache.CurrentStreakKey(testUser), currentStreak))
	}
	if longestStreak != "" {
		require.NoError(t, mem.Set(ctx, cache.LongestStreakKey(testUser), longestStreak))
	}

	spy := &spyStore{Store: mem}
	return &CachePolicy{Cache: spy, Log: logger.NewNop()}, spy, mem
}

func TestPolicySameDaySecondReadingSkipsStreakEvictions(t *testing.T) {
	policy, spy, mem := seededPolicy(t, currentEntry(t, 3), "10")

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), false)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		cache.SummaryKey(testUser),
		cache.HeatmapKey(testUser, 2024),
		cache.HeatmapKey(testUser, 2023),
	}, spy.deleted)

	// Everything else survives in the store.
	assert.ElementsMatch(t, []string{
		cache.CurrentStreakKey(testUser),
		cache.LongestStreakKey(testUser),
		cache.WeekKey(testUser, day(t, "2024-06-16")),
	}, mem.Keys())
}

func TestPolicyDistinctDayChangeEvictsStreakAndWeek(t *testing.T) {
	// current+1 cannot beat the cached longest, so longest stays.
	policy, spy, _ := seededPolicy(t, currentEntry(t, 3), "10")

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), true)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		cache.SummaryKey(testUser),
		cache.HeatmapKey(testUser, 2024),
		cache.HeatmapKey(testUser, 2023),
		cache.CurrentStreakKey(testUser),
		cache.WeekKey(testUser, day(t, "2024-06-16")),
	}, spy.deleted)
}

func TestPolicyEvictsLongestWhenRecordInReach(t *testing.T) {
	policy, spy, _ := seededPolicy(t, currentEntry(t, 10), "10")

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), true)
	require.NoError(t, err)

	assert.Contains(t, spy.deleted, cache.LongestStreakKey(testUser))
}

func TestPolicyEvictsLongestWhenNotCached(t *testing.T) {
	policy, spy, _ := seededPolicy(t, currentEntry(t, 3), "")

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), true)
	require.NoError(t, err)

	assert.Contains(t, spy.deleted, cache.LongestStreakKey(testUser))
}

func TestPolicyEvictsLongestWhenCurrentNotCached(t *testing.T) {
	policy, spy, _ := seededPolicy(t, "", "10")

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), true)
	require.NoError(t, err)

	assert.Contains(t, spy.deleted, cache.LongestStreakKey(testUser))
}

func TestPolicyEvictsLongestWhenCurrentUnparsable(t *testing.T) {
	policy, spy, _ := seededPolicy(t, "not-json", "10")

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), true)
	require.NoError(t, err)

	assert.Contains(t, spy.deleted, cache.LongestStreakKey(testUser))
}

func TestPolicyWeekKeyMatchesMutationWeek(t *testing.T) {
	// A Saturday mutation belongs to the week that started the prior Sunday.
	policy, spy, _ := seededPolicy(t, currentEntry(t, 3), "10")

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-22"), true)
	require.NoError(t, err)

	assert.Contains(t, spy.deleted, cache.WeekKey(testUser, day(t, "2024-06-16")))
}

func TestPolicyPropagatesEvictionFailure(t *testing.T) {
	// A failed eviction after a committed write must surface, never be
	// treated as best effort.
	boom := errors.New("cache unreachable")
	policy := &CachePolicy{Cache: &failingStore{err: boom}, Log: logger.NewNop()}

	err := policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), false)
	assert.ErrorIs(t, err, boom)

	err = policy.OnMutation(context.Background(), testUser, day(t, "2024-06-18"), true)
	assert.ErrorIs(t, err, boom)
}
