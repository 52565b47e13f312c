package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("missing key is not an error", func(t *testing.T) {
		v, ok, err := m.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, m.Set(ctx, "a", "1"))
		v, ok, err := m.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", v)
	})

	t.Run("delete removes only named keys", func(t *testing.T) {
		require.NoError(t, m.Set(ctx, "a", "1"))
		require.NoError(t, m.Set(ctx, "b", "2"))
		require.NoError(t, m.Delete(ctx, "a", "missing"))

		_, ok, err := m.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = m.Get(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete with no keys", func(t *testing.T) {
		assert.NoError(t, m.Delete(ctx))
	})
}

func TestKeysAreUserScoped(t *testing.T) {
	assert.NotEqual(t, SummaryKey(1), SummaryKey(2))
	assert.NotEqual(t, CurrentStreakKey(1), LongestStreakKey(1))
	assert.NotEqual(t, HeatmapKey(1, 2023), HeatmapKey(1, 2024))
}
