package stats

import (
	"hash/fnv"
	"time"
)

// SelectMessage picks one of messages deterministically for a given day and
// context, so the same user sees the same copy all day without any shared
// state. Returns "" for an empty list.
func SelectMessage(messages []string, seedContext string, today time.Time) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[int(daySeed(seedContext, today)%uint32(len(messages)))]
}

// ShouldShowVariant gates an optional message variant at roughly 1-in-4,
// stable per (context, day).
func ShouldShowVariant(seedContext string, today time.Time) bool {
	return daySeed(seedContext, today)%4 == 0
}

func daySeed(seedContext string, today time.Time) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(Day(today).Format("2006-01-02")))
	_, _ = h.Write([]byte(seedContext))
	return h.Sum32()
}
