package reading

import (
	"math"
	"time"

	"github.com/lib/pq"
)

// ReadingEvent is the append/delete-only log of record. One row per logged
// chapter; several rows may share a (user, date_read) or a
// (user, book, chapter).
type ReadingEvent struct {
	ID       uint64    `gorm:"primaryKey"`
	UserID   uint64    `gorm:"index;not null"`
	BookID   int       `gorm:"not null"`
	Chapter  int       `gorm:"not null"`
	DateRead time.Time `gorm:"type:date;not null"`
	LoggedAt time.Time `gorm:"not null;default:now()"`
}

// BookProgress is the per-(user, book) derived aggregate. Created lazily on
// the first event for a book, never deleted; a book whose events were all
// removed stays at zero progress.
type BookProgress struct {
	UserID            uint64        `gorm:"primaryKey;autoIncrement:false"`
	BookID            int           `gorm:"primaryKey;autoIncrement:false"`
	ChaptersRead      pq.Int64Array `gorm:"type:integer[];not null;default:'{}'"`
	TotalChapters     int           `gorm:"not null"`
	CompletionPercent float64       `gorm:"not null;default:0"`
	IsCompleted       bool          `gorm:"not null;default:false"`
	UpdatedAt         time.Time     `gorm:"not null;default:now()"`
}

// recalc re-derives the completion fields from the chapter set.
// completion_percent is rounded to two decimals.
func (p *BookProgress) recalc() {
	n := len(p.ChaptersRead)
	p.CompletionPercent = math.Round(float64(n)/float64(p.TotalChapters)*10000) / 100
	p.IsCompleted = n >= p.TotalChapters
}

// addChapter inserts ch if absent and reports whether the set changed.
func addChapter(set pq.Int64Array, ch int) (pq.Int64Array, bool) {
	for _, c := range set {
		if c == int64(ch) {
			return set, false
		}
	}
	return append(set, int64(ch)), true
}

// removeChapter drops ch if present and reports whether the set changed.
func removeChapter(set pq.Int64Array, ch int) (pq.Int64Array, bool) {
	for i, c := range set {
		if c == int64(ch) {
			return append(set[:i], set[i+1:]...), true
		}
	}
	return set, false
}
