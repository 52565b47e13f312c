package reading

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/bible"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/logger"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/stats"
)

var ErrNotFound = errors.New("not found")
var ErrInvalidReference = errors.New("invalid book or chapter reference")

// Service owns reading-log mutations. Every mutation runs as one Postgres
// transaction serialized per user (advisory lock), so the distinct-day check
// always observes prior state atomically; cache eviction runs only after the
// transaction committed.
type Service struct {
	DB     *gorm.DB
	Ref    bible.Reference
	Policy *stats.CachePolicy
	Log    *logger.Logger
}

// LogReading appends one reading event and folds the chapter into the book's
// aggregate. Returns the new event id.
func (s *Service) LogReading(ctx context.Context, userID uint64, bookID, chapter int, dateRead time.Time) (uint64, error) {
	total, err := s.validateRef(bookID, chapter)
	if err != nil {
		return 0, err
	}

	day := stats.Day(dateRead)
	var eventID uint64
	firstOfDay := false

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&ReadingEvent{}).
			Where("user_id = ? AND date_read = ?", userID, day).
			Count(&n).Error; err != nil {
			return err
		}
		firstOfDay = n == 0

		ev := ReadingEvent{
			UserID:   userID,
			BookID:   bookID,
			Chapter:  chapter,
			DateRead: day,
			LoggedAt: time.Now(),
		}
		if err := tx.Create(&ev).Error; err != nil {
			return err
		}
		eventID = ev.ID

		return s.applyChapterAdd(tx, userID, bookID, chapter, total)
	})
	if err != nil {
		return 0, err
	}

	s.Log.Info("reading logged",
		"user_id", userID, "book_id", bookID, "chapter", chapter,
		"date", day.Format("2006-01-02"), "first_of_day", firstOfDay)

	return eventID, s.Policy.OnMutation(ctx, userID, day, firstOfDay)
}

// DeleteReading removes the oldest event matching (book, chapter, date).
// Deleting an event that does not exist is a no-op and evicts nothing.
func (s *Service) DeleteReading(ctx context.Context, userID uint64, bookID, chapter int, dateRead time.Time) error {
	if _, err := s.validateRef(bookID, chapter); err != nil {
		return err
	}

	day := stats.Day(dateRead)
	mutated := false
	lastOfDay := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var ev ReadingEvent
		err := tx.Where("user_id = ? AND book_id = ? AND chapter = ? AND date_read = ?",
			userID, bookID, chapter, day).
			Order("id asc").First(&ev).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var dayCount int64
		if err := tx.Model(&ReadingEvent{}).
			Where("user_id = ? AND date_read = ?", userID, day).
			Count(&dayCount).Error; err != nil {
			return err
		}
		lastOfDay = dayCount == 1

		// Other surviving events may still reference this chapter
		// (historical re-logging); only then does it stay in the set.
		var chapterRefs int64
		if err := tx.Model(&ReadingEvent{}).
			Where("user_id = ? AND book_id = ? AND chapter = ?", userID, bookID, chapter).
			Count(&chapterRefs).Error; err != nil {
			return err
		}

		if err := tx.Delete(&ReadingEvent{}, ev.ID).Error; err != nil {
			return err
		}

		if chapterRefs == 1 {
			if err := s.applyChapterRemove(tx, userID, bookID, chapter); err != nil {
				return err
			}
		}

		mutated = true
		return nil
	})
	if err != nil || !mutated {
		return err
	}

	s.Log.Info("reading deleted",
		"user_id", userID, "book_id", bookID, "chapter", chapter,
		"date", day.Format("2006-01-02"), "last_of_day", lastOfDay)

	return s.Policy.OnMutation(ctx, userID, day, lastOfDay)
}

func (s *Service) validateRef(bookID, chapter int) (int, error) {
	if !s.Ref.ValidateBookID(bookID) {
		return 0, ErrInvalidReference
	}
	total, err := s.Ref.ChapterCount(bookID)
	if err != nil {
		return 0, ErrInvalidReference
	}
	if chapter < 1 || chapter > total {
		return 0, ErrInvalidReference
	}
	return total, nil
}

// applyChapterAdd folds a chapter into the aggregate row under FOR UPDATE,
// creating the row lazily. Re-adding a present chapter is a no-op.
func (s *Service) applyChapterAdd(tx *gorm.DB, userID uint64, bookID, chapter, total int) error {
	var p BookProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Lazy row creation. The set is derived from the event log (the
		// new event is already in it), so a row that went missing for a
		// book with history comes back complete.
		chapters, err := distinctChapters(tx, userID, bookID)
		if err != nil {
			return err
		}
		p = BookProgress{
			UserID:        userID,
			BookID:        bookID,
			ChaptersRead:  chapters,
			TotalChapters: total,
			UpdatedAt:     time.Now(),
		}
		p.recalc()
		return tx.Create(&p).Error
	}
	if err != nil {
		return err
	}

	set, changed := addChapter(p.ChaptersRead, chapter)
	if !changed {
		return nil
	}
	p.ChaptersRead = set
	p.recalc()
	p.UpdatedAt = time.Now()
	return tx.Save(&p).Error
}

func (s *Service) applyChapterRemove(tx *gorm.DB, userID uint64, bookID, chapter int) error {
	var p BookProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	set, changed := removeChapter(p.ChaptersRead, chapter)
	if !changed {
		return nil
	}
	p.ChaptersRead = set
	p.recalc()
	p.UpdatedAt = time.Now()
	return tx.Save(&p).Error
}

// distinctChapters is the event-store view of a book's read chapters.
func distinctChapters(tx *gorm.DB, userID uint64, bookID int) ([]int64, error) {
	var chapters []int64
	err := tx.Model(&ReadingEvent{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Distinct().
		Pluck("chapter", &chapters).Error
	return chapters, err
}

// lockUser serializes all mutations for one user within the transaction.
// The distinct-day and last-event checks depend on it.
func lockUser(tx *gorm.DB, userID uint64) error {
	return tx.Exec(`select pg_advisory_xact_lock(?)`, int64(userID)).Error
}
