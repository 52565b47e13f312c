package reading

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/stats"
)

// Repo is the query side of the event store. It backs stats.EventSource and
// stats.ProgressSource.
type Repo struct {
	DB *gorm.DB
}

func (r *Repo) DistinctReadingDates(ctx context.Context, userID uint64) (stats.DateSet, error) {
	var days []time.Time
	err := r.DB.WithContext(ctx).Model(&ReadingEvent{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("date_read", &days).Error
	if err != nil {
		return nil, err
	}
	return stats.NewDateSet(days...), nil
}

func (r *Repo) ReadingDatesInRange(ctx context.Context, userID uint64, from, to time.Time) (stats.DateSet, error) {
	var days []time.Time
	err := r.DB.WithContext(ctx).Model(&ReadingEvent{}).
		Where("user_id = ? AND date_read BETWEEN ? AND ?", userID, stats.Day(from), stats.Day(to)).
		Distinct().
		Pluck("date_read", &days).Error
	if err != nil {
		return nil, err
	}
	return stats.NewDateSet(days...), nil
}

func (r *Repo) DayCountsInYear(ctx context.Context, userID uint64, year int) (map[string]int, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var rows []struct {
		Day string
		N   int
	}
	err := r.DB.WithContext(ctx).Raw(`
select to_char(date_read, 'YYYY-MM-DD') as day, count(*) as n
from reading_events
where user_id = ? and date_read >= ? and date_read < ?
group by day
`, userID, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Day] = row.N
	}
	return counts, nil
}

func (r *Repo) CompletedBookCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&BookProgress{}).
		Where("user_id = ? AND is_completed = true", userID).
		Count(&n).Error
	return n, err
}

func (r *Repo) TotalChaptersRead(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Raw(`
select coalesce(sum(cardinality(chapters_read)), 0)
from book_progresses
where user_id = ?
`, userID).Scan(&n).Error
	return n, err
}

// GetBookProgress returns the aggregate row for one book. A book the user
// never logged has no row; that is ErrNotFound, not an empty aggregate.
func (r *Repo) GetBookProgress(ctx context.Context, userID uint64, bookID int) (BookProgress, error) {
	var p BookProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return BookProgress{}, ErrNotFound
	}
	return p, err
}
