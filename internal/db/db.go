package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/auth"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/reading"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&reading.ReadingEvent{},
		&reading.BookProgress{},
		&auth.User{},
	); err != nil {
		return err
	}

	// The mutation path counts events per (user, day) and per
	// (user, book, chapter) inside every transaction; both need an index.
	// Note: no uniqueness on events — several rows per chapter or per day
	// are legal, dedup is the stats layer's job.
	stmts := []string{
		`create index if not exists idx_events_user_day on reading_events(user_id, date_read);`,
		`create index if not exists idx_events_user_chapter on reading_events(user_id, book_id, chapter);`,
		`create index if not exists idx_progress_user_completed on book_progresses(user_id, is_completed);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
