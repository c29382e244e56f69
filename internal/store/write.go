package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/avast/retry-go"

	"spotify-data-agent/internal/history"
)

// AddListens inserts a batch of events transactionally. SQLite reports
// "database is locked" when another process holds the file; those
// inserts are retried, other failures are not.
func (s *Store) AddListens(events []history.Event) error {
	return retry.Do(
		func() error {
			return s.insertBatch(events)
		},
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			return strings.Contains(err.Error(), "database is locked")
		}),
	)
}

func (s *Store) insertBatch(events []history.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO Listen (ts, artist, track, ms_played, is_skipped, hour, day_of_week, is_weekend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if err := insertListen(stmt, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertListen(stmt *sql.Stmt, e history.Event) error {
	_, err := stmt.Exec(
		e.Timestamp.Unix(),
		e.Artist,
		e.Track,
		e.MsPlayed,
		e.IsSkipped,
		e.Hour,
		e.DayOfWeek,
		e.IsWeekend,
	)
	if err != nil {
		return fmt.Errorf("inserting listen for %q: %w", e.Artist, err)
	}
	return nil
}

// Clear removes all stored listens, for re-imports.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM Listen"); err != nil {
		return fmt.Errorf("clearing listens: %w", err)
	}
	return nil
}
