// Package sqlite keeps the reminder client's local state: snoozed tasks
// and the last acknowledgement of recurring alerts. Times are stored as
// unix milliseconds.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

type State struct {
	db *sql.DB
}

func Open(path string) (*State, error) {
	if path == "" {
		return nil, fmt.Errorf("state path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases alive between calls.
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &State{db: db}, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *State) Close() error {
	return s.db.Close()
}

// Snooze silences reminders for taskID until the given time.
func (s *State) Snooze(ctx context.Context, taskID string, until time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snoozes (task_id, until) VALUES (?, ?)
		 ON CONFLICT(task_id) DO UPDATE SET until = excluded.until`,
		taskID, until.UnixMilli())
	if err != nil {
		return fmt.Errorf("snooze task %s: %w", taskID, err)
	}
	return nil
}

// Snoozes returns the snoozes still active at now and drops expired ones.
func (s *State) Snoozes(ctx context.Context, now time.Time) (map[string]time.Time, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snoozes WHERE until <= ?`, now.UnixMilli()); err != nil {
		return nil, fmt.Errorf("purge snoozes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT task_id, until FROM snoozes`)
	if err != nil {
		return nil, fmt.Errorf("list snoozes: %w", err)
	}
	defer rows.Close()

	snoozes := make(map[string]time.Time)
	for rows.Next() {
		var (
			taskID string
			until  int64
		)
		if err := rows.Scan(&taskID, &until); err != nil {
			return nil, fmt.Errorf("scan snooze: %w", err)
		}
		snoozes[taskID] = time.UnixMilli(until)
	}
	return snoozes, rows.Err()
}

// LastAcknowledged returns the zero time when name was never acknowledged.
func (s *State) LastAcknowledged(ctx context.Context, name string) (time.Time, error) {
	var at int64
	err := s.db.QueryRowContext(ctx, `SELECT at FROM acknowledgements WHERE name = ?`, name).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get acknowledgement %s: %w", name, err)
	}
	return time.UnixMilli(at), nil
}

func (s *State) Acknowledge(ctx context.Context, name string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO acknowledgements (name, at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET at = excluded.at`,
		name, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("acknowledge %s: %w", name, err)
	}
	return nil
}
