// Package cache keeps a SQLite copy of the last history loaded from the
// server, so history can be listed and exported while offline.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yildizm/SentiDash/internal/common"
)

// ErrNoSnapshot is returned by Load before the first Save
var ErrNoSnapshot = errors.New("no history snapshot saved yet")

// Snapshot is a concrete SQLite-backed store. All methods are safe for
// concurrent use.
type Snapshot struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the snapshot database at path. ":memory:" opens a
// shared in-memory database.
func Open(path string) (*Snapshot, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	} else if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Snapshot{db: db}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Snapshot) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		category TEXT NOT NULL,
		rating INTEGER NOT NULL,
		sentiment TEXT NOT NULL,
		confidence REAL NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_position ON reviews(position);

	CREATE TABLE IF NOT EXISTS snapshot_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Snapshot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Save replaces the snapshot with records, kept newest first
func (s *Snapshot) Save(ctx context.Context, records []common.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews`); err != nil {
		return fmt.Errorf("clear reviews: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO reviews (
			position, id, text, category, rating, sentiment, confidence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			i, string(r.ID), r.Text, r.Category, r.Rating, string(r.Sentiment), r.Confidence,
			r.Timestamp.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert review %s: %w", r.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshot_meta (key, value) VALUES ('saved_at', ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("record snapshot time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot records newest first and the time they were saved
func (s *Snapshot) Load(ctx context.Context) ([]common.Record, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var savedRaw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM snapshot_meta WHERE key = 'saved_at'`).Scan(&savedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read snapshot time: %w", err)
	}
	savedAt, err := time.Parse(time.RFC3339Nano, savedRaw)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, category, rating, sentiment, confidence, created_at
		FROM reviews ORDER BY position ASC
	`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []common.Record
	for rows.Next() {
		var (
			r         common.Record
			id        string
			sentiment string
			created   string
		)
		if err := rows.Scan(&id, &r.Text, &r.Category, &r.Rating, &sentiment, &r.Confidence, &created); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan review: %w", err)
		}
		r.ID = common.ID(id)
		r.Sentiment = common.Sentiment(sentiment)
		if r.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, time.Time{}, fmt.Errorf("parse timestamp of review %s: %w", id, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate reviews: %w", err)
	}
	return records, savedAt, nil
}

// Delete removes one review from the snapshot
func (s *Snapshot) Delete(ctx context.Context, id common.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete review %s: %w", id, err)
	}
	return nil
}

// Clear empties the snapshot but keeps it marked as saved
func (s *Snapshot) Clear(ctx context.Context) error {
	return s.Save(ctx, nil)
}
