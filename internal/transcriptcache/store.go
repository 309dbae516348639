package transcriptcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"asreval/internal/fileutil"
)

// Key identifies one cached transcription.
type Key struct {
	Digest   string
	Backend  string
	Model    string
	Language string
}

// KeyFor hashes the clip at path and combines it with the model settings.
func KeyFor(path, backend, model, language string) (Key, error) {
	digest, err := fileutil.HashFile(path)
	if err != nil {
		return Key{}, fmt.Errorf("cache key: %w", err)
	}
	return Key{Digest: digest, Backend: backend, Model: model, Language: language}, nil
}

// Store is a transcript cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	digest     TEXT NOT NULL,
	backend    TEXT NOT NULL,
	model      TEXT NOT NULL,
	language   TEXT NOT NULL,
	transcript TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	PRIMARY KEY (digest, backend, model, language)
)`

// Open initializes or connects to the cache database at path, creating its
// directory when needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("open transcript cache: path required")
	}
	if err := fileutil.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open transcript cache: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init transcript cache schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached transcript for key.
func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	ctx = ensureContext(ctx)
	var text string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT transcript FROM transcripts WHERE digest = ? AND backend = ? AND model = ? AND language = ?`,
			key.Digest, key.Backend, key.Model, key.Language,
		).Scan(&text)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cached transcript: %w", err)
	}
	return text, true, nil
}

// Put stores transcript under key, replacing any earlier entry. source is the
// clip path it was produced from, kept for inspection only.
func (s *Store) Put(ctx context.Context, key Key, source, transcript string) error {
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO transcripts (digest, backend, model, language, transcript, source, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(digest, backend, model, language)
			 DO UPDATE SET transcript = excluded.transcript, source = excluded.source, created_at = excluded.created_at`,
			key.Digest, key.Backend, key.Model, key.Language, transcript, source,
			time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("store cached transcript: %w", err)
	}
	return nil
}

// Count returns the number of cached transcripts.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcripts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached transcripts: %w", err)
	}
	return n, nil
}

// Clear removes every cached transcript and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("clear transcript cache: %w", err)
	}
	return res.RowsAffected()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
