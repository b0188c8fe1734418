package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists fixed-window counters in SQLite so limits survive
// server restarts. One store backs any number of Limiters, each scoped
// by a purpose prefix ("chat", "leads").
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex // serialize increment transactions to prevent SQLITE_BUSY
}

// NewSQLiteStore opens (or creates) the counter database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS rate_windows (
		key TEXT PRIMARY KEY,
		window_start INTEGER NOT NULL,
		count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rate_windows_start ON rate_windows(window_start);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PruneExpired deletes windows that ended before cutoff and returns the
// number of rows removed.
func (s *SQLiteStore) PruneExpired(ctx context.Context, maxWindow time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxWindow).Unix()
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM rate_windows WHERE window_start < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune rate windows: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rows, nil
}

// Limiter returns a fixed-window limiter backed by this store. Keys are
// namespaced as "purpose:key" so independent purposes never collide.
func (s *SQLiteStore) Limiter(purpose string, limit int, window time.Duration) *SQLiteLimiter {
	return &SQLiteLimiter{
		store:   s,
		purpose: purpose,
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// SQLiteLimiter implements Limiter on top of a SQLiteStore.
type SQLiteLimiter struct {
	store   *SQLiteStore
	purpose string
	limit   int
	window  time.Duration
	now     func() time.Time
}

// Limit atomically counts one request against key's current window.
func (l *SQLiteLimiter) Limit(ctx context.Context, key string) (Result, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	fullKey := l.purpose + ":" + key
	now := l.now()

	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin rate window tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			slog.Debug("Rate window tx rollback failed", "error", rbErr)
		}
	}()

	var windowStart, count int64
	err = tx.QueryRowContext(ctx,
		`SELECT window_start, count FROM rate_windows WHERE key = ?`, fullKey).
		Scan(&windowStart, &count)

	switch {
	case err == sql.ErrNoRows || (err == nil && now.Unix() >= windowStart+int64(l.window.Seconds())):
		// New key or expired window: start a fresh window at 1.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rate_windows (key, window_start, count) VALUES (?, ?, 1)
			ON CONFLICT(key) DO UPDATE SET
				window_start = excluded.window_start,
				count = excluded.count`,
			fullKey, now.Unix())
		if err != nil {
			return Result{}, fmt.Errorf("reset rate window: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return Result{}, fmt.Errorf("commit rate window: %w", err)
		}
		return Result{Allowed: true, Remaining: l.limit - 1, Reset: now.Add(l.window)}, nil

	case err != nil:
		return Result{}, fmt.Errorf("read rate window: %w", err)
	}

	reset := time.Unix(windowStart, 0).Add(l.window)
	if count >= int64(l.limit) {
		if err := tx.Commit(); err != nil {
			return Result{}, fmt.Errorf("commit rate window: %w", err)
		}
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE rate_windows SET count = count + 1 WHERE key = ?`, fullKey); err != nil {
		return Result{}, fmt.Errorf("increment rate window: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit rate window: %w", err)
	}

	return Result{Allowed: true, Remaining: l.limit - int(count) - 1, Reset: reset}, nil
}

// StartPruneWorker runs a background goroutine that periodically removes
// expired windows so the counter table doesn't grow unbounded.
func StartPruneWorker(ctx context.Context, store *SQLiteStore, maxWindow time.Duration) {
	const interval = time.Hour
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Rate window prune worker started", "interval", interval, "max_window", maxWindow)

		for {
			select {
			case <-ticker.C:
				pruned, err := store.PruneExpired(ctx, maxWindow)
				if err != nil {
					slog.Error("Rate window prune failed", "error", err)
					continue
				}
				if pruned > 0 {
					slog.Info("Pruned expired rate windows", "count", pruned)
				}
			case <-ctx.Done():
				slog.Info("Rate window prune worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
