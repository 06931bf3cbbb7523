// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// Ensure txStore implements storage.Tx
var _ storage.Tx = (*txStore)(nil)

const defaultBusyTimeout = 5 * time.Second

// SQLiteStore implements storage.Store using SQLite.
//
// SQLite allows a single writer, so the pool is capped at one connection and
// every unit of work starts with BEGIN IMMEDIATE. Units queue on the pool;
// a caller whose context expires while queued gets models.ErrUnavailable.
type SQLiteStore struct {
	db *sql.DB
}

// Option configures a SQLiteStore.
type Option func(*options)

type options struct {
	busyTimeout time.Duration
}

// WithBusyTimeout bounds how long SQLite waits on a locked database file.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := options{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath, o.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), o.busyTimeout)
	defer cancel()

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// dsn builds a modernc connection string. Pragmas are applied on every new
// connection, so foreign keys stay on even if the pool reconnects.
func dsn(path string, busyTimeout time.Duration) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		fmt.Sprintf("_pragma=busy_timeout(%d)", busyTimeout.Milliseconds()),
		"_pragma=journal_mode(WAL)",
		"_txlock=immediate",
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return mapError(fmt.Errorf("failed to ping database: %w", err))
	}
	return nil
}

// WithTx runs fn inside a single SQLite transaction.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(&txStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// querier is the subset of *sql.Tx the entity operations need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txStore implements storage.Tx on top of an open transaction.
type txStore struct {
	q querier
}

// mapError translates driver and context errors into the models taxonomy.
// The original error stays in the chain for logging.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", models.ErrUnavailable, err)
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", models.ErrUnavailable, err)
		case sqlite3.SQLITE_CONSTRAINT:
			msg := sqliteErr.Error()
			if strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "FOREIGN KEY") {
				return fmt.Errorf("%w: %w", models.ErrConflict, err)
			}
		}
	}
	return err
}

// notFound wraps models.ErrNotFound with the entity kind and ID.
func notFound(kind, id string) error {
	return fmt.Errorf("%s not found: %s: %w", kind, id, models.ErrNotFound)
}
