// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Store is the single shared mutable resource of the ledger.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger layer.
type Store interface {
	// WithTx runs fn as one atomic unit of work. If fn returns an error the
	// unit is rolled back and the error is returned unchanged; otherwise it
	// is committed. Concurrent units that write are serialized, and a unit
	// never observes another unit's partial writes.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx exposes entity operations inside a unit of work.
//
// Lookups of a single entity return an error wrapping models.ErrNotFound when
// it does not exist. Uniqueness violations wrap models.ErrConflict. A backend
// that cannot be reached, or that stays locked past its bound, wraps
// models.ErrUnavailable.
type Tx interface {
	UserTx
	EventTx
	SplitTx
	TransactionTx
}

// UserTx covers user records.
type UserTx interface {
	// CreateUser persists a new user. The user.ID field is populated by the store.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error

	// UserReferenced reports whether any event, split or transaction refers to the user.
	UserReferenced(ctx context.Context, userID string) (bool, error)
}

// EventTx covers event records. Events are returned with their splits loaded.
type EventTx interface {
	// CreateEvent persists a new event together with event.Splits.
	// Event and split IDs are populated by the store.
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEvents returns all events, newest first.
	ListEvents(ctx context.Context) ([]*models.Event, error)

	// ListEventsByCreator returns the events created by userID, newest first.
	ListEventsByCreator(ctx context.Context, userID string) ([]*models.Event, error)

	// CancelEvent sets the cancelled flag. It is a no-op on a cancelled event.
	CancelEvent(ctx context.Context, eventID string) error

	// DeleteEvent removes the event and all of its splits.
	// Transactions that reference the event are kept.
	DeleteEvent(ctx context.Context, eventID string) error
}

// SplitTx covers split (debitor) records.
type SplitTx interface {
	// CreateSplit persists a new split. Fails with ErrConflict when the
	// (event, user) pair already has one.
	CreateSplit(ctx context.Context, split *models.Split) error
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// UpdateSplit writes AmountPaid, Included and Settled.
	UpdateSplit(ctx context.Context, split *models.Split) error
	ListSplitsForEvent(ctx context.Context, eventID string) ([]models.Split, error)
	ListSplitsForUser(ctx context.Context, userID string) ([]models.Split, error)
}

// TransactionTx covers the append-only payment log.
type TransactionTx interface {
	// AppendTransaction records a payment. There is no update or delete.
	AppendTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransactionByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error)

	// ListTransactions returns the whole log, newest first.
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)

	// ListTransactionsForUser returns payments the user made or received, newest first.
	ListTransactionsForUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	ListTransactionsForEvent(ctx context.Context, eventID string) ([]*models.Transaction, error)
}
