// Package ledger is the expense-splitting engine. It owns every business rule
// over events, splits, payments and balances, and runs each operation as one
// bounded unit of work against a storage.Store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const (
	defaultOpTimeout   = 5 * time.Second
	defaultReadRetries = 3
)

// Ledger coordinates the store, the split allocator and the balance calculator.
// It holds no Event or Split state between calls.
type Ledger struct {
	store       storage.Store
	metrics     *metrics.Metrics
	opTimeout   time.Duration
	readRetries uint64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMetrics records payment and retry counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// WithOpTimeout bounds every operation. Zero disables the bound.
func WithOpTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.opTimeout = d
	}
}

// WithReadRetries sets how many times a read is retried while the store is unavailable.
func WithReadRetries(n uint64) Option {
	return func(l *Ledger) {
		l.readRetries = n
	}
}

// New creates a Ledger over store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:       store,
		opTimeout:   defaultOpTimeout,
		readRetries: defaultReadRetries,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.opTimeout)
}

// write runs fn once as a single unit of work. Mutations are never retried.
func (l *Ledger) write(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	err := l.store.WithTx(ctx, func(tx storage.Tx) error {
		return fn(ctx, tx)
	})
	return unavailable(err)
}

// read runs fn as a single unit of work, retrying with exponential backoff
// while the store reports ErrUnavailable and the operation deadline allows.
func (l *Ledger) read(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	attempt := func() error {
		err := l.store.WithTx(ctx, func(tx storage.Tx) error {
			return fn(ctx, tx)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, models.ErrUnavailable) && ctx.Err() == nil {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		l.metrics.StoreRetry()
		slog.Warn("Store unavailable, retrying read", "error", err, "wait", wait)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newBackOff(), l.readRetries),
		ctx,
	)
	return unavailable(backoff.RetryNotify(attempt, policy, notify))
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return b
}

// unavailable reports a context expiry that escaped the store as ErrUnavailable.
func unavailable(err error) error {
	if err == nil || errors.Is(err, models.ErrUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", models.ErrUnavailable, err)
	}
	return err
}
