package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// PayParams describes one payment against a split.
type PayParams struct {
	SplitID string
	PayerID string
	Amount  decimal.Decimal
	Note    string

	// IdempotencyKey makes the payment safe to retry. A second Pay with the
	// same key returns the first transaction instead of paying again.
	IdempotencyKey string
}

// Pay applies a payment to a split and records it in the transaction log.
//
// The split update and the transaction append commit together. Payments on a
// cancelled event are refused, and so is any payment that would take the
// split past its share. Only the split's debtor or the event creator may pay.
func (l *Ledger) Pay(ctx context.Context, p PayParams) (*models.Transaction, *models.Split, error) {
	amount := money.Round2(p.Amount)
	if !money.IsPositive(amount) {
		l.metrics.PaymentRejected()
		return nil, nil, fmt.Errorf("payment must be positive, got %s: %w", p.Amount, models.ErrInvalidAmount)
	}
	if p.SplitID == "" || p.PayerID == "" {
		l.metrics.PaymentRejected()
		return nil, nil, fmt.Errorf("split and payer are required: %w", models.ErrInvalidArgument)
	}

	var (
		txn      *models.Transaction
		split    *models.Split
		replayed bool
	)
	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		if p.IdempotencyKey != "" {
			prev, err := tx.GetTransactionByIdempotencyKey(ctx, p.IdempotencyKey)
			switch {
			case err == nil:
				if prev.SplitID != p.SplitID || prev.FromUser != p.PayerID || !prev.Amount.Equal(amount) {
					return fmt.Errorf("idempotency key %q was used for a different payment: %w",
						p.IdempotencyKey, models.ErrConflict)
				}
				txn = prev
				replayed = true
				split, err = tx.GetSplit(ctx, prev.SplitID)
				if errors.Is(err, models.ErrNotFound) {
					// The event was deleted after the original payment.
					return nil
				}
				return err
			case !errors.Is(err, models.ErrNotFound):
				return err
			}
		}

		var err error
		split, err = tx.GetSplit(ctx, p.SplitID)
		if err != nil {
			return err
		}
		event, err := eventOfSplit(ctx, tx, split)
		if err != nil {
			return err
		}
		if event.Cancelled {
			return fmt.Errorf("event %s is cancelled: %w", event.ID, models.ErrForbidden)
		}
		if p.PayerID != split.UserID && p.PayerID != event.CreatorID {
			return fmt.Errorf("user %s cannot pay split %s: %w", p.PayerID, split.ID, models.ErrForbidden)
		}

		newPaid := split.AmountPaid.Add(amount)
		if money.Exceeds(newPaid, split.DebAmount) {
			return fmt.Errorf("payment %s exceeds remaining %s: %w",
				money.String(amount), money.String(split.Remaining()), models.ErrInvalidAmount)
		}
		split.AmountPaid = money.Round2(newPaid)
		split.Refresh()
		if err := tx.UpdateSplit(ctx, split); err != nil {
			return err
		}

		txn = &models.Transaction{
			FromUser:       p.PayerID,
			ToUser:         event.CreatorID,
			Amount:         amount,
			EventID:        event.ID,
			SplitID:        split.ID,
			Note:           p.Note,
			IdempotencyKey: p.IdempotencyKey,
		}
		return tx.AppendTransaction(ctx, txn)
	})
	if err != nil {
		l.metrics.PaymentRejected()
		return nil, nil, err
	}

	if replayed {
		l.metrics.PaymentReplayed()
		slog.Info("Payment replayed", "transaction_id", txn.ID, "idempotency_key", p.IdempotencyKey)
		return txn, split, nil
	}

	l.metrics.PaymentApplied(amount)
	slog.Info("Payment applied",
		"transaction_id", txn.ID,
		"split_id", split.ID,
		"payer_id", p.PayerID,
		"amount", money.String(amount),
		"settled", split.Settled,
	)
	return txn, split, nil
}

// ListTransactions returns the whole payment log, newest first.
func (l *Ledger) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		txns, err = tx.ListTransactions(ctx)
		return err
	})
	return txns, err
}

// ListUserTransactions returns the payments a user made or received, newest first.
func (l *Ledger) ListUserTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		txns, err = tx.ListTransactionsForUser(ctx, userID)
		return err
	})
	return txns, err
}

// ListEventTransactions returns the payments recorded against an event,
// including events that have since been deleted.
func (l *Ledger) ListEventTransactions(ctx context.Context, eventID string) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		txns, err = tx.ListTransactionsForEvent(ctx, eventID)
		return err
	})
	return txns, err
}
