package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const transactionColumns = `id, created_at, from_user, to_user, amount, event_id, split_id, note, idempotency_key`

// AppendTransaction persists a new payment record.
func (t *txStore) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	// Generate ID if not set
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	_, err := t.q.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.CreatedAt, txn.FromUser, txn.ToUser, txn.Amount,
		txn.EventID, txn.SplitID, nullString(txn.Note), nullString(txn.IdempotencyKey),
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to insert transaction: %w", err))
	}
	return nil
}

// GetTransactionByIdempotencyKey retrieves the payment recorded under key.
func (t *txStore) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error) {
	row := t.q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE idempotency_key = ?`, key)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction with idempotency key", key)
	}
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to get transaction: %w", err))
	}
	return txn, nil
}

// ListTransactions retrieves the full payment log, newest first.
func (t *txStore) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return t.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY created_at DESC, rowid DESC`)
}

// ListTransactionsForUser retrieves payments a user made or received.
func (t *txStore) ListTransactionsForUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return t.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE from_user = ? OR to_user = ? ORDER BY created_at DESC, rowid DESC`,
		userID, userID)
}

// ListTransactionsForEvent retrieves all payments recorded against an event.
func (t *txStore) ListTransactionsForEvent(ctx context.Context, eventID string) ([]*models.Transaction, error) {
	return t.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE event_id = ? ORDER BY created_at DESC, rowid DESC`,
		eventID)
}

func (t *txStore) listTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list transactions: %w", err))
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(fmt.Errorf("failed to iterate transactions: %w", err))
	}
	return txns, nil
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var note, key sql.NullString
	err := row.Scan(
		&txn.ID,
		&txn.CreatedAt,
		&txn.FromUser,
		&txn.ToUser,
		&txn.Amount,
		&txn.EventID,
		&txn.SplitID,
		&note,
		&key,
	)
	if err != nil {
		return nil, err
	}
	txn.Note = note.String
	txn.IdempotencyKey = key.String
	return txn, nil
}

// nullString stores empty strings as NULL so optional unique columns stay unconstrained.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
