package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const splitColumns = `id, event_id, user_id, deb_amount, amount_paid, included, settled`

// CreateSplit inserts a split. The (event_id, user_id) pair is unique.
func (t *txStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	split.Refresh()

	_, err := t.q.ExecContext(ctx,
		`INSERT INTO splits (`+splitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		split.ID, split.EventID, split.UserID, split.DebAmount, split.AmountPaid,
		split.Included, split.Settled,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to insert split: %w", err))
	}
	return nil
}

// GetSplit retrieves a split by ID.
func (t *txStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	row := t.q.QueryRowContext(ctx,
		`SELECT `+splitColumns+` FROM splits WHERE id = ?`, splitID)
	split, err := scanSplit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("split", splitID)
	}
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to get split: %w", err))
	}
	return &split, nil
}

// UpdateSplit writes the mutable payment state of a split.
// Settled is recomputed from the amounts before writing.
func (t *txStore) UpdateSplit(ctx context.Context, split *models.Split) error {
	split.Refresh()
	res, err := t.q.ExecContext(ctx,
		`UPDATE splits SET amount_paid = ?, included = ?, settled = ? WHERE id = ?`,
		split.AmountPaid, split.Included, split.Settled, split.ID,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to update split: %w", err))
	}
	return expectOneRow(res, "split", split.ID)
}

// ListSplitsForEvent retrieves an event's splits in creation order.
func (t *txStore) ListSplitsForEvent(ctx context.Context, eventID string) ([]models.Split, error) {
	return t.listSplits(ctx,
		`SELECT `+splitColumns+` FROM splits WHERE event_id = ? ORDER BY rowid`, eventID)
}

// ListSplitsForUser retrieves every split assigned to a user.
func (t *txStore) ListSplitsForUser(ctx context.Context, userID string) ([]models.Split, error) {
	return t.listSplits(ctx,
		`SELECT `+splitColumns+` FROM splits WHERE user_id = ? ORDER BY rowid`, userID)
}

func (t *txStore) listSplits(ctx context.Context, query string, args ...any) ([]models.Split, error) {
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list splits: %w", err))
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(fmt.Errorf("failed to iterate splits: %w", err))
	}
	return splits, nil
}

func scanSplit(row scanner) (models.Split, error) {
	var split models.Split
	err := row.Scan(
		&split.ID,
		&split.EventID,
		&split.UserID,
		&split.DebAmount,
		&split.AmountPaid,
		&split.Included,
		&split.Settled,
	)
	return split, err
}
