package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Balances recomputes a user's position from the store. Both sides are read
// in the same unit of work so a concurrent payment is seen entirely or not at all.
func (l *Ledger) Balances(ctx context.Context, userID string) (models.Balances, error) {
	var (
		splits  []models.Split
		created []*models.Event
	)
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		var err error
		if splits, err = tx.ListSplitsForUser(ctx, userID); err != nil {
			return err
		}
		created, err = tx.ListEventsByCreator(ctx, userID)
		return err
	})
	if err != nil {
		return models.Balances{}, err
	}
	return calculator.ComputeBalances(userID, splits, created), nil
}
