package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateEventParams describes a new shared expense.
type CreateEventParams struct {
	Title        string
	Total        decimal.Decimal
	CreatorID    string
	Participants []string
}

// ParticipantOptions overrides the defaults for a participant added after creation.
type ParticipantOptions struct {
	// Included defaults to true.
	Included *bool

	// DebAmount defaults to round2(total / (existing splits + 1)).
	DebAmount *decimal.Decimal
}

// CreateEvent validates p, allocates the total among the creator and the
// participants, and stores the event with its splits.
func (l *Ledger) CreateEvent(ctx context.Context, p CreateEventParams) (*models.Event, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrInvalidArgument)
	}

	shares, err := calculator.Allocate(p.Total, p.Participants, p.CreatorID)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:     title,
		Total:     money.Round2(p.Total),
		CreatorID: p.CreatorID,
		Splits:    make([]models.Split, len(shares)),
	}
	for i, share := range shares {
		event.Splits[i] = models.Split{
			UserID:     share.UserID,
			DebAmount:  share.DebAmount,
			AmountPaid: money.Zero,
			Included:   share.Included,
		}
		event.Splits[i].Refresh()
	}

	err = l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		for _, share := range shares {
			if _, err := tx.GetUser(ctx, share.UserID); err != nil {
				return err
			}
		}
		return tx.CreateEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	l.metrics.EventCreated()
	slog.Info("Event created",
		"event_id", event.ID,
		"creator_id", event.CreatorID,
		"total", money.String(event.Total),
		"splits", len(event.Splits),
	)
	return event, nil
}

// GetEvent returns an event with its splits.
func (l *Ledger) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event *models.Event
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		event, err = tx.GetEvent(ctx, eventID)
		return err
	})
	return event, err
}

// ListEvents returns every event, newest first.
func (l *Ledger) ListEvents(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		events, err = tx.ListEvents(ctx)
		return err
	})
	return events, err
}

// ListEventsForUser returns the events a user created or takes part in, newest first.
func (l *Ledger) ListEventsForUser(ctx context.Context, userID string) ([]*models.Event, error) {
	var events []*models.Event
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		created, err := tx.ListEventsByCreator(ctx, userID)
		if err != nil {
			return err
		}
		splits, err := tx.ListSplitsForUser(ctx, userID)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(created))
		events = created
		for _, e := range created {
			seen[e.ID] = true
		}
		for _, s := range splits {
			if seen[s.EventID] {
				continue
			}
			event, err := tx.GetEvent(ctx, s.EventID)
			if err != nil {
				return err
			}
			seen[s.EventID] = true
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt > events[j].CreatedAt
	})
	return events, nil
}

// CancelEvent marks an event cancelled. Only the creator may cancel, and
// cancelling twice is a no-op.
func (l *Ledger) CancelEvent(ctx context.Context, eventID, callerID string) (*models.Event, error) {
	var event *models.Event
	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		event, err = tx.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.CreatorID != callerID {
			return fmt.Errorf("only the creator can cancel event %s: %w", eventID, models.ErrForbidden)
		}
		if event.Cancelled {
			return nil
		}
		if err := tx.CancelEvent(ctx, eventID); err != nil {
			return err
		}
		event.Cancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Event cancelled", "event_id", eventID)
	return event, nil
}

// DeleteEvent removes an event and its splits. Recorded transactions are kept.
func (l *Ledger) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		event, err := tx.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.CreatorID != callerID {
			return fmt.Errorf("only the creator can delete event %s: %w", eventID, models.ErrForbidden)
		}
		return tx.DeleteEvent(ctx, eventID)
	})
	if err != nil {
		return err
	}

	slog.Info("Event deleted", "event_id", eventID)
	return nil
}

// AddParticipant gives userID a new split on an active event. Existing splits
// are not rebalanced.
func (l *Ledger) AddParticipant(ctx context.Context, eventID, userID, callerID string, opts ParticipantOptions) (*models.Split, error) {
	if opts.DebAmount != nil && opts.DebAmount.IsNegative() {
		return nil, fmt.Errorf("amount %s must not be negative: %w", opts.DebAmount, models.ErrInvalidAmount)
	}

	var split *models.Split
	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		event, err := tx.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.CreatorID != callerID {
			return fmt.Errorf("only the creator can add participants to event %s: %w", eventID, models.ErrForbidden)
		}
		if event.Cancelled {
			return fmt.Errorf("event %s is cancelled: %w", eventID, models.ErrForbidden)
		}
		if _, ok := event.SplitFor(userID); ok {
			return fmt.Errorf("user %s already takes part in event %s: %w", userID, eventID, models.ErrConflict)
		}
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}

		split = &models.Split{
			EventID:    eventID,
			UserID:     userID,
			DebAmount:  calculator.ShareForNewParticipant(event.Total, len(event.Splits)),
			AmountPaid: money.Zero,
			Included:   true,
		}
		if opts.DebAmount != nil {
			split.DebAmount = money.Round2(*opts.DebAmount)
		}
		if opts.Included != nil {
			split.Included = *opts.Included
		}
		split.Refresh()
		return tx.CreateSplit(ctx, split)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Participant added",
		"event_id", eventID,
		"user_id", userID,
		"deb_amount", money.String(split.DebAmount),
	)
	return split, nil
}

// SetIncluded toggles whether a split counts toward its debtor's totals.
// Only the event creator may change it, and not after cancellation.
func (l *Ledger) SetIncluded(ctx context.Context, splitID string, included bool, callerID string) (*models.Split, error) {
	var split *models.Split
	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		split, err = tx.GetSplit(ctx, splitID)
		if err != nil {
			return err
		}
		event, err := eventOfSplit(ctx, tx, split)
		if err != nil {
			return err
		}
		if event.CreatorID != callerID {
			return fmt.Errorf("only the creator can change split %s: %w", splitID, models.ErrForbidden)
		}
		if event.Cancelled {
			return fmt.Errorf("event %s is cancelled: %w", event.ID, models.ErrForbidden)
		}
		split.Included = included
		split.Refresh()
		return tx.UpdateSplit(ctx, split)
	})
	if err != nil {
		return nil, err
	}
	return split, nil
}

// eventOfSplit loads the event a split belongs to. A split always has an
// event, so a missing one is reported against the split.
func eventOfSplit(ctx context.Context, tx storage.Tx, split *models.Split) (*models.Event, error) {
	event, err := tx.GetEvent(ctx, split.EventID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("event of split %s: %w", split.ID, models.ErrNotFound)
	}
	return event, err
}
