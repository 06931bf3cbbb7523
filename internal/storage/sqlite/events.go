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

const eventColumns = `id, title, total, creator_id, cancelled, created_at`

// CreateEvent persists a new event and its splits.
func (t *txStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	_, err := t.q.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Total, event.CreatorID, event.Cancelled, event.CreatedAt,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to insert event: %w", err))
	}

	for i := range event.Splits {
		split := &event.Splits[i]
		split.EventID = event.ID
		if err := t.CreateSplit(ctx, split); err != nil {
			return err
		}
	}

	return nil
}

// GetEvent retrieves an event by ID, including its splits.
func (t *txStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	row := t.q.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("event", eventID)
	}
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to get event: %w", err))
	}

	event.Splits, err = t.ListSplitsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents retrieves all events, newest first.
func (t *txStore) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return t.listEvents(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, rowid DESC`)
}

// ListEventsByCreator retrieves the events a user created, newest first.
func (t *txStore) ListEventsByCreator(ctx context.Context, userID string) ([]*models.Event, error) {
	return t.listEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE creator_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID)
}

// listEvents reads all event rows first and only then loads splits, so at
// most one result set is open on the transaction at a time.
func (t *txStore) listEvents(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list events: %w", err))
	}

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(fmt.Errorf("failed to iterate events: %w", err))
	}

	for _, event := range events {
		event.Splits, err = t.ListSplitsForEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

// CancelEvent marks an event as cancelled.
func (t *txStore) CancelEvent(ctx context.Context, eventID string) error {
	res, err := t.q.ExecContext(ctx, `UPDATE events SET cancelled = 1 WHERE id = ?`, eventID)
	if err != nil {
		return mapError(fmt.Errorf("failed to cancel event: %w", err))
	}
	return expectOneRow(res, "event", eventID)
}

// DeleteEvent removes an event. Its splits go with it through ON DELETE CASCADE.
func (t *txStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		return mapError(fmt.Errorf("failed to delete event: %w", err))
	}
	return expectOneRow(res, "event", eventID)
}

func scanEvent(row scanner) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Total,
		&event.CreatorID,
		&event.Cancelled,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}
