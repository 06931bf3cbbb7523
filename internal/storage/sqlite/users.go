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

const userColumns = `id, username, email, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (t *txStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.UpdatedAt == 0 {
		user.UpdatedAt = user.CreatedAt
	}

	_, err := t.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// GetUser retrieves a user by their ID.
func (t *txStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	row := t.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", userID)
	}
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to get user by ID: %w", err))
	}
	return user, nil
}

// GetUserByUsername retrieves a user by their username.
func (t *txStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := t.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", username)
	}
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to get user by username: %w", err))
	}
	return user, nil
}

// ListUsers retrieves all users ordered by username.
func (t *txStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := t.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list users: %w", err))
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(fmt.Errorf("error iterating users: %w", err))
	}
	return users, nil
}

// UpdateUser writes the username and email of an existing user.
func (t *txStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().Unix()
	res, err := t.q.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`,
		user.Username, user.Email, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to update user: %w", err))
	}
	return expectOneRow(res, "user", user.ID)
}

// DeleteUser removes a user by ID.
func (t *txStore) DeleteUser(ctx context.Context, userID string) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return mapError(fmt.Errorf("failed to delete user: %w", err))
	}
	return expectOneRow(res, "user", userID)
}

// UserReferenced reports whether any event, split or transaction refers to the user.
func (t *txStore) UserReferenced(ctx context.Context, userID string) (bool, error) {
	var referenced bool
	err := t.q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM events WHERE creator_id = ?)
		    OR EXISTS (SELECT 1 FROM splits WHERE user_id = ?)
		    OR EXISTS (SELECT 1 FROM transactions WHERE from_user = ? OR to_user = ?)`,
		userID, userID, userID, userID,
	).Scan(&referenced)
	if err != nil {
		return false, mapError(fmt.Errorf("failed to check user references: %w", err))
	}
	return referenced, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// expectOneRow turns a zero-row update or delete into a not-found error.
func expectOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
