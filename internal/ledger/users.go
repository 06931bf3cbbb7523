package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// UserUpdate holds the profile fields to change. Nil fields are left as they are.
type UserUpdate struct {
	Username *string
	Email    *string
}

// CreateUser registers a user. Username and email must be non-empty and unique.
func (l *Ledger) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	user := models.NewUser(username, email)
	if err := validateUser(user); err != nil {
		return nil, err
	}

	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("User created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// GetUser returns a user by ID.
func (l *Ledger) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		user, err = tx.GetUser(ctx, userID)
		return err
	})
	return user, err
}

// FindUserByUsername returns the user with exactly that username.
func (l *Ledger) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", models.ErrInvalidArgument)
	}

	var user *models.User
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		user, err = tx.GetUserByUsername(ctx, username)
		return err
	})
	return user, err
}

// ListUsers returns every registered user.
func (l *Ledger) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		users, err = tx.ListUsers(ctx)
		return err
	})
	return users, err
}

// UpdateUser edits a user's own profile.
func (l *Ledger) UpdateUser(ctx context.Context, userID, callerID string, upd UserUpdate) (*models.User, error) {
	if userID != callerID {
		return nil, fmt.Errorf("user %s cannot edit user %s: %w", callerID, userID, models.ErrForbidden)
	}

	var user *models.User
	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		user, err = tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if upd.Username != nil {
			user.Username = strings.TrimSpace(*upd.Username)
		}
		if upd.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
		}
		if err := validateUser(user); err != nil {
			return err
		}
		return tx.UpdateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the caller's own account. A user still referenced by an
// event, split or transaction cannot be deleted.
func (l *Ledger) DeleteUser(ctx context.Context, userID, callerID string) error {
	if userID != callerID {
		return fmt.Errorf("user %s cannot delete user %s: %w", callerID, userID, models.ErrForbidden)
	}

	err := l.write(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		referenced, err := tx.UserReferenced(ctx, userID)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("user %s still has events, splits or payments: %w", userID, models.ErrConflict)
		}
		return tx.DeleteUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	slog.Info("User deleted", "user_id", userID)
	return nil
}

// ListSplitsForUser returns every split assigned to a user.
func (l *Ledger) ListSplitsForUser(ctx context.Context, userID string) ([]models.Split, error) {
	var splits []models.Split
	err := l.read(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		splits, err = tx.ListSplitsForUser(ctx, userID)
		return err
	})
	return splits, err
}

func validateUser(user *models.User) error {
	if user.Username == "" {
		return fmt.Errorf("username is required: %w", models.ErrInvalidArgument)
	}
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return fmt.Errorf("a valid email is required: %w", models.ErrInvalidArgument)
	}
	return nil
}
