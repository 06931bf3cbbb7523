package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath, WithBusyTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// run executes fn in its own unit of work and fails the test on error.
func run(t *testing.T, store *SQLiteStore, fn func(tx storage.Tx) error) {
	t.Helper()
	if err := store.WithTx(context.Background(), fn); err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}
}

func createUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com")
	run(t, store, func(tx storage.Tx) error {
		return tx.CreateUser(context.Background(), user)
	})
	return user
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	t.Run("CreateUser rejects duplicate username", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx storage.Tx) error {
			return tx.CreateUser(ctx, models.NewUser("alice", "other@example.com"))
		})
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("GetUserByUsername finds user", func(t *testing.T) {
		run(t, store, func(tx storage.Tx) error {
			got, err := tx.GetUserByUsername(ctx, "bob")
			if err != nil {
				return err
			}
			if got.ID != bob.ID {
				t.Errorf("ID mismatch: got %s, want %s", got.ID, bob.ID)
			}
			return nil
		})
	})

	t.Run("CreateEvent persists event with splits", func(t *testing.T) {
		event := &models.Event{
			Title:     "Dinner",
			Total:     money.MustParse("100"),
			CreatorID: alice.ID,
			Splits: []models.Split{
				{UserID: alice.ID, DebAmount: money.MustParse("50"), Included: true},
				{UserID: bob.ID, DebAmount: money.MustParse("50"), Included: true},
			},
		}
		run(t, store, func(tx storage.Tx) error {
			return tx.CreateEvent(ctx, event)
		})

		if event.ID == "" {
			t.Fatal("Expected event ID to be generated")
		}
		if event.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		run(t, store, func(tx storage.Tx) error {
			got, err := tx.GetEvent(ctx, event.ID)
			if err != nil {
				return err
			}
			if got.Title != "Dinner" {
				t.Errorf("Title mismatch: got %s", got.Title)
			}
			if !got.Total.Equal(money.MustParse("100")) {
				t.Errorf("Total mismatch: got %s", got.Total)
			}
			if len(got.Splits) != 2 {
				t.Fatalf("Splits count mismatch: got %d, want 2", len(got.Splits))
			}
			if got.Splits[0].UserID != alice.ID {
				t.Errorf("expected creator split first, got %s", got.Splits[0].UserID)
			}
			for _, s := range got.Splits {
				if s.EventID != event.ID {
					t.Errorf("split %s has event %s", s.ID, s.EventID)
				}
				if !s.Included || s.Settled {
					t.Errorf("unexpected flags on split %s: included=%v settled=%v", s.ID, s.Included, s.Settled)
				}
			}
			return nil
		})
	})

	t.Run("GetEvent returns ErrNotFound for nonexistent event", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx storage.Tx) error {
			_, err := tx.GetEvent(ctx, "nonexistent-id")
			return err
		})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDuplicateSplitConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice")

	event := &models.Event{Title: "Taxi", Total: money.MustParse("20"), CreatorID: alice.ID,
		Splits: []models.Split{{UserID: alice.ID, DebAmount: money.MustParse("20"), Included: true}}}
	run(t, store, func(tx storage.Tx) error { return tx.CreateEvent(ctx, event) })

	err := store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.CreateSplit(ctx, &models.Split{EventID: event.ID, UserID: alice.ID, DebAmount: money.MustParse("1")})
	})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateSplitRecomputesSettled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice")

	event := &models.Event{Title: "Groceries", Total: money.MustParse("10"), CreatorID: alice.ID,
		Splits: []models.Split{{UserID: alice.ID, DebAmount: money.MustParse("10"), Included: true}}}
	run(t, store, func(tx storage.Tx) error { return tx.CreateEvent(ctx, event) })

	split := event.Splits[0]
	split.AmountPaid = money.MustParse("10")
	split.Settled = false
	run(t, store, func(tx storage.Tx) error { return tx.UpdateSplit(ctx, &split) })

	run(t, store, func(tx storage.Tx) error {
		got, err := tx.GetSplit(ctx, split.ID)
		if err != nil {
			return err
		}
		if !got.Settled {
			t.Error("expected split to be settled")
		}
		if !got.AmountPaid.Equal(money.MustParse("10")) {
			t.Errorf("AmountPaid mismatch: got %s", got.AmountPaid)
		}
		return nil
	})
}

func TestDeleteEventKeepsTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	event := &models.Event{Title: "Concert", Total: money.MustParse("60"), CreatorID: alice.ID,
		Splits: []models.Split{
			{UserID: alice.ID, DebAmount: money.MustParse("30"), Included: true},
			{UserID: bob.ID, DebAmount: money.MustParse("30"), Included: true},
		}}
	run(t, store, func(tx storage.Tx) error { return tx.CreateEvent(ctx, event) })

	txn := &models.Transaction{
		FromUser: bob.ID,
		ToUser:   alice.ID,
		Amount:   money.MustParse("30"),
		EventID:  event.ID,
		SplitID:  event.Splits[1].ID,
		Note:     "tickets",
	}
	run(t, store, func(tx storage.Tx) error { return tx.AppendTransaction(ctx, txn) })
	run(t, store, func(tx storage.Tx) error { return tx.DeleteEvent(ctx, event.ID) })

	run(t, store, func(tx storage.Tx) error {
		splits, err := tx.ListSplitsForEvent(ctx, event.ID)
		if err != nil {
			return err
		}
		if len(splits) != 0 {
			t.Errorf("expected splits to cascade, got %d", len(splits))
		}

		txns, err := tx.ListTransactionsForEvent(ctx, event.ID)
		if err != nil {
			return err
		}
		if len(txns) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(txns))
		}
		if txns[0].Note != "tickets" || txns[0].IdempotencyKey != "" {
			t.Errorf("unexpected optional fields: note=%q key=%q", txns[0].Note, txns[0].IdempotencyKey)
		}
		return nil
	})
}

func TestIdempotencyKeyIsUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Transaction{FromUser: "a", ToUser: "b", Amount: money.MustParse("1"),
		EventID: "e", SplitID: "s", IdempotencyKey: "key-1"}
	run(t, store, func(tx storage.Tx) error { return tx.AppendTransaction(ctx, first) })

	err := store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.AppendTransaction(ctx, &models.Transaction{FromUser: "a", ToUser: "b",
			Amount: money.MustParse("1"), EventID: "e", SplitID: "s", IdempotencyKey: "key-1"})
	})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	run(t, store, func(tx storage.Tx) error {
		got, err := tx.GetTransactionByIdempotencyKey(ctx, "key-1")
		if err != nil {
			return err
		}
		if got.ID != first.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, first.ID)
		}
		return nil
	})
}

func TestUserReferenced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	carol := createUser(t, store, "carol")

	event := &models.Event{Title: "Lunch", Total: money.MustParse("12"), CreatorID: alice.ID,
		Splits: []models.Split{{UserID: alice.ID, DebAmount: money.MustParse("12"), Included: true}}}
	run(t, store, func(tx storage.Tx) error { return tx.CreateEvent(ctx, event) })

	run(t, store, func(tx storage.Tx) error {
		referenced, err := tx.UserReferenced(ctx, alice.ID)
		if err != nil {
			return err
		}
		if !referenced {
			t.Error("expected alice to be referenced")
		}

		referenced, err = tx.UserReferenced(ctx, carol.ID)
		if err != nil {
			return err
		}
		if referenced {
			t.Error("expected carol to be unreferenced")
		}
		return tx.DeleteUser(ctx, carol.ID)
	})
}

func TestRollbackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateUser(ctx, models.NewUser("dave", "dave@example.com")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	run(t, store, func(tx storage.Tx) error {
		_, err := tx.GetUserByUsername(ctx, "dave")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected rolled back user to be absent, got %v", err)
		}
		return nil
	})
}

func TestExpiredContextIsUnavailable(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.WithTx(ctx, func(tx storage.Tx) error { return nil })
	if !errors.Is(err, models.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
