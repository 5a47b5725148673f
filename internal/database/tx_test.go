package database

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func depositParams(accountId string, amount int64) store.InsertEntryParams {
	return store.InsertEntryParams{
		Id:        ulid.Make().String(),
		PayerId:   accountId,
		PayeeId:   accountId,
		Amount:    amount,
		Kind:      models.EntryKindDeposit,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestWithinTx_Commit(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	accountId := createTestAccount(t, service, "commit@example.com", "20000000001")

	var entryId string
	err := service.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		entry, err := tx.InsertEntry(ctx, depositParams(accountId, 250))
		if err != nil {
			return err
		}
		entryId = entry.Id

		balance, err := tx.AddToBalance(ctx, accountId, 250)
		if err != nil {
			return err
		}
		if balance != 250 {
			t.Errorf("Expected returned balance 250, got %d", balance)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}

	account, err := service.GetAccount(ctx, accountId)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if account.Balance != 250 {
		t.Errorf("Expected balance 250, got %d", account.Balance)
	}

	entry, err := service.GetEntry(ctx, entryId)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Kind != models.EntryKindDeposit || entry.PayerId != entry.PayeeId {
		t.Errorf("Unexpected deposit entry: %+v", entry)
	}
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	accountId := createTestAccount(t, service, "rollback@example.com", "20000000002")
	abort := errors.New("abort")

	err := service.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.InsertEntry(ctx, depositParams(accountId, 100)); err != nil {
			return err
		}
		if _, err := tx.AddToBalance(ctx, accountId, 100); err != nil {
			return err
		}
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("Expected abort error, got %v", err)
	}

	account, err := service.GetAccount(ctx, accountId)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if account.Balance != 0 {
		t.Errorf("Expected balance 0 after rollback, got %d", account.Balance)
	}

	count, err := service.CountEntries(ctx)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 entries after rollback, got %d", count)
	}
}

func TestAddToBalance_NegativeBalanceRejected(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	accountId := createTestAccount(t, service, "negative@example.com", "20000000003")

	err := service.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.AddToBalance(ctx, accountId, -1)
		return err
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
}

func TestAddToBalance_OverflowRejected(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	accountId := createTestAccount(t, service, "overflow@example.com", "20000000004")

	err := service.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.AddToBalance(ctx, accountId, 10)
		return err
	})
	if err != nil {
		t.Fatalf("Initial credit failed: %v", err)
	}

	err = service.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.AddToBalance(ctx, accountId, math.MaxInt64)
		return err
	})
	if !errors.Is(err, store.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}

	account, err := service.GetAccount(ctx, accountId)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if account.Balance != 10 {
		t.Errorf("Expected balance 10 after rollback, got %d", account.Balance)
	}
}

func TestAddToBalance_UnknownAccount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	err := service.WithinTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := tx.AddToBalance(ctx, uuid.New().String(), 10)
		return err
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInsertEntry_UnknownAccount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	err := service.WithinTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := tx.InsertEntry(ctx, depositParams(uuid.New().String(), 10))
		return err
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for dangling entry, got %v", err)
	}
}

func TestGetAccountForUpdate_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	err := service.WithinTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := tx.GetAccountForUpdate(ctx, uuid.New().String())
		return err
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestWithinTx_BusyIsTransient(t *testing.T) {
	cfg := testConfig(t)
	cfg.BusyTimeout = 50 * time.Millisecond

	service, cleanup := setupTestDbWithConfig(t, cfg)
	defer cleanup()

	ctx := context.Background()

	// The outer unit of work holds the write lock while a second one tries to start
	err := service.WithinTx(ctx, func(ctx context.Context, _ store.Tx) error {
		inner := service.WithinTx(ctx, func(context.Context, store.Tx) error { return nil })
		if !errors.Is(inner, store.ErrTransient) {
			t.Errorf("Expected ErrTransient while the write lock is held, got %v", inner)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Outer WithinTx failed: %v", err)
	}
}

func TestListEntriesByAccount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestAccount(t, service, "alice@example.com", "30000000001")
	bob := createTestAccount(t, service, "bob@example.com", "30000000002")

	err := service.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.InsertEntry(ctx, depositParams(alice, 500)); err != nil {
			return err
		}
		if _, err := tx.AddToBalance(ctx, alice, 500); err != nil {
			return err
		}
		if _, err := tx.AddToBalance(ctx, alice, -200); err != nil {
			return err
		}
		if _, err := tx.AddToBalance(ctx, bob, 200); err != nil {
			return err
		}
		_, err := tx.InsertEntry(ctx, store.InsertEntryParams{
			Id:        ulid.Make().String(),
			PayerId:   alice,
			PayeeId:   bob,
			Amount:    200,
			Kind:      models.EntryKindTransfer,
			CreatedAt: time.Now().UTC().Add(time.Millisecond).Truncate(time.Microsecond),
		})
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}

	entries, err := service.ListEntriesByAccount(ctx, alice, 10, 0)
	if err != nil {
		t.Fatalf("ListEntriesByAccount failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries for alice, got %d", len(entries))
	}
	if entries[0].Kind != models.EntryKindTransfer {
		t.Errorf("Expected newest entry first, got %s", entries[0].Kind)
	}

	entries, err = service.ListEntriesByAccount(ctx, bob, 10, 0)
	if err != nil {
		t.Fatalf("ListEntriesByAccount failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry for bob, got %d", len(entries))
	}

	entries, err = service.ListEntriesByAccount(ctx, alice, 10, 1)
	if err != nil {
		t.Fatalf("ListEntriesByAccount failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != models.EntryKindDeposit {
		t.Errorf("Expected the deposit at offset 1, got %+v", entries)
	}

	for _, id := range []string{alice, bob} {
		r, err := service.Reconcile(ctx, id)
		if err != nil {
			t.Fatalf("Reconcile failed: %v", err)
		}
		if !r.Balanced() {
			t.Errorf("Expected %s to reconcile, stored=%d computed=%d", id, r.StoredBalance, r.ComputedBalance())
		}
	}
}

func TestReconcile_Mismatch(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	accountId := createTestAccount(t, service, "drift@example.com", "40000000001")

	// A balance change without an entry breaks the invariant
	err := service.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.AddToBalance(ctx, accountId, 75)
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}

	r, err := service.Reconcile(ctx, accountId)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if r.Balanced() {
		t.Error("Expected reconciliation mismatch")
	}
	if r.StoredBalance != 75 || r.ComputedBalance() != 0 {
		t.Errorf("Expected stored 75 and computed 0, got %d and %d", r.StoredBalance, r.ComputedBalance())
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetEntry(context.Background(), ulid.Make().String())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
