package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-core-go/internal/models"
)

// Sentinel errors shared across all backend implementations and the engine.
var (
	ErrValidation             = errors.New("validation error")
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidTransaction     = fmt.Errorf("%w: invalid transaction", ErrValidation)
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("account already exists")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrTransient              = errors.New("transient store failure")
	ErrReconciliationMismatch = errors.New("balance does not match entry log")
)

// CreateAccountParams contains the parameters for inserting an account.
type CreateAccountParams struct {
	Id         string
	Name       string
	Contact    string
	NationalId string
}

// InsertEntryParams contains the parameters for appending a ledger entry.
// Id and CreatedAt are assigned by the caller so every backend writes the same shape.
type InsertEntryParams struct {
	Id        string
	PayerId   string
	PayeeId   string
	Amount    int64
	Kind      models.EntryKind
	CreatedAt time.Time
}

// Tx is one atomic unit of work. Every operation issued through it commits or
// aborts together. Locks taken by GetAccountForUpdate are held until the unit
// of work ends.
type Tx interface {
	// GetAccount is a point read. Returns ErrNotFound when absent.
	GetAccount(ctx context.Context, accountId string) (*models.Account, error)
	// GetAccountForUpdate is a point read that takes an exclusive row lock,
	// blocking while another unit of work holds it. Returns ErrNotFound when absent.
	GetAccountForUpdate(ctx context.Context, accountId string) (*models.Account, error)
	// AddToBalance applies balance = balance + delta inside the store and
	// returns the resulting balance.
	AddToBalance(ctx context.Context, accountId string, delta int64) (int64, error)
	// InsertEntry appends an immutable entry and returns the written record.
	InsertEntry(ctx context.Context, params InsertEntryParams) (*models.Entry, error)
}

// TxFunc is the body of a unit of work. Returning an error aborts it.
type TxFunc func(ctx context.Context, tx Tx) error

// LedgerStore defines the contract that every backend (SQLite, PostgreSQL) must satisfy.
type LedgerStore interface {
	// WithinTx runs fn in a single unit of work, committing when fn returns nil.
	WithinTx(ctx context.Context, fn TxFunc) error

	// --- Accounts ---
	CreateAccount(ctx context.Context, params CreateAccountParams) (*models.Account, error)
	GetAccount(ctx context.Context, accountId string) (*models.Account, error)
	FindAccountByContactOrNationalId(ctx context.Context, contact, nationalId string) (*models.Account, error)
	GetAccountByContact(ctx context.Context, contact string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// --- Entries ---
	GetEntry(ctx context.Context, entryId string) (*models.Entry, error)
	ListEntriesByAccount(ctx context.Context, accountId string, limit, offset int) ([]models.Entry, error)
	CountEntries(ctx context.Context) (int64, error)
	Reconcile(ctx context.Context, accountId string) (*models.Reconciliation, error)

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}
