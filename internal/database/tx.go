package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"go.uber.org/zap"
)

// unitOfWork adapts *sql.Tx to store.Tx.
type unitOfWork struct {
	tx *sql.Tx
}

// WithinTx runs fn inside one BEGIN IMMEDIATE transaction. The transaction is
// committed only when fn returns nil and rolled back on every other path.
func (s *Service) WithinTx(ctx context.Context, fn store.TxFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classifyError(ctx, err))
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back transaction", zap.Error(err))
		}
	}()

	if err := fn(ctx, &unitOfWork{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classifyError(ctx, err))
	}
	return nil
}

func (u *unitOfWork) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	account, err := scanAccount(u.tx.QueryRowContext(ctx, queryGetAccountById, accountId))
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	return account, nil
}

// GetAccountForUpdate reads the row inside the already write-locked
// transaction. SQLite has no row locks; BEGIN IMMEDIATE holds the database
// write lock for the whole unit of work, which is at least as strong.
func (u *unitOfWork) GetAccountForUpdate(ctx context.Context, accountId string) (*models.Account, error) {
	return u.GetAccount(ctx, accountId)
}

func (u *unitOfWork) AddToBalance(ctx context.Context, accountId string, delta int64) (int64, error) {
	// SQLite turns an overflowing integer sum into REAL instead of failing
	var balance any
	err := u.tx.QueryRowContext(ctx, queryAddToBalance, delta, accountId).Scan(&balance)
	if err != nil {
		return 0, classifyError(ctx, err)
	}

	switch b := balance.(type) {
	case int64:
		return b, nil
	case float64:
		return 0, fmt.Errorf("%w: balance of account %s would overflow", store.ErrInvalidAmount, accountId)
	default:
		return 0, fmt.Errorf("unexpected balance type %T for account %s", balance, accountId)
	}
}

func (u *unitOfWork) InsertEntry(ctx context.Context, params store.InsertEntryParams) (*models.Entry, error) {
	_, err := u.tx.ExecContext(ctx, queryInsertEntry,
		params.Id, params.PayerId, params.PayeeId, params.Amount, string(params.Kind), params.CreatedAt)
	if err != nil {
		return nil, classifyError(ctx, err)
	}

	return &models.Entry{
		Id:        params.Id,
		PayerId:   params.PayerId,
		PayeeId:   params.PayeeId,
		Amount:    params.Amount,
		Kind:      params.Kind,
		CreatedAt: params.CreatedAt,
	}, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.Id, &account.Name, &account.Contact, &account.NationalId,
		&account.Balance, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var entry models.Entry
	var kind string
	err := row.Scan(&entry.Id, &entry.PayerId, &entry.PayeeId, &entry.Amount, &kind, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	entry.Kind = models.EntryKind(kind)
	return &entry, nil
}
