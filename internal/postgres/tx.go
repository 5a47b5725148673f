package postgres

import (
	"context"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/jackc/pgx/v5"
)

type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	account, err := scanAccount(u.tx.QueryRow(ctx, queryGetAccountById, accountId))
	if err != nil {
		return nil, classifyError(err)
	}
	return account, nil
}

func (u *unitOfWork) GetAccountForUpdate(ctx context.Context, accountId string) (*models.Account, error) {
	account, err := scanAccount(u.tx.QueryRow(ctx, queryGetAccountForUpdate, accountId))
	if err != nil {
		return nil, classifyError(err)
	}
	return account, nil
}

func (u *unitOfWork) AddToBalance(ctx context.Context, accountId string, delta int64) (int64, error) {
	var balance int64
	if err := u.tx.QueryRow(ctx, queryAddToBalance, delta, accountId).Scan(&balance); err != nil {
		return 0, classifyError(err)
	}
	return balance, nil
}

func (u *unitOfWork) InsertEntry(ctx context.Context, params store.InsertEntryParams) (*models.Entry, error) {
	entry, err := scanEntry(u.tx.QueryRow(ctx, queryInsertEntry,
		params.Id, params.PayerId, params.PayeeId, params.Amount, string(params.Kind), params.CreatedAt))
	if err != nil {
		return nil, classifyError(err)
	}
	return entry, nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.Id, &account.Name, &account.Contact, &account.NationalId,
		&account.Balance, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	account.CreatedAt = account.CreatedAt.UTC()
	return &account, nil
}

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var entry models.Entry
	var kind string
	err := row.Scan(&entry.Id, &entry.PayerId, &entry.PayeeId, &entry.Amount, &kind, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	entry.Kind = models.EntryKind(kind)
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}
