package postgres

import (
	"context"
	"errors"
	"fmt"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (s *Service) CreateAccount(ctx context.Context, params store.CreateAccountParams) (*models.Account, error) {
	zap.L().Info("Creating account", zap.String("id", params.Id), zap.String("contact", params.Contact))

	account, err := scanAccount(s.db.QueryRow(ctx, queryInsertAccount,
		params.Id, params.Name, params.Contact, params.NationalId))
	if err != nil {
		err = classifyError(err)
		if errors.Is(err, store.ErrConflict) {
			zap.L().Warn("Account already exists", zap.String("contact", params.Contact))
			return nil, err
		}
		zap.L().Error("Failed to insert account", zap.String("contact", params.Contact), zap.Error(err))
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	zap.L().Info("Account created successfully", zap.String("id", account.Id), zap.String("name", account.Name))
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	return s.getAccount(ctx, queryGetAccountById, accountId)
}

func (s *Service) GetAccountByContact(ctx context.Context, contact string) (*models.Account, error) {
	return s.getAccount(ctx, queryGetAccountByContact, contact)
}

func (s *Service) getAccount(ctx context.Context, query, key string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRow(ctx, query, key))
	if err != nil {
		err = classifyError(err)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", key, err)
		}
		zap.L().Error("Failed to query account", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unable to query account: %w", err)
	}
	return account, nil
}

// FindAccountByContactOrNationalId returns nil, nil when neither value is taken.
func (s *Service) FindAccountByContactOrNationalId(ctx context.Context, contact, nationalId string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRow(ctx, queryFindAccountByContactOrNationalId, contact, nationalId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to check account uniqueness: %w", classifyError(err))
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.Query(ctx, queryGetAccounts)
	if err != nil {
		return nil, fmt.Errorf("unable to query accounts: %w", classifyError(err))
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", classifyError(err))
	}
	return accounts, nil
}

func (s *Service) Reconcile(ctx context.Context, accountId string) (*models.Reconciliation, error) {
	r := &models.Reconciliation{AccountId: accountId}
	err := s.db.QueryRow(ctx, queryReconcileAccount, accountId).Scan(
		&r.StoredBalance, &r.DepositTotal, &r.TransferInTotal, &r.TransferOutTotal)
	if err != nil {
		err = classifyError(err)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", accountId, err)
		}
		return nil, fmt.Errorf("failed to calculate balance from entries: %w", err)
	}

	if !r.Balanced() {
		zap.L().Error("Balance reconciliation failed",
			zap.String("account_id", accountId),
			zap.Int64("stored_balance", r.StoredBalance),
			zap.Int64("calculated_balance", r.ComputedBalance()))
	}
	return r, nil
}
