/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) CreateAccount(ctx context.Context, params store.CreateAccountParams) (*models.Account, error) {
	zap.L().Info("Creating account", zap.String("id", params.Id), zap.String("contact", params.Contact))

	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	_, err := s.db.ExecContext(ctx, queryInsertAccount,
		params.Id, params.Name, params.Contact, params.NationalId, createdAt)
	if err != nil {
		err = classifyError(ctx, err)
		if errors.Is(err, store.ErrConflict) {
			zap.L().Warn("Account already exists", zap.String("contact", params.Contact))
			return nil, err
		}
		zap.L().Error("Failed to insert account", zap.String("contact", params.Contact), zap.Error(err))
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	zap.L().Info("Account created successfully", zap.String("id", params.Id), zap.String("name", params.Name))

	return &models.Account{
		Id:         params.Id,
		Name:       params.Name,
		Contact:    params.Contact,
		NationalId: params.NationalId,
		Balance:    0,
		CreatedAt:  createdAt,
	}, nil
}

func (s *Service) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	zap.L().Debug("Querying account by ID", zap.String("account_id", accountId))

	account, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccountById, accountId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountId, store.ErrNotFound)
		}
		zap.L().Error("Failed to query account by ID", zap.String("account_id", accountId), zap.Error(err))
		return nil, fmt.Errorf("unable to query account by ID: %w", classifyError(ctx, err))
	}
	return account, nil
}

func (s *Service) GetAccountByContact(ctx context.Context, contact string) (*models.Account, error) {
	zap.L().Debug("Querying account by contact", zap.String("contact", contact))

	account, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByContact, contact))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", contact, store.ErrNotFound)
		}
		zap.L().Error("Failed to query account by contact", zap.String("contact", contact), zap.Error(err))
		return nil, fmt.Errorf("unable to query account by contact: %w", classifyError(ctx, err))
	}
	return account, nil
}

// FindAccountByContactOrNationalId returns nil, nil when neither value is taken.
func (s *Service) FindAccountByContactOrNationalId(ctx context.Context, contact, nationalId string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx, queryFindAccountByContactOrNationalId, contact, nationalId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to check account uniqueness: %w", classifyError(ctx, err))
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	zap.L().Debug("Querying accounts")

	rows, err := s.db.QueryContext(ctx, queryGetAccounts)
	if err != nil {
		zap.L().Error("Failed to query accounts", zap.Error(err))
		return nil, fmt.Errorf("unable to query accounts: %w", classifyError(ctx, err))
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			zap.L().Error("Failed to scan account row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during account row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	zap.L().Debug("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}
