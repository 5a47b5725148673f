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

package common

import (
	"context"
	"fmt"

	"ledger-core-go/internal/ledger"
	"ledger-core-go/internal/models"

	"go.uber.org/zap"
)

// InitializeAccounts retrieves accounts based on an optional contact filter.
// If contactFilter is provided, returns the single account with that contact.
// If contactFilter is empty, returns all accounts.
func InitializeAccounts(ctx context.Context, registry *ledger.Registry, contactFilter string, logger *zap.Logger) ([]models.Account, error) {
	var accounts []models.Account

	if contactFilter != "" {
		logger.Info("Looking up account by contact", zap.String("contact", contactFilter))
		account, err := registry.GetAccountByContact(ctx, contactFilter)
		if err != nil {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		accounts = append(accounts, *account)
	} else {
		all, err := registry.ListAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get accounts: %w", err)
		}
		accounts = all
	}

	logger.Info("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}
