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

package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultEntriesLimit = 20
	MaxEntriesLimit     = 100
)

// Registry creates accounts and answers read-only questions about them.
type Registry struct {
	store store.LedgerStore
}

func NewRegistry(s store.LedgerStore) *Registry {
	return &Registry{store: s}
}

// CreateAccount registers an account with a zero balance. Contact and
// national id must both be unused; the store's unique constraints catch any
// race the pre-check misses.
func (r *Registry) CreateAccount(ctx context.Context, name, contact, nationalId string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	contact = NormalizeContact(contact)
	nationalId = NormalizeNationalId(nationalId)
	if name == "" || contact == "" || nationalId == "" {
		return nil, fmt.Errorf("%w: name, contact and national id are required", store.ErrValidation)
	}

	existing, err := r.store.FindAccountByContactOrNationalId(ctx, contact, nationalId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		zap.L().Warn("Account already registered",
			zap.String("contact", contact),
			zap.String("existing_id", existing.Id))
		return nil, fmt.Errorf("%w: contact or national id already registered", store.ErrConflict)
	}

	return r.store.CreateAccount(ctx, store.CreateAccountParams{
		Id:         uuid.New().String(),
		Name:       name,
		Contact:    contact,
		NationalId: nationalId,
	})
}

func (r *Registry) GetBalance(ctx context.Context, accountId string) (int64, error) {
	account, err := r.GetAccount(ctx, accountId)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (r *Registry) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	accountId, err := canonicalAccountId(accountId)
	if err != nil {
		return nil, err
	}
	return r.store.GetAccount(ctx, accountId)
}

func (r *Registry) GetAccountByContact(ctx context.Context, contact string) (*models.Account, error) {
	return r.store.GetAccountByContact(ctx, NormalizeContact(contact))
}

func (r *Registry) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return r.store.ListAccounts(ctx)
}

// ListEntries returns entries where the account is payer or payee, newest
// first. limit is clamped to (0, MaxEntriesLimit], defaulting to DefaultEntriesLimit.
func (r *Registry) ListEntries(ctx context.Context, accountId string, limit, offset int) ([]models.Entry, error) {
	account, err := r.GetAccount(ctx, accountId)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultEntriesLimit
	}
	if limit > MaxEntriesLimit {
		limit = MaxEntriesLimit
	}
	if offset < 0 {
		offset = 0
	}
	return r.store.ListEntriesByAccount(ctx, account.Id, limit, offset)
}

func (r *Registry) GetEntry(ctx context.Context, entryId string) (*models.Entry, error) {
	entryId = strings.TrimSpace(entryId)
	if entryId == "" {
		return nil, fmt.Errorf("%w: entry id is required", store.ErrValidation)
	}
	return r.store.GetEntry(ctx, entryId)
}

// Reconcile compares an account's stored balance with its entry log and
// returns ErrReconciliationMismatch, along with the figures, when they differ.
func (r *Registry) Reconcile(ctx context.Context, accountId string) (*models.Reconciliation, error) {
	accountId, err := canonicalAccountId(accountId)
	if err != nil {
		return nil, err
	}

	result, err := r.store.Reconcile(ctx, accountId)
	if err != nil {
		return nil, err
	}
	if !result.Balanced() {
		return result, fmt.Errorf("%w: account %s stored=%d computed=%d",
			store.ErrReconciliationMismatch, accountId, result.StoredBalance, result.ComputedBalance())
	}
	return result, nil
}

// ReconcileAll reconciles every account. It keeps going after a mismatch and
// returns all mismatches joined together.
func (r *Registry) ReconcileAll(ctx context.Context) ([]models.Reconciliation, error) {
	accounts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.Reconciliation, 0, len(accounts))
	var mismatches []error
	for _, account := range accounts {
		result, err := r.Reconcile(ctx, account.Id)
		if err != nil && !errors.Is(err, store.ErrReconciliationMismatch) {
			return nil, err
		}
		if err != nil {
			mismatches = append(mismatches, err)
		}
		results = append(results, *result)
	}
	return results, errors.Join(mismatches...)
}

// NormalizeContact lowercases and trims a contact address.
func NormalizeContact(contact string) string {
	return strings.ToLower(strings.TrimSpace(contact))
}

// NormalizeNationalId strips the usual punctuation from a national id.
func NormalizeNationalId(nationalId string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', ' ', '/':
			return -1
		}
		return r
	}, strings.TrimSpace(nationalId))
}
