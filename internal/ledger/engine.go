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
	"math"
	"time"

	"ledger-core-go/internal/events"
	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Engine applies balance-changing operations. It keeps no mutable state of its
// own; all mutual exclusion comes from the row locks of the store, and every
// operation runs in exactly one unit of work.
type Engine struct {
	store     store.LedgerStore
	publisher events.Publisher
}

// NewEngine creates an engine over s. A nil publisher disables events.
func NewEngine(s store.LedgerStore, publisher events.Publisher) *Engine {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Engine{store: s, publisher: publisher}
}

// Deposit credits amount to the account and records a DEPOSIT entry whose
// payer and payee are both the credited account.
func (e *Engine) Deposit(ctx context.Context, accountId string, amount int64) (*models.DepositResult, error) {
	if amount <= 0 {
		return nil, store.ErrInvalidAmount
	}
	accountId, err := canonicalAccountId(accountId)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("account_id", accountId),
		zap.Int64("amount", amount),
		zap.String("correlation_id", models.CorrelationId(ctx)))

	var entry *models.Entry
	var balance int64
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		account, err := tx.GetAccount(ctx, accountId)
		if err != nil {
			return accountError(accountId, err)
		}
		if err := checkCredit(account, amount); err != nil {
			return err
		}

		entry, err = tx.InsertEntry(ctx, store.InsertEntryParams{
			Id:        newEntryId(),
			PayerId:   accountId,
			PayeeId:   accountId,
			Amount:    amount,
			Kind:      models.EntryKindDeposit,
			CreatedAt: now(),
		})
		if err != nil {
			return fmt.Errorf("failed to record deposit entry: %w", err)
		}

		balance, err = tx.AddToBalance(ctx, accountId, amount)
		if err != nil {
			return fmt.Errorf("failed to credit account: %w", err)
		}
		return nil
	})
	if err != nil {
		logAbort(log, "Deposit aborted", err)
		return nil, err
	}

	log.Info("Deposit committed", zap.String("entry_id", entry.Id), zap.Int64("balance", balance))
	e.publish(ctx, events.NewEntryRecorded(ctx, entry, nil, &balance))

	return &models.DepositResult{EntryId: entry.Id, Balance: balance}, nil
}

// Transfer moves amount from payer to payee. Both rows are locked in
// lockOrder before the funds check, so concurrent transfers over the same
// pair never deadlock and the check always sees the latest balance.
func (e *Engine) Transfer(ctx context.Context, payerId, payeeId string, amount int64) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, store.ErrInvalidAmount
	}
	payerId, err := canonicalAccountId(payerId)
	if err != nil {
		return nil, err
	}
	payeeId, err = canonicalAccountId(payeeId)
	if err != nil {
		return nil, err
	}
	if payerId == payeeId {
		return nil, fmt.Errorf("%w: payer and payee must be different accounts", store.ErrInvalidTransaction)
	}

	log := zap.L().With(
		zap.String("payer_id", payerId),
		zap.String("payee_id", payeeId),
		zap.Int64("amount", amount),
		zap.String("correlation_id", models.CorrelationId(ctx)))
	trace := newTransferTrace(log)
	first, second := lockOrder(payerId, payeeId)

	var entry *models.Entry
	var payer *models.Account
	var payerBalance, payeeBalance int64
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		locked := make(map[string]*models.Account, 2)
		for _, id := range [2]string{first, second} {
			account, err := tx.GetAccountForUpdate(ctx, id)
			if err != nil {
				return accountError(id, err)
			}
			locked[id] = account
		}
		trace.moveTo(stateLocksAcquired)

		payer = locked[payerId]
		if payer.Balance < amount {
			return fmt.Errorf("%w: balance %d is below %d", store.ErrInsufficientFunds, payer.Balance, amount)
		}
		if err := checkCredit(locked[payeeId], amount); err != nil {
			return err
		}
		trace.moveTo(stateValidated)

		var err error
		payerBalance, err = tx.AddToBalance(ctx, payerId, -amount)
		if err != nil {
			return fmt.Errorf("failed to debit payer: %w", err)
		}
		payeeBalance, err = tx.AddToBalance(ctx, payeeId, amount)
		if err != nil {
			return fmt.Errorf("failed to credit payee: %w", err)
		}

		entry, err = tx.InsertEntry(ctx, store.InsertEntryParams{
			Id:        newEntryId(),
			PayerId:   payerId,
			PayeeId:   payeeId,
			Amount:    amount,
			Kind:      models.EntryKindTransfer,
			CreatedAt: now(),
		})
		if err != nil {
			return fmt.Errorf("failed to record transfer entry: %w", err)
		}
		trace.moveTo(stateMutated)
		return nil
	})
	if err != nil {
		trace.moveTo(stateAborted)
		logAbort(log, "Transfer aborted", err)
		return nil, err
	}
	trace.moveTo(stateCommitted)

	log.Info("Transfer committed",
		zap.String("entry_id", entry.Id),
		zap.Int64("payer_balance", payerBalance),
		zap.Int64("payee_balance", payeeBalance))
	e.publish(ctx, events.NewEntryRecorded(ctx, entry, &payerBalance, &payeeBalance))

	return &models.TransferResult{EntryId: entry.Id, PayerBalance: payer.Balance - amount}, nil
}

// publish is best effort. The entry is already committed, so a failure is
// logged and never reported to the caller.
func (e *Engine) publish(ctx context.Context, event events.EntryRecorded) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := e.publisher.PublishEntryRecorded(ctx, event); err != nil {
		zap.L().Warn("Failed to publish ledger event",
			zap.String("entry_id", event.EntryId),
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
	}
}

// checkCredit rejects a credit that would push the balance past int64.
func checkCredit(account *models.Account, amount int64) error {
	if account.Balance > math.MaxInt64-amount {
		return fmt.Errorf("%w: crediting %d would overflow the balance of account %s",
			store.ErrInvalidAmount, amount, account.Id)
	}
	return nil
}

func accountError(accountId string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("account %s: %w", accountId, store.ErrNotFound)
	}
	return err
}

// logAbort logs business rejections at Warn and infrastructure failures at Error.
func logAbort(log *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, store.ErrValidation):
		log.Warn(msg, zap.Error(err))
	default:
		log.Error(msg, zap.Error(err))
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
