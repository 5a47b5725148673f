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

package events

import (
	"context"
	"time"

	"ledger-core-go/internal/models"
)

// TypeEntryRecorded is the event type written for every committed entry.
const TypeEntryRecorded = "ledger.entry.recorded"

// EntryRecorded announces a committed ledger entry. Balances are the values
// returned by the store inside the unit of work that wrote the entry.
type EntryRecorded struct {
	EntryId       string           `json:"entry_id"`
	Kind          models.EntryKind `json:"kind"`
	PayerId       string           `json:"payer_id"`
	PayeeId       string           `json:"payee_id"`
	Amount        int64            `json:"amount"`
	PayerBalance  *int64           `json:"payer_balance,omitempty"`
	PayeeBalance  *int64           `json:"payee_balance,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
	CorrelationId string           `json:"correlation_id,omitempty"`
}

// Publisher delivers ledger events to downstream consumers. Publishing
// happens after commit, so implementations must not be relied on for
// ledger correctness.
type Publisher interface {
	PublishEntryRecorded(ctx context.Context, event EntryRecorded) error
	Close() error
}

// NewEntryRecorded builds the event for a committed entry.
func NewEntryRecorded(ctx context.Context, entry *models.Entry, payerBalance, payeeBalance *int64) EntryRecorded {
	return EntryRecorded{
		EntryId:       entry.Id,
		Kind:          entry.Kind,
		PayerId:       entry.PayerId,
		PayeeId:       entry.PayeeId,
		Amount:        entry.Amount,
		PayerBalance:  payerBalance,
		PayeeBalance:  payeeBalance,
		OccurredAt:    entry.CreatedAt,
		CorrelationId: models.CorrelationId(ctx),
	}
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishEntryRecorded(context.Context, EntryRecorded) error { return nil }

func (Noop) Close() error { return nil }
