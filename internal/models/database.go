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

package models

import "time"

// EntryKind tags what produced a ledger entry.
type EntryKind string

const (
	EntryKindDeposit  EntryKind = "DEPOSIT"
	EntryKindTransfer EntryKind = "TRANSFER"
	// EntryKindReversal is reserved; no operation writes it yet.
	EntryKindReversal EntryKind = "REVERSAL"
)

// Valid reports whether k is one of the persisted entry kinds.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindDeposit, EntryKindTransfer, EntryKindReversal:
		return true
	}
	return false
}

// Account represents a ledger account. Balance is in minor currency units.
type Account struct {
	Id         string    `db:"id"`
	Name       string    `db:"name"`
	Contact    string    `db:"contact"`
	NationalId string    `db:"national_id"`
	Balance    int64     `db:"balance"`
	CreatedAt  time.Time `db:"created_at"`
}

// Entry is an immutable audit record of one committed operation.
// Deposits carry the credited account as both payer and payee.
type Entry struct {
	Id        string    `db:"id"`
	PayerId   string    `db:"payer_id"`
	PayeeId   string    `db:"payee_id"`
	Amount    int64     `db:"amount"`
	Kind      EntryKind `db:"kind"`
	CreatedAt time.Time `db:"created_at"`
}

// Reconciliation compares the stored balance with the balance implied by the entry log
type Reconciliation struct {
	AccountId        string
	StoredBalance    int64
	DepositTotal     int64
	TransferInTotal  int64
	TransferOutTotal int64
}

// ComputedBalance is the balance implied by the entry log.
func (r Reconciliation) ComputedBalance() int64 {
	return r.DepositTotal + r.TransferInTotal - r.TransferOutTotal
}

// Balanced reports whether the stored balance matches the entry log.
func (r Reconciliation) Balanced() bool {
	return r.StoredBalance == r.ComputedBalance()
}
