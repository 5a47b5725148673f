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

// DepositResult represents the result of a committed deposit
type DepositResult struct {
	EntryId string `json:"entry_id"`
	Balance int64  `json:"balance"`
}

// TransferResult represents the result of a committed transfer.
// PayerBalance is the payer's balance after the debit.
type TransferResult struct {
	EntryId      string `json:"transaction_id"`
	PayerBalance int64  `json:"payer_balance"`
}

// CreateAccountRequest is the body of POST /users
type CreateAccountRequest struct {
	Name       string `json:"full_name" validate:"required,min=3,max=120"`
	Contact    string `json:"email" validate:"required,email,max=254"`
	NationalId string `json:"national_id" validate:"required,national_id"`
}

// AccountResponse is the public view of an account
type AccountResponse struct {
	Id         string    `json:"id"`
	Name       string    `json:"full_name"`
	Contact    string    `json:"email"`
	NationalId string    `json:"national_id"`
	Balance    int64     `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

// BalanceResponse is the body of GET /users/{id}/balance
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// DepositRequest is the body of POST /transactions/deposit
type DepositRequest struct {
	PayeeId string `json:"payee_id" validate:"required,uuid"`
	Amount  int64  `json:"amount" validate:"gt=0"`
}

// TransferRequest is the body of POST /transactions/transfer
type TransferRequest struct {
	PayerId string `json:"payer_id" validate:"required,uuid"`
	PayeeId string `json:"payee_id" validate:"required,uuid"`
	Amount  int64  `json:"amount" validate:"gt=0"`
}

// EntryRecord represents an entry in an account's history
type EntryRecord struct {
	Id        string    `json:"id"`
	PayerId   string    `json:"payer_id"`
	PayeeId   string    `json:"payee_id"`
	Amount    int64     `json:"amount"`
	Type      EntryKind `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewAccountResponse converts an account to its public view
func NewAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		Id:         a.Id,
		Name:       a.Name,
		Contact:    a.Contact,
		NationalId: a.NationalId,
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
	}
}

// NewEntryRecord converts an entry to its public view
func NewEntryRecord(e Entry) EntryRecord {
	return EntryRecord{
		Id:        e.Id,
		PayerId:   e.PayerId,
		PayeeId:   e.PayeeId,
		Amount:    e.Amount,
		Type:      e.Kind,
		CreatedAt: e.CreatedAt,
	}
}
