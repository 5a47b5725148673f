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

const (
	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (id, name, contact, national_id, balance, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`

	queryInsertDummyAccount = `
		INSERT OR IGNORE INTO accounts (id, name, contact, national_id, balance, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`

	queryGetAccountById = `
		SELECT id, name, contact, national_id, balance, created_at
		FROM accounts
		WHERE id = ?`

	queryGetAccountByContact = `
		SELECT id, name, contact, national_id, balance, created_at
		FROM accounts
		WHERE contact = ?`

	queryFindAccountByContactOrNationalId = `
		SELECT id, name, contact, national_id, balance, created_at
		FROM accounts
		WHERE contact = ? OR national_id = ?
		LIMIT 1`

	queryGetAccounts = `
		SELECT id, name, contact, national_id, balance, created_at
		FROM accounts
		ORDER BY created_at, id`

	// Balance queries
	queryAddToBalance = `
		UPDATE accounts
		SET balance = balance + ?
		WHERE id = ?
		RETURNING balance`

	queryReconcileAccount = `
		SELECT
			a.balance,
			COALESCE((SELECT SUM(amount) FROM entries WHERE kind = 'DEPOSIT' AND payee_id = a.id), 0),
			COALESCE((SELECT SUM(amount) FROM entries WHERE kind = 'TRANSFER' AND payee_id = a.id), 0),
			COALESCE((SELECT SUM(amount) FROM entries WHERE kind = 'TRANSFER' AND payer_id = a.id), 0)
		FROM accounts a
		WHERE a.id = ?`

	// Entry queries
	queryInsertEntry = `
		INSERT INTO entries (id, payer_id, payee_id, amount, kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetEntryById = `
		SELECT id, payer_id, payee_id, amount, kind, created_at
		FROM entries
		WHERE id = ?`

	queryGetEntriesByAccount = `
		SELECT id, payer_id, payee_id, amount, kind, created_at
		FROM entries
		WHERE payer_id = ? OR payee_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	queryCountEntries = `
		SELECT COUNT(*) FROM entries`
)
