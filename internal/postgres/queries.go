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

package postgres

// Ids are cast to text on the way out so they scan into plain strings.
const (
	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (id, name, contact, national_id, balance)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id::text, name, contact, national_id, balance, created_at`

	queryGetAccountById = `
		SELECT id::text, name, contact, national_id, balance, created_at
		FROM accounts
		WHERE id = $1`

	queryGetAccountForUpdate = `
		SELECT id::text, name, contact, national_id, balance, created_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE`

	queryGetAccountByContact = `
		SELECT id::text, name, contact, national_id, balance, created_at
		FROM accounts
		WHERE contact = $1`

	queryFindAccountByContactOrNationalId = `
		SELECT id::text, name, contact, national_id, balance, created_at
		FROM accounts
		WHERE contact = $1 OR national_id = $2
		LIMIT 1`

	queryGetAccounts = `
		SELECT id::text, name, contact, national_id, balance, created_at
		FROM accounts
		ORDER BY created_at, id`

	// Balance queries
	queryAddToBalance = `
		UPDATE accounts
		SET balance = balance + $1
		WHERE id = $2
		RETURNING balance`

	queryReconcileAccount = `
		SELECT
			a.balance,
			COALESCE((SELECT SUM(amount) FROM entries WHERE kind = 'DEPOSIT' AND payee_id = a.id), 0)::bigint,
			COALESCE((SELECT SUM(amount) FROM entries WHERE kind = 'TRANSFER' AND payee_id = a.id), 0)::bigint,
			COALESCE((SELECT SUM(amount) FROM entries WHERE kind = 'TRANSFER' AND payer_id = a.id), 0)::bigint
		FROM accounts a
		WHERE a.id = $1`

	// Entry queries
	queryInsertEntry = `
		INSERT INTO entries (id, payer_id, payee_id, amount, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, payer_id::text, payee_id::text, amount, kind, created_at`

	queryGetEntryById = `
		SELECT id, payer_id::text, payee_id::text, amount, kind, created_at
		FROM entries
		WHERE id = $1`

	queryGetEntriesByAccount = `
		SELECT id, payer_id::text, payee_id::text, amount, kind, created_at
		FROM entries
		WHERE payer_id = $1 OR payee_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	queryCountEntries = `
		SELECT COUNT(*) FROM entries`
)
