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

	"ledger-core-go/internal/store"

	"github.com/mattn/go-sqlite3"
)

// classifyError maps SQLite driver failures onto the store sentinel errors.
// Errors that are already classified, or unrecognised, pass through unchanged.
func classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch {
	case sqliteErr.Code == sqlite3.ErrBusy, sqliteErr.Code == sqlite3.ErrLocked:
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	case sqliteErr.Code == sqlite3.ErrInterrupt:
		// go-sqlite3 interrupts the statement when the context ends
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", store.ErrTransient, ctxErr)
		}
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique,
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %w", store.ErrConflict, err)
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintCheck:
		return fmt.Errorf("%w: %w", store.ErrInsufficientFunds, err)
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	return err
}
