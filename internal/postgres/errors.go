package postgres

import (
	"context"
	"errors"
	"fmt"

	"ledger-core-go/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the ledger reacts to.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
	codeInvalidTextRep       = "22P02"
	codeNumericOutOfRange    = "22003"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %w", store.ErrConflict, err)
	case codeCheckViolation:
		return fmt.Errorf("%w: %w", store.ErrInsufficientFunds, err)
	case codeForeignKeyViolation, codeInvalidTextRep:
		// 22P02 is a malformed uuid literal, which can never name an account
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	case codeNumericOutOfRange:
		// bigint overflow on balance + delta
		return fmt.Errorf("%w: %w", store.ErrInvalidAmount, err)
	case codeDeadlockDetected, codeSerializationFailure, codeLockNotAvailable, codeQueryCanceled:
		return fmt.Errorf("%w: %w", store.ErrTransient, err)
	}
	return err
}
