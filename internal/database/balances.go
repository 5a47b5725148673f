package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"go.uber.org/zap"
)

// Reconcile reads the stored balance and the entry totals for one account in a
// single statement so both sides come from the same snapshot.
func (s *Service) Reconcile(ctx context.Context, accountId string) (*models.Reconciliation, error) {
	zap.L().Debug("Reconciling balance", zap.String("account_id", accountId))

	r := &models.Reconciliation{AccountId: accountId}
	err := s.db.QueryRowContext(ctx, queryReconcileAccount, accountId).Scan(
		&r.StoredBalance, &r.DepositTotal, &r.TransferInTotal, &r.TransferOutTotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to calculate balance from entries: %w", classifyError(ctx, err))
	}

	if !r.Balanced() {
		zap.L().Error("Balance reconciliation failed",
			zap.String("account_id", accountId),
			zap.Int64("stored_balance", r.StoredBalance),
			zap.Int64("calculated_balance", r.ComputedBalance()),
			zap.Int64("difference", r.StoredBalance-r.ComputedBalance()))
	}
	return r, nil
}
