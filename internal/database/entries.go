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

func (s *Service) GetEntry(ctx context.Context, entryId string) (*models.Entry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, queryGetEntryById, entryId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("entry %s: %w", entryId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query entry: %w", classifyError(ctx, err))
	}
	return entry, nil
}

// ListEntriesByAccount returns entries where the account is payer or payee, newest first
func (s *Service) ListEntriesByAccount(ctx context.Context, accountId string, limit, offset int) ([]models.Entry, error) {
	zap.L().Debug("Getting entry history",
		zap.String("account_id", accountId),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	rows, err := s.db.QueryContext(ctx, queryGetEntriesByAccount, accountId, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry history: %w", classifyError(ctx, err))
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	entries := make([]models.Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during entry row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

func (s *Service) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, queryCountEntries).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", classifyError(ctx, err))
	}
	return count, nil
}
