package postgres

import (
	"context"
	"errors"
	"fmt"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"
)

func (s *Service) GetEntry(ctx context.Context, entryId string) (*models.Entry, error) {
	entry, err := scanEntry(s.db.QueryRow(ctx, queryGetEntryById, entryId))
	if err != nil {
		err = classifyError(err)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("entry %s: %w", entryId, err)
		}
		return nil, fmt.Errorf("unable to query entry: %w", err)
	}
	return entry, nil
}

func (s *Service) ListEntriesByAccount(ctx context.Context, accountId string, limit, offset int) ([]models.Entry, error) {
	rows, err := s.db.Query(ctx, queryGetEntriesByAccount, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry history: %w", classifyError(err))
	}
	defer rows.Close()

	entries := make([]models.Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", classifyError(err))
	}
	return entries, nil
}

func (s *Service) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, queryCountEntries).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", classifyError(err))
	}
	return count, nil
}
