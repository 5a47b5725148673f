package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ledger-core-go/internal/common"
	"ledger-core-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStressServices(t *testing.T) *common.Services {
	t.Helper()

	services, err := common.InitializeServices(context.Background(), &models.Config{
		Database: models.DatabaseConfig{
			Driver:       models.StoreDriverSQLite,
			Path:         filepath.Join(t.TempDir(), "stress.db"),
			MaxOpenConns: 8,
			MaxIdleConns: 8,
			PingTimeout:  5 * time.Second,
			BusyTimeout:  5 * time.Second,
		},
	})
	require.NoError(t, err)
	t.Cleanup(services.Close)
	return services
}

func newStats(committed, insufficient, transient int64) *stressStats {
	stats := &stressStats{}
	stats.committed.Store(committed)
	stats.insufficient.Store(insufficient)
	stats.transient.Store(transient)
	return stats
}

func TestRunDoubleSpend_CountsEveryAttempt(t *testing.T) {
	services := newStressServices(t)

	stats, err := runDoubleSpend(context.Background(), services,
		doubleSpendAttempts, doubleSpendBalance, doubleSpendAmount)
	require.NoError(t, err)

	total := stats.committed.Load() + stats.insufficient.Load() + stats.transient.Load()
	assert.Equal(t, int64(doubleSpendAttempts), total)
	assert.NoError(t, checkDoubleSpend(stats, doubleSpendBalance, doubleSpendAmount))
}

func TestCheckDoubleSpend(t *testing.T) {
	tests := []struct {
		name    string
		stats   *stressStats
		wantErr bool
	}{
		{"all covered transfers committed", newStats(3, 2, 0), false},
		{"transient failure leaves fewer", newStats(2, 2, 1), false},
		{"too few without transient failures", newStats(2, 3, 0), true},
		{"more than the balance covers", newStats(4, 1, 0), true},
		{"more than covered despite transient", newStats(4, 0, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDoubleSpend(tt.stats, doubleSpendBalance, doubleSpendAmount)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
