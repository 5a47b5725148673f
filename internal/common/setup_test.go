package common

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ledger-core-go/internal/events"
	"ledger-core-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func sqliteConfig(t *testing.T) *models.Config {
	return &models.Config{
		Database: models.DatabaseConfig{
			Driver:       models.StoreDriverSQLite,
			Path:         filepath.Join(t.TempDir(), "setup.db"),
			MaxOpenConns: 2,
			MaxIdleConns: 2,
			PingTimeout:  5 * time.Second,
			BusyTimeout:  time.Second,
		},
	}
}

func TestInitializeServices_SQLiteWithoutBrokers(t *testing.T) {
	services, err := InitializeServices(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	defer services.Close()

	assert.IsType(t, events.Noop{}, services.Publisher)
	require.NoError(t, services.Store.Ping(context.Background()))
}

func TestInitializeStore_UnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Driver = "mysql"

	st, err := InitializeStore(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, st)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: inappropriate ioctl for device")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}

func TestBootstrapLogger_ReplacesNopGlobal(t *testing.T) {
	restore := zap.ReplaceGlobals(zap.NewNop())
	defer restore()
	require.False(t, zap.L().Core().Enabled(zapcore.ErrorLevel))

	logger := BootstrapLogger()
	assert.Same(t, logger, zap.L())
	assert.True(t, zap.L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, zap.L().Core().Enabled(zapcore.FatalLevel))
}
