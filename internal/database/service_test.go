package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ledger-core-go/internal/models"
)

func testConfig(t *testing.T) models.DatabaseConfig {
	return models.DatabaseConfig{
		Driver:          models.StoreDriverSQLite,
		Path:            filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns:    8,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
		PingTimeout:     5 * time.Second,
		BusyTimeout:     5 * time.Second,
	}
}

func setupTestDb(t *testing.T) (*Service, func()) {
	return setupTestDbWithConfig(t, testConfig(t))
}

func setupTestDbWithConfig(t *testing.T, cfg models.DatabaseConfig) (*Service, func()) {
	service, err := NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}

	return service, cleanup
}

func TestNewService_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.DatabaseConfig)
		want   string
	}{
		{"empty path", func(c *models.DatabaseConfig) { c.Path = "" }, "path cannot be empty"},
		{"zero max open", func(c *models.DatabaseConfig) { c.MaxOpenConns = 0 }, "max open connections"},
		{"negative idle", func(c *models.DatabaseConfig) { c.MaxIdleConns = -1 }, "max idle connections"},
		{"zero ping timeout", func(c *models.DatabaseConfig) { c.PingTimeout = 0 }, "ping timeout"},
		{"negative busy timeout", func(c *models.DatabaseConfig) { c.BusyTimeout = -time.Second }, "busy timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)

			_, err := NewService(ctx, cfg)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDataSourceName(t *testing.T) {
	cfg := testConfig(t)
	cfg.BusyTimeout = 1500 * time.Millisecond

	dsn := dataSourceName(cfg)

	for _, want := range []string{"_txlock=immediate", "_busy_timeout=1500", "_journal_mode=WAL", "_foreign_keys=on"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("Expected DSN to contain %q, got %s", want, dsn)
		}
	}
	if !strings.HasPrefix(dsn, cfg.Path+"?") {
		t.Errorf("Expected DSN to start with the database path, got %s", dsn)
	}
}

func TestInitSchema_DummyAccounts(t *testing.T) {
	cfg := testConfig(t)
	cfg.CreateDummyAccounts = true

	service, cleanup := setupTestDbWithConfig(t, cfg)
	defer cleanup()

	ctx := context.Background()
	accounts, err := service.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("Expected 3 dummy accounts, got %d", len(accounts))
	}
	for _, account := range accounts {
		if account.Balance != 0 {
			t.Errorf("Expected zero balance for %s, got %d", account.Name, account.Balance)
		}
	}

	// Reopening must not duplicate the dummy accounts
	service.Close()
	reopened, err := NewService(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	accounts, err = reopened.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("Expected 3 accounts after reopen, got %d", len(accounts))
	}
}

func TestPing(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
