package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ledger-core-go/internal/database"
	"ledger-core-go/internal/events"
	"ledger-core-go/internal/models"
	"ledger-core-go/internal/postgres"
	"ledger-core-go/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) store.LedgerStore {
	t.Helper()

	service, err := database.NewService(context.Background(), models.DatabaseConfig{
		Driver:          models.StoreDriverSQLite,
		Path:            filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns:    16,
		MaxIdleConns:    16,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Hour,
		PingTimeout:     5 * time.Second,
		BusyTimeout:     10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(service.Close)
	return service
}

func newPostgresStore(t *testing.T) store.LedgerStore {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("LEDGER_DB_DSN"))
	if dsn == "" {
		t.Skip("missing LEDGER_DB_DSN env var")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service, err := postgres.NewService(ctx, models.PostgresConfig{
		DSN:         dsn,
		MaxConns:    20,
		MinConns:    1,
		LockTimeout: 10 * time.Second,
		PingTimeout: 10 * time.Second,
		Migrate:     true,
	})
	require.NoError(t, err)
	t.Cleanup(service.Close)
	return service
}

// forEachStore runs fn against SQLite and, when LEDGER_DB_DSN is set, PostgreSQL.
// Accounts get random contacts so a shared PostgreSQL database needs no cleanup.
func forEachStore(t *testing.T, fn func(t *testing.T, s store.LedgerStore)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
	t.Run("postgres", func(t *testing.T) { fn(t, newPostgresStore(t)) })
}

func newTestAccount(t *testing.T, registry *Registry) *models.Account {
	t.Helper()

	id := uuid.New()
	account, err := registry.CreateAccount(context.Background(),
		"Test Account",
		fmt.Sprintf("%s@example.com", id),
		fmt.Sprintf("%011d", id.ID()))
	require.NoError(t, err)
	return account
}

func fundedAccount(t *testing.T, registry *Registry, engine *Engine, amount int64) string {
	t.Helper()

	account := newTestAccount(t, registry)
	if amount > 0 {
		_, err := engine.Deposit(context.Background(), account.Id, amount)
		require.NoError(t, err)
	}
	return account.Id
}

func balanceOf(t *testing.T, registry *Registry, accountId string) int64 {
	t.Helper()

	balance, err := registry.GetBalance(context.Background(), accountId)
	require.NoError(t, err)
	return balance
}

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.EntryRecorded
	err    error
}

func (p *recordingPublisher) PublishEntryRecorded(_ context.Context, event events.EntryRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.EntryRecorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.EntryRecorded(nil), p.events...)
}
