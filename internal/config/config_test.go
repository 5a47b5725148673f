package config

import (
	"testing"
	"time"

	"ledger-core-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LEDGER_STORE", "DATABASE_PATH", "DB_BUSY_TIMEOUT", "KAFKA_BROKERS", "LEDGER_DB_DSN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, models.StoreDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "ledger.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Empty(t, cfg.Events.KafkaBrokers)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEDGER_STORE", "Postgres")
	t.Setenv("LEDGER_DB_DSN", "postgres://ledger@localhost/ledger")
	t.Setenv("LEDGER_DB_LOCK_TIMEOUT", "250ms")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, ,broker-2:9092")
	t.Setenv("LEDGER_HTTP_MAX_INFLIGHT", "32")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, models.StoreDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Postgres.LockTimeout)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, 32, cfg.Server.MaxInflight)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"DB_BUSY_TIMEOUT": "soon"}},
		{"unknown driver", map[string]string{"LEDGER_STORE": "mysql"}},
		{"postgres without dsn", map[string]string{"LEDGER_STORE": "postgres", "LEDGER_DB_DSN": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvInt_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("LEDGER_TEST_INT", "many")
	assert.Equal(t, 7, getEnvInt("LEDGER_TEST_INT", 7))
}
