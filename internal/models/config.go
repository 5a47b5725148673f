package models

import "time"

const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Postgres PostgresConfig
	Server   ServerConfig
	Events   EventsConfig
	LogLevel string
	SeedFile string
}

// DatabaseConfig holds store selection and SQLite connection settings
type DatabaseConfig struct {
	Driver              string
	Path                string
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     time.Duration
	ConnMaxIdleTime     time.Duration
	PingTimeout         time.Duration
	BusyTimeout         time.Duration
	CreateDummyAccounts bool
}

// PostgresConfig holds PostgreSQL pool settings
type PostgresConfig struct {
	DSN         string
	MaxConns    int
	MinConns    int
	LockTimeout time.Duration
	PingTimeout time.Duration
	Migrate     bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr              string
	MaxInflight       int
	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// EventsConfig holds event publishing settings. No brokers disables publishing.
type EventsConfig struct {
	KafkaBrokers []string
	Topic        string
}
