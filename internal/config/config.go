/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ledger-core-go/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	busyTimeout, err := getEnvDuration("DB_BUSY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	lockTimeout, err := getEnvDuration("LEDGER_DB_LOCK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getEnvDuration("LEDGER_HTTP_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnvString("LEDGER_STORE", models.StoreDriverSQLite))
	switch driver {
	case models.StoreDriverSQLite, models.StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid LEDGER_STORE: %q (want %q or %q)",
			driver, models.StoreDriverSQLite, models.StoreDriverPostgres)
	}

	dsn := getEnvString("LEDGER_DB_DSN", "")
	if driver == models.StoreDriverPostgres && dsn == "" {
		return nil, fmt.Errorf("LEDGER_DB_DSN is required when LEDGER_STORE=%s", driver)
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Driver:              driver,
			Path:                getEnvString("DATABASE_PATH", "ledger.db"),
			MaxOpenConns:        getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:        getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:     connMaxLifetime,
			ConnMaxIdleTime:     connMaxIdleTime,
			PingTimeout:         pingTimeout,
			BusyTimeout:         busyTimeout,
			CreateDummyAccounts: getEnvBool("CREATE_DUMMY_ACCOUNTS", false),
		},
		Postgres: models.PostgresConfig{
			DSN:         dsn,
			MaxConns:    getEnvInt("LEDGER_DB_MAX_CONNS", 20),
			MinConns:    getEnvInt("LEDGER_DB_MIN_CONNS", 2),
			LockTimeout: lockTimeout,
			PingTimeout: pingTimeout,
			Migrate:     getEnvBool("LEDGER_DB_MIGRATE", true),
		},
		Server: models.ServerConfig{
			Addr:              getEnvString("LEDGER_HTTP_ADDR", ":8080"),
			MaxInflight:       getEnvInt("LEDGER_HTTP_MAX_INFLIGHT", 256),
			RequestTimeout:    requestTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Events: models.EventsConfig{
			KafkaBrokers: getEnvList("KAFKA_BROKERS"),
			Topic:        getEnvString("KAFKA_TOPIC", "ledger.entries"),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
		SeedFile: getEnvString("SEED_FILE", "accounts.yaml"),
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
