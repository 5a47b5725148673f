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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.LedgerStore.
var _ store.LedgerStore = (*Service)(nil)

// Service is the SQLite implementation of store.LedgerStore.
//
// Every unit of work opens with BEGIN IMMEDIATE, which takes the database
// write lock up front. A read-for-update therefore never has to upgrade a
// shared lock, and writers queue on the busy timeout instead of deadlocking.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}
	if cfg.BusyTimeout < 0 {
		return nil, fmt.Errorf("busy timeout cannot be negative, got %v", cfg.BusyTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", dataSourceName(cfg))
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(ctx, cfg.CreateDummyAccounts); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after schema failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

// dataSourceName builds the go-sqlite3 DSN. _txlock=immediate makes every
// BeginTx issue BEGIN IMMEDIATE and _busy_timeout bounds the lock wait.
func dataSourceName(cfg models.DatabaseConfig) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_cache_size", "1000")
	params.Set("_busy_timeout", strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10))
	params.Set("_txlock", "immediate")
	params.Set("_foreign_keys", "on")
	return cfg.Path + "?" + params.Encode()
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classifyError(ctx, err)
	}
	return nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(ctx context.Context, createDummyAccounts bool) error {
	schema := `
	-- Accounts: current balance per account (hot data)
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact TEXT NOT NULL UNIQUE,
		national_id TEXT NOT NULL UNIQUE,
		balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TIMESTAMP NOT NULL
	);

	-- Entries: immutable audit trail of every balance change
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		payer_id TEXT NOT NULL REFERENCES accounts(id),
		payee_id TEXT NOT NULL REFERENCES accounts(id),
		amount INTEGER NOT NULL CHECK (amount > 0),
		kind TEXT NOT NULL CHECK (kind IN ('DEPOSIT', 'TRANSFER', 'REVERSAL')),
		created_at TIMESTAMP NOT NULL
	);

	-- Indexes for historical queries
	CREATE INDEX IF NOT EXISTS idx_entries_payer_id ON entries(payer_id);
	CREATE INDEX IF NOT EXISTS idx_entries_payee_id ON entries(payee_id);
	CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	if !createDummyAccounts {
		zap.L().Info("Skipping dummy account creation (CREATE_DUMMY_ACCOUNTS=false)")
		return nil
	}

	// Insert 3 zero-balance accounts for local testing
	accounts := []struct {
		name       string
		contact    string
		nationalId string
	}{
		{"Alice Johnson", "alice.johnson@example.com", "11111111111"},
		{"Bob Smith", "bob.smith@example.com", "22222222222"},
		{"Carol Williams", "carol.williams@example.com", "33333333333"},
	}

	for _, account := range accounts {
		id := uuid.New().String()
		_, err := s.db.ExecContext(ctx, queryInsertDummyAccount,
			id, account.name, account.contact, account.nationalId, time.Now().UTC())
		if err != nil {
			zap.L().Error("Failed to insert dummy account", zap.String("name", account.name), zap.Error(err))
		} else {
			zap.L().Info("Dummy account ensured", zap.String("name", account.name), zap.String("contact", account.contact))
		}
	}

	return nil
}
