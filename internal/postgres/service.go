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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.LedgerStore.
var _ store.LedgerStore = (*Service)(nil)

// Service is the PostgreSQL implementation of store.LedgerStore. Units of work
// run at READ COMMITTED and rely on SELECT ... FOR UPDATE row locks.
type Service struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

func NewService(ctx context.Context, cfg models.PostgresConfig) (*Service, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("LEDGER_DB_DSN is required for the postgres store")
	}
	if cfg.MaxConns <= 0 {
		return nil, fmt.Errorf("max connections must be positive, got %d", cfg.MaxConns)
	}
	if cfg.LockTimeout < 0 {
		return nil, fmt.Errorf("lock timeout cannot be negative, got %v", cfg.LockTimeout)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)

	zap.L().Info("Connecting to PostgreSQL",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int("max_conns", cfg.MaxConns))

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if cfg.Migrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("unable to apply migrations: %w", err)
		}
	}

	zap.L().Info("PostgreSQL store initialized successfully", zap.Duration("lock_timeout", cfg.LockTimeout))
	return New(pool, cfg.LockTimeout), nil
}

// New wraps an existing pool. A zero lockTimeout leaves the server default.
func New(db *pgxpool.Pool, lockTimeout time.Duration) *Service {
	return &Service{db: db, lockTimeout: lockTimeout}
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

func (s *Service) Close() {
	s.db.Close()
}

// WithinTx runs fn in one READ COMMITTED transaction. Row locks taken through
// the handle are released on commit or rollback.
func (s *Service) WithinTx(ctx context.Context, fn store.TxFunc) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			zap.L().Warn("Failed to roll back transaction", zap.Error(err))
		}
	}()

	if s.lockTimeout > 0 {
		// set_config with is_local=true is SET LOCAL with a bindable value
		_, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`,
			fmt.Sprintf("%dms", s.lockTimeout.Milliseconds()))
		if err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", classifyError(err))
		}
	}

	if err := fn(ctx, &unitOfWork{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}
	return nil
}
