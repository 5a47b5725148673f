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

package api

import (
	"context"
	"fmt"

	"ledger-core-go/internal/ledger"
	"ledger-core-go/internal/store"
)

// LedgerService exposes the ledger over HTTP
type LedgerService struct {
	engine   *ledger.Engine
	registry *ledger.Registry
	store    store.LedgerStore
}

func NewLedgerService(engine *ledger.Engine, registry *ledger.Registry, st store.LedgerStore) *LedgerService {
	return &LedgerService{
		engine:   engine,
		registry: registry,
		store:    st,
	}
}

func (s *LedgerService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
