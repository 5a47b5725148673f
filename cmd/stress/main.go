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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"ledger-core-go/internal/common"
	"ledger-core-go/internal/config"
	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	doubleSpendAttempts = 5
	doubleSpendBalance  = int64(10000)
	doubleSpendAmount   = int64(3000)
)

type stressStats struct {
	committed    atomic.Int64
	insufficient atomic.Int64
	transient    atomic.Int64
}

func createAccounts(ctx context.Context, services *common.Services, count int, opening int64) ([]string, error) {
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		tag := uuid.New()
		account, err := services.Registry.CreateAccount(ctx,
			fmt.Sprintf("Stress Account %d", i),
			fmt.Sprintf("stress-%s@example.com", tag),
			fmt.Sprintf("%011d", tag.ID()))
		if err != nil {
			return nil, fmt.Errorf("failed to create account %d: %w", i, err)
		}
		if opening > 0 {
			if _, err := services.Engine.Deposit(ctx, account.Id, opening); err != nil {
				return nil, fmt.Errorf("failed to fund account %d: %w", i, err)
			}
		}
		ids = append(ids, account.Id)
	}
	return ids, nil
}

func totalBalance(ctx context.Context, services *common.Services, ids []string) (int64, error) {
	var total int64
	for _, id := range ids {
		balance, err := services.Registry.GetBalance(ctx, id)
		if err != nil {
			return 0, err
		}
		total += balance
	}
	return total, nil
}

// runTransfers fires transfers between random pairs from a fixed set of
// workers. Business rejections are counted, anything else aborts the run.
func runTransfers(ctx context.Context, services *common.Services, ids []string, workers, transfers int, maxAmount int64) (*stressStats, error) {
	stats := &stressStats{}
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for next.Add(1) <= int64(transfers) {
				payer := ids[rand.IntN(len(ids))]
				payee := ids[rand.IntN(len(ids))]
				if payer == payee {
					continue
				}

				_, err := services.Engine.Transfer(gctx, payer, payee, 1+rand.Int64N(maxAmount))
				switch {
				case err == nil:
					stats.committed.Add(1)
				case errors.Is(err, store.ErrInsufficientFunds):
					stats.insufficient.Add(1)
				case errors.Is(err, store.ErrTransient):
					stats.transient.Add(1)
				default:
					return err
				}
			}
			return nil
		})
	}
	return stats, g.Wait()
}

// runDoubleSpend submits concurrent transfers that together exceed the
// payer's balance. Each attempt lands in exactly one of the stats counters.
func runDoubleSpend(ctx context.Context, services *common.Services, attempts int, balance, amount int64) (*stressStats, error) {
	ids, err := createAccounts(ctx, services, 2, 0)
	if err != nil {
		return nil, err
	}
	if _, err := services.Engine.Deposit(ctx, ids[0], balance); err != nil {
		return nil, err
	}

	stats := &stressStats{}
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, err := services.Engine.Transfer(ctx, ids[0], ids[1], amount)
			switch {
			case err == nil:
				stats.committed.Add(1)
			case errors.Is(err, store.ErrInsufficientFunds):
				stats.insufficient.Add(1)
			case errors.Is(err, store.ErrTransient):
				stats.transient.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	payerBalance, err := services.Registry.GetBalance(ctx, ids[0])
	if err != nil {
		return nil, err
	}
	if payerBalance != balance-stats.committed.Load()*amount || payerBalance < 0 {
		return nil, fmt.Errorf("payer balance %d does not match %d committed transfers", payerBalance, stats.committed.Load())
	}
	return stats, nil
}

// checkDoubleSpend verifies that exactly as many transfers committed as the
// balance covers. Transient failures may leave fewer, never more.
func checkDoubleSpend(stats *stressStats, balance, amount int64) error {
	committed := stats.committed.Load()
	want := balance / amount
	if committed > want {
		return fmt.Errorf("%d transfers committed, balance only covers %d", committed, want)
	}
	if stats.transient.Load() == 0 && committed != want {
		return fmt.Errorf("%d transfers committed without transient failures, want %d", committed, want)
	}
	return nil
}

func main() {
	ctx := context.Background()

	accountsFlag := flag.Int("accounts", 10, "Number of accounts to create")
	workersFlag := flag.Int("workers", 16, "Number of concurrent workers")
	transfersFlag := flag.Int("transfers", 2000, "Total number of transfers to attempt")
	openingFlag := flag.Int64("opening", 100000, "Opening deposit per account in minor units")
	maxAmountFlag := flag.Int64("max-amount", 5000, "Largest single transfer in minor units")
	flag.Parse()

	if *accountsFlag < 2 || *workersFlag < 1 || *maxAmountFlag < 1 {
		fmt.Fprintln(os.Stderr, "need at least 2 accounts, 1 worker and a positive max amount")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		common.BootstrapLogger()
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	doubleSpend, err := runDoubleSpend(ctx, services, doubleSpendAttempts, doubleSpendBalance, doubleSpendAmount)
	if err != nil {
		zap.L().Fatal("Double spend scenario failed", zap.Error(err))
	}
	zap.L().Info("Double spend scenario finished",
		zap.Int64("committed", doubleSpend.committed.Load()),
		zap.Int64("insufficient", doubleSpend.insufficient.Load()),
		zap.Int64("transient", doubleSpend.transient.Load()))
	if err := checkDoubleSpend(doubleSpend, doubleSpendBalance, doubleSpendAmount); err != nil {
		zap.L().Fatal("Double spend scenario violated the balance", zap.Error(err))
	}

	ids, err := createAccounts(ctx, services, *accountsFlag, *openingFlag)
	if err != nil {
		zap.L().Fatal("Failed to create stress accounts", zap.Error(err))
	}
	before, err := totalBalance(ctx, services, ids)
	if err != nil {
		zap.L().Fatal("Failed to read balances", zap.Error(err))
	}

	entriesBefore, err := services.Store.CountEntries(ctx)
	if err != nil {
		zap.L().Fatal("Failed to count entries", zap.Error(err))
	}

	start := time.Now()
	stats, err := runTransfers(ctx, services, ids, *workersFlag, *transfersFlag, *maxAmountFlag)
	if err != nil {
		zap.L().Fatal("Stress run aborted", zap.Error(err))
	}
	elapsed := time.Since(start)

	after, err := totalBalance(ctx, services, ids)
	if err != nil {
		zap.L().Fatal("Failed to read balances", zap.Error(err))
	}

	entriesAfter, err := services.Store.CountEntries(ctx)
	if err != nil {
		zap.L().Fatal("Failed to count entries", zap.Error(err))
	}
	newEntries := entriesAfter - entriesBefore

	var mismatches []models.Reconciliation
	results, reconcileErr := services.Registry.ReconcileAll(ctx)
	for _, r := range results {
		if !r.Balanced() {
			mismatches = append(mismatches, r)
		}
	}

	common.PrintHeader("STRESS REPORT", common.DefaultWidth)
	fmt.Printf("Double spend (%d x %s from %s): %d committed, %d insufficient, %d transient\n",
		doubleSpendAttempts,
		common.FormatMinorUnits(doubleSpendAmount),
		common.FormatMinorUnits(doubleSpendBalance),
		doubleSpend.committed.Load(),
		doubleSpend.insufficient.Load(),
		doubleSpend.transient.Load())
	fmt.Printf("Transfers committed:     %d\n", stats.committed.Load())
	fmt.Printf("Insufficient funds:      %d\n", stats.insufficient.Load())
	fmt.Printf("Transient failures:      %d\n", stats.transient.Load())
	fmt.Printf("Entries written:         %d\n", newEntries)
	fmt.Printf("Elapsed:                 %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Total before / after:    %s / %s\n", common.FormatMinorUnits(before), common.FormatMinorUnits(after))
	fmt.Printf("Reconciliation failures: %d\n", len(mismatches))
	common.PrintSeparator("=", common.DefaultWidth)

	if before != after || newEntries != stats.committed.Load() || reconcileErr != nil {
		zap.L().Fatal("Ledger invariants violated",
			zap.Int64("before", before),
			zap.Int64("after", after),
			zap.Int64("entries_written", newEntries),
			zap.Int64("transfers_committed", stats.committed.Load()),
			zap.Error(reconcileErr))
	}
}
