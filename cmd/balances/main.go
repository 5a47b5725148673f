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
	"flag"
	"fmt"

	"ledger-core-go/internal/common"
	"ledger-core-go/internal/config"
	"ledger-core-go/internal/ledger"
	"ledger-core-go/internal/models"

	"go.uber.org/zap"
)

type balanceStats struct {
	totalAccounts   int
	fundedAccounts  int
	totalMinorUnits int64
}

func formatEntryId(entryId string) string {
	if len(entryId) > 10 {
		return entryId[:10] + "..."
	}
	return entryId
}

func printEntry(accountId string, entry models.Entry, isLast bool) {
	direction := "in "
	amount := entry.Amount
	if entry.Kind == models.EntryKindTransfer && entry.PayerId == accountId {
		direction = "out"
		amount = -amount
	}

	fmt.Printf("%s %-9s %s %15s (%s, %s)\n",
		common.BoxPrefix(isLast),
		entry.Kind,
		direction,
		common.FormatMinorUnits(amount),
		formatEntryId(entry.Id),
		entry.CreatedAt.Format("2006-01-02 15:04:05"))
	if line := counterpartyLine(accountId, entry, isLast); line != "" {
		fmt.Println(line)
	}
}

// counterpartyLine names the other side of a transfer. Deposits have none.
func counterpartyLine(accountId string, entry models.Entry, isLast bool) string {
	if entry.Kind != models.EntryKindTransfer {
		return ""
	}
	label, other := "from", entry.PayerId
	if entry.PayerId == accountId {
		label, other = "to", entry.PayeeId
	}
	return fmt.Sprintf("%s   %s %s", common.BoxDetailPrefix(isLast), label, other)
}

func printAccountHeader(account models.Account) {
	fmt.Printf("\n┌─ Account: %s (%s)\n", account.Name, account.Contact)
	fmt.Printf("│  ID: %s\n", account.Id)
	fmt.Printf("│  Balance: %s\n", common.FormatMinorUnits(account.Balance))
	common.PrintBoxSeparator(78)
}

func processAccount(ctx context.Context, account models.Account, registry *ledger.Registry, history int) error {
	printAccountHeader(account)
	if history <= 0 {
		return nil
	}

	entries, err := registry.ListEntries(ctx, account.Id, history, 0)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	for i, entry := range entries {
		printEntry(account.Id, entry, i == len(entries)-1)
	}
	return nil
}

func main() {
	ctx := context.Background()

	contactFlag := flag.String("contact", "", "Filter by account contact email (optional)")
	historyFlag := flag.Int("history", 5, "Number of recent entries to show per account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		common.BootstrapLogger()
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	logger.Info("Starting balance query")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	accounts, err := common.InitializeAccounts(ctx, services.Registry, *contactFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize accounts", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT BALANCE REPORT", common.DefaultWidth)

	stats := balanceStats{}
	for _, account := range accounts {
		stats.totalAccounts++
		stats.totalMinorUnits += account.Balance
		if account.Balance > 0 {
			stats.fundedAccounts++
		}

		if err := processAccount(ctx, account, services.Registry, *historyFlag); err != nil {
			logger.Error("Failed to process account",
				zap.String("account_id", account.Id),
				zap.Error(err))
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d accounts, %d funded, %s held in total",
		stats.totalAccounts, stats.fundedAccounts, common.FormatMinorUnits(stats.totalMinorUnits))
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.Int("accounts_queried", stats.totalAccounts),
		zap.Int("funded_accounts", stats.fundedAccounts))
}
