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
	"os"

	"ledger-core-go/internal/common"
	"ledger-core-go/internal/config"
	"ledger-core-go/internal/models"

	"go.uber.org/zap"
)

func printReconciliation(r models.Reconciliation, isLast bool) {
	status := "ok"
	if !r.Balanced() {
		status = "MISMATCH"
	}
	fmt.Printf("%s %s  stored=%s computed=%s  %s\n",
		common.BoxPrefix(isLast),
		r.AccountId,
		common.FormatMinorUnits(r.StoredBalance),
		common.FormatMinorUnits(r.ComputedBalance()),
		status)
}

func main() {
	ctx := context.Background()

	contactFlag := flag.String("contact", "", "Reconcile a single account by contact email (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		common.BootstrapLogger()
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	var results []models.Reconciliation
	var reconcileErr error
	if *contactFlag != "" {
		account, err := services.Registry.GetAccountByContact(ctx, *contactFlag)
		if err != nil {
			logger.Fatal("Account not found", zap.String("contact", *contactFlag), zap.Error(err))
		}
		result, err := services.Registry.Reconcile(ctx, account.Id)
		if result != nil {
			results = append(results, *result)
		}
		reconcileErr = err
	} else {
		results, reconcileErr = services.Registry.ReconcileAll(ctx)
	}

	common.PrintHeader("RECONCILIATION REPORT", common.WideWidth)
	for i, r := range results {
		printReconciliation(r, i == len(results)-1)
	}

	exitCode := 0
	if reconcileErr != nil {
		logger.Error("Reconciliation found problems", zap.Error(reconcileErr))
		common.PrintFooter("RESULT: balances do not match the entry log", common.WideWidth)
		exitCode = 1
	} else {
		common.PrintFooter(fmt.Sprintf("RESULT: %d accounts reconciled", len(results)), common.WideWidth)
	}

	services.Close()
	loggerCleanup()
	os.Exit(exitCode)
}
