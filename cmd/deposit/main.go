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

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	contactFlag := flag.String("contact", "", "Account contact email (required)")
	amountFlag := flag.String("amount", "", "Amount to deposit, e.g. 100.00 (required)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		common.BootstrapLogger()
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	if *contactFlag == "" || *amountFlag == "" {
		zap.L().Fatal("Both flags are required: --contact and --amount")
	}
	amount, err := common.ParseMinorUnits(*amountFlag)
	if err != nil || amount <= 0 {
		zap.L().Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	account, err := services.Registry.GetAccountByContact(ctx, *contactFlag)
	if err != nil {
		zap.L().Fatal("Account not found", zap.String("contact", *contactFlag), zap.Error(err))
	}

	result, err := services.Engine.Deposit(ctx, account.Id, amount)
	if err != nil {
		zap.L().Fatal("Deposit failed", zap.Error(err))
	}

	fmt.Printf("✓ Deposited %s into %s (entry %s), balance now %s\n",
		common.FormatMinorUnits(amount),
		account.Contact,
		result.EntryId,
		common.FormatMinorUnits(result.Balance))
}
