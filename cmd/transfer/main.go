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

type transferRequest struct {
	from   string
	to     string
	amount int64
}

func parseAndValidateFlags() (*transferRequest, error) {
	fromFlag := flag.String("from", "", "Payer contact email (required)")
	toFlag := flag.String("to", "", "Payee contact email (required)")
	amountFlag := flag.String("amount", "", "Amount to transfer, e.g. 12.50 (required)")
	flag.Parse()

	if *fromFlag == "" || *toFlag == "" || *amountFlag == "" {
		return nil, fmt.Errorf("all flags are required: --from, --to, --amount")
	}

	amount, err := common.ParseMinorUnits(*amountFlag)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	return &transferRequest{
		from:   *fromFlag,
		to:     *toFlag,
		amount: amount,
	}, nil
}

func printTransferSummary(req *transferRequest, entryId string, payerBalance int64) {
	fmt.Println()
	common.PrintHeader("TRANSFER COMMITTED", common.DefaultWidth)
	fmt.Printf("Entry:          %s\n", entryId)
	fmt.Printf("From:           %s\n", req.from)
	fmt.Printf("To:             %s\n", req.to)
	fmt.Printf("Amount:         %s\n", common.FormatMinorUnits(req.amount))
	fmt.Printf("Payer balance:  %s\n", common.FormatMinorUnits(payerBalance))
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()
}

func main() {
	ctx := context.Background()

	req, err := parseAndValidateFlags()
	if err != nil {
		common.BootstrapLogger()
		zap.L().Fatal("Invalid arguments", zap.Error(err))
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

	payer, err := services.Registry.GetAccountByContact(ctx, req.from)
	if err != nil {
		zap.L().Fatal("Payer not found", zap.String("contact", req.from), zap.Error(err))
	}
	payee, err := services.Registry.GetAccountByContact(ctx, req.to)
	if err != nil {
		zap.L().Fatal("Payee not found", zap.String("contact", req.to), zap.Error(err))
	}

	zap.L().Info("Submitting transfer",
		zap.String("payer_id", payer.Id),
		zap.String("payee_id", payee.Id),
		zap.Int64("amount", req.amount))

	result, err := services.Engine.Transfer(ctx, payer.Id, payee.Id, req.amount)
	if err != nil {
		zap.L().Fatal("Transfer failed", zap.Error(err))
	}

	printTransferSummary(req, result.EntryId, result.PayerBalance)
}
