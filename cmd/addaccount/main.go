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
	"regexp"

	"ledger-core-go/internal/common"
	"ledger-core-go/internal/config"
	"ledger-core-go/internal/store"

	"go.uber.org/zap"
)

var contactRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateContact(contact string) error {
	if contact == "" {
		return fmt.Errorf("contact cannot be empty")
	}
	if !contactRegex.MatchString(contact) {
		return fmt.Errorf("invalid contact email format: %s", contact)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 3 {
		return fmt.Errorf("name must be at least 3 characters")
	}
	return nil
}

func main() {
	ctx := context.Background()

	nameFlag := flag.String("name", "", "Account holder's full name (required)")
	contactFlag := flag.String("contact", "", "Account holder's email address (required)")
	nationalIdFlag := flag.String("national-id", "", "Account holder's national id (required)")
	depositFlag := flag.String("deposit", "", "Opening deposit, e.g. 100.00 (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		common.BootstrapLogger()
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	if *nameFlag == "" || *contactFlag == "" || *nationalIdFlag == "" {
		zap.L().Fatal("All flags are required: --name, --contact and --national-id")
	}
	if err := validateName(*nameFlag); err != nil {
		zap.L().Fatal("Invalid name", zap.Error(err))
	}
	if err := validateContact(*contactFlag); err != nil {
		zap.L().Fatal("Invalid contact", zap.Error(err))
	}

	var openingDeposit int64
	if *depositFlag != "" {
		openingDeposit, err = common.ParseMinorUnits(*depositFlag)
		if err != nil || openingDeposit <= 0 {
			zap.L().Fatal("Invalid opening deposit", zap.String("deposit", *depositFlag), zap.Error(err))
		}
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	account, err := services.Registry.CreateAccount(ctx, *nameFlag, *contactFlag, *nationalIdFlag)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			zap.L().Fatal("Account already exists with this contact or national id", zap.String("contact", *contactFlag))
		}
		zap.L().Fatal("Failed to create account", zap.Error(err))
	}

	balance := account.Balance
	if openingDeposit > 0 {
		deposit, err := services.Engine.Deposit(ctx, account.Id, openingDeposit)
		if err != nil {
			zap.L().Fatal("Account created but opening deposit failed",
				zap.String("account_id", account.Id),
				zap.Error(err))
		}
		balance = deposit.Balance
	}

	fmt.Println()
	common.PrintHeader("ACCOUNT CREATED", common.DefaultWidth)
	fmt.Printf("ID:          %s\n", account.Id)
	fmt.Printf("Name:        %s\n", account.Name)
	fmt.Printf("Contact:     %s\n", account.Contact)
	fmt.Printf("National id: %s\n", account.NationalId)
	fmt.Printf("Balance:     %s\n", common.FormatMinorUnits(balance))
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("Account created successfully", zap.String("id", account.Id))
}
