package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ledger-core-go/internal/ledger"
	"ledger-core-go/internal/store"

	"gopkg.in/yaml.v2"
	"go.uber.org/zap"
)

type SeedAccount struct {
	Name           string `yaml:"name"`
	Contact        string `yaml:"contact"`
	NationalId     string `yaml:"national_id"`
	OpeningDeposit string `yaml:"opening_deposit"`
}

type SeedConfig struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// SeedResult summarizes what ApplySeed did
type SeedResult struct {
	Created  int
	Existing int
	Deposits int
}

func LoadSeedConfig(seedFile string) ([]SeedAccount, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, account := range config.Accounts {
		if account.Name == "" {
			return nil, fmt.Errorf("account at index %d missing name", i)
		}
		if account.Contact == "" {
			return nil, fmt.Errorf("account at index %d missing contact", i)
		}
		if account.NationalId == "" {
			return nil, fmt.Errorf("account at index %d missing national_id", i)
		}
		if account.OpeningDeposit != "" {
			amount, err := ParseMinorUnits(account.OpeningDeposit)
			if err != nil {
				return nil, fmt.Errorf("account at index %d: %w", i, err)
			}
			if amount < 0 {
				return nil, fmt.Errorf("account at index %d: opening_deposit %q is negative", i, account.OpeningDeposit)
			}
		}
	}

	return config.Accounts, nil
}

// ApplySeed creates the seeded accounts and credits their opening deposits.
// Accounts whose contact is already registered are left untouched, so a seed
// file can be applied repeatedly.
func ApplySeed(ctx context.Context, registry *ledger.Registry, engine *ledger.Engine, accounts []SeedAccount) (SeedResult, error) {
	var result SeedResult

	for _, seed := range accounts {
		account, err := registry.CreateAccount(ctx, seed.Name, seed.Contact, seed.NationalId)
		if errors.Is(err, store.ErrConflict) {
			zap.L().Info("Seed account already exists, skipping", zap.String("contact", seed.Contact))
			result.Existing++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to create account %s: %w", seed.Contact, err)
		}
		result.Created++

		if seed.OpeningDeposit == "" {
			continue
		}
		amount, err := ParseMinorUnits(seed.OpeningDeposit)
		if err != nil {
			return result, err
		}
		if amount == 0 {
			continue
		}

		deposit, err := engine.Deposit(ctx, account.Id, amount)
		if err != nil {
			return result, fmt.Errorf("failed to credit opening deposit for %s: %w", seed.Contact, err)
		}
		result.Deposits++

		zap.L().Info("Seeded account",
			zap.String("account_id", account.Id),
			zap.String("contact", account.Contact),
			zap.String("opening_balance", FormatMinorUnits(deposit.Balance)))
	}

	return result, nil
}
