package main

import (
	"context"
	"flag"

	"ledger-core-go/internal/common"
	"ledger-core-go/internal/config"

	"go.uber.org/zap"
)

func runInit(ctx context.Context, services *common.Services) {
	zap.L().Info("Initializing ledger store")

	if err := services.Store.Ping(ctx); err != nil {
		zap.L().Fatal("Store is not reachable", zap.Error(err))
	}

	accounts, err := services.Registry.ListAccounts(ctx)
	if err != nil {
		zap.L().Fatal("Failed to read accounts from store", zap.Error(err))
	}

	zap.L().Info("Initialization complete", zap.Int("accounts", len(accounts)))
}

func seedAccounts(ctx context.Context, services *common.Services, seedFile string) {
	zap.L().Info("Loading seed file", zap.String("file", seedFile))
	seeds, err := common.LoadSeedConfig(seedFile)
	if err != nil {
		zap.L().Fatal("Failed to load seed file", zap.Error(err))
	}
	zap.L().Info("Seed file loaded", zap.Int("count", len(seeds)))

	result, err := common.ApplySeed(ctx, services.Registry, services.Engine, seeds)
	if err != nil {
		zap.L().Fatal("Seeding stopped on error",
			zap.Int("created", result.Created),
			zap.Int("existing", result.Existing),
			zap.Int("deposits", result.Deposits),
			zap.Error(err))
	}

	zap.L().Info("Seeding completed successfully",
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("deposits", result.Deposits))
}

func main() {
	ctx := context.Background()

	initFlag := flag.Bool("init", false, "Only create the schema, do not seed accounts")
	seedFlag := flag.String("seed", "", "Path to the seed file (default: SEED_FILE)")
	flag.Parse()

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

	runInit(ctx, services)
	if *initFlag {
		return
	}

	seedFile := cfg.SeedFile
	if *seedFlag != "" {
		seedFile = *seedFlag
	}
	seedAccounts(ctx, services, seedFile)
}
