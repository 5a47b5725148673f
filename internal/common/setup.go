package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ledger-core-go/internal/database"
	"ledger-core-go/internal/events"
	"ledger-core-go/internal/events/kafka"
	"ledger-core-go/internal/ledger"
	"ledger-core-go/internal/models"
	"ledger-core-go/internal/postgres"
	"ledger-core-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine, variables may come from the shell or the container
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store     store.LedgerStore
	Engine    *ledger.Engine
	Registry  *ledger.Registry
	Publisher events.Publisher
}

func InitializeLogger(level string) (*zap.Logger, func()) {
	zapCfg := zap.NewProductionConfig()
	if level != "" {
		atomicLevel, err := zap.ParseAtomicLevel(level)
		if err != nil {
			log.Printf("Unknown LOG_LEVEL %q, falling back to info\n", level)
		} else {
			zapCfg.Level = atomicLevel
		}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// BootstrapLogger installs a default production logger as the global one so
// failures before the configured logger exists are still reported.
func BootstrapLogger() *zap.Logger {
	logger := zap.Must(zap.NewProduction())
	zap.ReplaceGlobals(logger)
	return logger
}

// InitializeStore opens the store selected by cfg.Database.Driver.
func InitializeStore(ctx context.Context, cfg *models.Config) (store.LedgerStore, error) {
	switch cfg.Database.Driver {
	case models.StoreDriverPostgres:
		pgService, err := postgres.NewService(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return pgService, nil
	case models.StoreDriverSQLite, "":
		dbService, err := database.NewService(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return dbService, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}
}

// InitializeServices wires the store, the engine, the registry and the event
// publisher. Publishing is disabled when no Kafka brokers are configured.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	st, err := InitializeStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Events.KafkaBrokers) > 0 {
		zap.L().Info("Publishing ledger events to Kafka",
			zap.Strings("brokers", cfg.Events.KafkaBrokers),
			zap.String("topic", cfg.Events.Topic))
		publisher = kafka.NewPublisher(cfg.Events.KafkaBrokers, cfg.Events.Topic)
	}

	return &Services{
		Store:     st,
		Engine:    ledger.NewEngine(st, publisher),
		Registry:  ledger.NewRegistry(st),
		Publisher: publisher,
	}, nil
}

func (cs *Services) Close() {
	if cs.Publisher != nil {
		if err := cs.Publisher.Close(); err != nil {
			zap.L().Warn("Failed to close event publisher", zap.Error(err))
		}
	}
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
