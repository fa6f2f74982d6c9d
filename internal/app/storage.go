package app

import (
	"context"
	"fmt"

	"github.com/adanyl0v/taskboard/internal/config"
	"github.com/adanyl0v/taskboard/internal/storage"
	"github.com/adanyl0v/taskboard/internal/storage/memory"
)

type migrator interface {
	Migrate(ctx context.Context) error
}

var (
	globalStore      *storage.Store
	globalMigrator   migrator
	globalDisconnect func()
)

// MustConnectStore opens the backend named by STORAGE_DRIVER.
func MustConnectStore() {
	cfg := config.Global()

	switch cfg.Storage.Driver {
	case storage.DriverPostgres:
		db := mustConnectPostgres(cfg.Postgres)
		globalStore, globalMigrator, globalDisconnect = db.Store(), db, disconnectPostgres
	case storage.DriverMongo:
		db := mustConnectMongo(cfg.Mongo)
		globalStore, globalMigrator, globalDisconnect = db.Store(), db, disconnectMongo
	case storage.DriverMemory:
		globalLogger.Warn().Msg("using in-memory storage, data is lost on exit")
		globalStore, globalMigrator, globalDisconnect = memory.New().Store(), nil, func() {}
	default:
		err := fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
		globalLogger.Error().
			Err(err).
			Msg("failed to connect store")
		panic(err)
	}
}

func DisconnectStore() {
	if globalDisconnect != nil {
		globalDisconnect()
	}
}

// MustMigrate creates the tables or indexes the backend needs.
func MustMigrate() {
	if globalMigrator == nil {
		globalLogger.Info().Msg("storage driver needs no migration")
		return
	}

	err := globalMigrator.Migrate(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to migrate store")
		panic(err)
	}
	globalLogger.Info().
		Str("driver", config.Global().Storage.Driver).
		Msg("migrated store")
}
