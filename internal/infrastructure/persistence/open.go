package persistence

import (
	"context"
	"fmt"
	"log"

	"jobboard/internal/config"
)

// Open returns the KV selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (KV, error) {
	switch cfg.Storage.Driver {
	case "", config.DriverMemory:
		return NewMemoryKV(), nil
	case config.DriverRedis:
		return OpenRedis(ctx, cfg.Redis, logger)
	case config.DriverSQLite:
		return OpenSQLite(cfg.Storage.SQLitePath)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
