// Package app wires the configured infrastructure for the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/config"
	"github.com/ariefcatur/go-court-reservations/internal/memstore"
	"github.com/ariefcatur/go-court-reservations/internal/postgres"
	"github.com/ariefcatur/go-court-reservations/internal/redisx"
	"github.com/ariefcatur/go-court-reservations/internal/seed"
)

// OpenStore returns the store selected by STORE_DRIVER and a func that
// releases it. The memory store always starts from the demo club; Postgres is
// migrated and, with POSTGRES_SEED, loaded with the same demo data. Demo
// dates are laid out relative to today in the club's time zone.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (booking.Store, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	now := time.Now().In(loc)

	if cfg.StoreDriver == config.DriverMemory {
		s, err := memstore.NewDemo(now)
		if err != nil {
			return nil, nil, fmt.Errorf("demo store: %w", err)
		}
		log.Info("using in-memory store with demo data")
		return s, func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	s := postgres.New(pool)
	if cfg.PostgresSeed {
		ds, err := seed.Demo(now)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("demo data: %w", err)
		}
		if err := postgres.Seed(ctx, s, ds); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		log.Info("postgres seeded with demo data")
	}
	return s, pool.Close, nil
}

// OpenCache connects to REDIS_ADDR. Without Redis, or when it does not answer,
// it returns a nil cache and the callers fall back to the store.
func OpenCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (*redisx.Cache, func()) {
	if !cfg.RedisEnabled() {
		log.Info("redis disabled")
		return nil, func() {}
	}
	rdb, err := redisx.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		log.Warn("redis unavailable, running without cache", "addr", cfg.RedisAddr, "err", err)
		return nil, func() {}
	}
	return &redisx.Cache{RDB: rdb, Service: cfg.ServiceName}, func() { _ = rdb.Close() }
}
