package main

import (
	"context"
	"fmt"

	"startup-risk-lab/internal/cache"
	"startup-risk-lab/internal/config"
	"startup-risk-lab/internal/orchestrator"
	"startup-risk-lab/internal/simulation"
	"startup-risk-lab/internal/storage"
	chstore "startup-risk-lab/internal/storage/clickhouse"
	"startup-risk-lab/internal/storage/memory"
	pgstore "startup-risk-lab/internal/storage/postgres"
)

// app holds the wired orchestrator and the resources to release after a command.
type app struct {
	orch    *orchestrator.Orchestrator
	closers []func()
}

// newApp wires stores, cache and engine from the loaded config.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	// 1. Stores
	var (
		resultStore  storage.ScenarioResultStore = memory.NewScenarioResultStore()
		outcomeStore storage.IterationOutcomeStore
	)
	if cfg.Storage.Backend == "postgres" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN, cfg.Storage.PostgresMaxConns)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		resultStore = pgstore.NewScenarioResultStore(pool)
		logger.Debug().Msg("using postgres result store")
	}
	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			return nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })
		outcomeStore = chstore.NewIterationOutcomeStore(conn)
		logger.Debug().Msg("using clickhouse outcome store")
	}

	// 2. Result cache
	var resultCache cache.ResultCache
	switch cfg.Cache.Backend {
	case "memory":
		resultCache = cache.NewMemory(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	case "redis":
		rc, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		resultCache = rc
	default:
		resultCache = cache.Nop{}
	}

	// 3. Engine and orchestrator
	engine := simulation.New(simulation.Options{Workers: cfg.Engine.Workers, Logger: &logger})
	a.orch = orchestrator.New(orchestrator.Options{
		Engine:       engine,
		ResultStore:  resultStore,
		OutcomeStore: outcomeStore,
		Cache:        resultCache,
		Logger:       &logger,
	})
	ok = true
	return a, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// withApp runs fn with a wired app and releases it afterwards.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
