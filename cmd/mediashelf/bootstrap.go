package main

import (
	"context"
	"fmt"

	"github.com/datallboy/mediashelf/internal/app"
	"github.com/datallboy/mediashelf/internal/catalog"
	"github.com/datallboy/mediashelf/internal/infra/config"
	"github.com/datallboy/mediashelf/internal/infra/logger"
	"github.com/datallboy/mediashelf/internal/offline"
	"github.com/datallboy/mediashelf/internal/store"
	"github.com/datallboy/mediashelf/internal/worker"
)

// components are the long-lived pieces built from the config.
type components struct {
	app    *app.Context
	store  *store.PersistentStore
	worker *worker.Worker
	log    *logger.Logger
}

func (c *components) close() {
	if err := c.store.Close(); err != nil {
		c.log.Warn("Closing store: %v", err)
	}
	_ = c.log.Close()
}

// bootstrap builds everything from the config. With console false the logger writes
// to the log file only, so command output on stdout stays clean.
func bootstrap(ctx context.Context, console bool) (*components, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), console && cfg.Log.IncludeStdout)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	items := cfg.Catalog
	if len(items) == 0 {
		items = catalog.Default()
	}
	lib, err := catalog.New(items)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	s, err := store.NewPersistentStore(cfg.Store.SQLitePath, cfg.Store.BlobDir)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	log.Debug("Database ready at %s (schema v%d)", cfg.Store.SQLitePath, s.SchemaVersion())

	w := worker.New(s, log, worker.Options{
		CacheName:      cfg.Cache.Name,
		AllowedOrigins: cfg.Cache.AllowedOrigins,
		MailboxSize:    cfg.Worker.MailboxSize,
		MaxConcurrency: cfg.Worker.MaxConcurrency,
		RestartDelay:   cfg.Worker.RestartDelay,
	})

	appCtx := app.NewContext(cfg, log)
	appCtx.Library = lib
	appCtx.Worker = w
	appCtx.Cache = s
	appCtx.Offline = offline.NewController(ctx, w, s, log)

	return &components{app: appCtx, store: s, worker: w, log: log}, nil
}
