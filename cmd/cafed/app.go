package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"console-cafe-backend/config"
	"console-cafe-backend/internal/db"
	"console-cafe-backend/internal/logger"
	"console-cafe-backend/internal/registry"
	"console-cafe-backend/internal/settings"
	"console-cafe-backend/internal/store"
)

// app is the configuration, logger and record store shared by the commands.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store store.Store
	close func(ctx context.Context) error
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration from %s: %w", configPath, err)
	}

	log, err := logger.New(cfg.Logging.Environment)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	log.Info("configuration loaded", zap.String("path", configPath), zap.String("driver", cfg.Database.Driver))
	if len(cfg.Defaulted) > 0 {
		log.Warn("configuration values missing or invalid; using defaults", zap.Strings("fields", cfg.Defaulted))
	}

	a := &app{cfg: cfg, log: log}
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, database, err := db.ConnectMongo(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.store = store.NewMongoStore(database, cfg.Database.MongoTransactions)
		a.close = client.Disconnect
	default:
		gormDB, err := db.Init(&cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, err
		}
		a.store = store.NewGormStore(gormDB)
		a.close = func(context.Context) error { return sqlDB.Close() }
	}
	log.Info("record store initialized")
	return a, nil
}

// seed stores the default settings and device fleet on first run.
func (a *app) seed(ctx context.Context, set *settings.Service) error {
	if _, err := set.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	reg := registry.New(a.store, a.log)
	if _, err := reg.Seed(ctx, a.cfg.Venue.DeviceCount, a.cfg.Venue.DeviceNameFormat); err != nil {
		return fmt.Errorf("seed devices: %w", err)
	}
	return nil
}

func (a *app) shutdown(ctx context.Context) {
	if a.close != nil {
		if err := a.close(ctx); err != nil {
			a.log.Error("failed to close record store", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
