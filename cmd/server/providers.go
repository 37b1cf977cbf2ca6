package main

import (
	"context"
	"log"

	"fittrack_backend/internal/config"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/platform/database"
	"fittrack_backend/internal/platform/metrics"
	"fittrack_backend/internal/provisioning"
	"fittrack_backend/internal/schema"
	"fittrack_backend/internal/stats"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideDB opens the database, installs the provisioning trigger and
// migrates the schema. The returned cleanup closes the pool and flushes logs.
func provideDB(cfg *config.Config, logger *zap.Logger, trigger *provisioning.Trigger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db, logger)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	if err := db.Use(trigger); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := schema.Migrate(context.Background(), db, logger); err != nil {
		cleanup()
		return nil, nil, err
	}
	return db, cleanup, nil
}

func provideSnapshotter(db *gorm.DB, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *stats.Snapshotter {
	return stats.NewSnapshotter(db, cfg.StatsSnapshotConcurrency, logger, m)
}

func provideIdentityHandler(service identity.Service, cfg *config.Config, logger *zap.Logger) *identity.Handler {
	if cfg.IdentityHookSecret == "" {
		logger.Warn("IDENTITY_HOOK_SECRET not set; the identity hook endpoint rejects every call.")
	}
	return identity.NewHandler(service, cfg.IdentityHookSecret, logger)
}
