package cmd

import (
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/queue"
	"catalog-sync/feature/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadRuntime loads configuration and builds the logger shared by all commands.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// openCatalog connects to the catalog database and migrates its tables.
func openCatalog(cfg database.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := catalog.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return db, nil
}

// openQueue connects to Redis and returns the pipeline queue.
func openQueue(cfg queue.Config) (*queue.Queue, error) {
	rdb, err := queue.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return queue.New(rdb, cfg.Name), nil
}
