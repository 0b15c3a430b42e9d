package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kuhlman-labs/descope-migrator/internal/config"
	"github.com/kuhlman-labs/descope-migrator/internal/models"
)

// Database is the audit store: it keeps one row per migration run plus one
// row per written item, so operators can answer "what did run X touch" after
// the process exits. The migration itself never reads from it.
type Database struct {
	db  *gorm.DB
	cfg config.DatabaseConfig
}

// NewDatabase opens the configured database and auto-migrates the schema.
func NewDatabase(cfg config.DatabaseConfig) (*Database, error) {
	// Ensure data directory exists for SQLite
	if cfg.Type == "sqlite" {
		dir := filepath.Dir(cfg.DSN)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dialer, err := NewDialectDialer(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialer.Dialect(), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := dialer.ConfigureConnection(db); err != nil {
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db, cfg: cfg}, nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun persists a run and its items in one transaction.
func (d *Database) SaveRun(ctx context.Context, run *models.MigrationRun, items []models.MigrationItem) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		for i := range items {
			items[i].RunID = run.ID
		}
		if len(items) > 0 {
			if err := tx.CreateInBatches(items, 100).Error; err != nil {
				return fmt.Errorf("failed to save run items: %w", err)
			}
		}
		return nil
	})
}

// GetRun retrieves one run by ID.
func (d *Database) GetRun(ctx context.Context, id string) (*models.MigrationRun, error) {
	var run models.MigrationRun
	if err := d.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (d *Database) ListRuns(ctx context.Context, limit int) ([]models.MigrationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.MigrationRun
	err := d.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ListRunItems returns every item recorded for a run, optionally filtered by
// kind. An empty kind returns all items.
func (d *Database) ListRunItems(ctx context.Context, runID, kind string) ([]models.MigrationItem, error) {
	q := d.db.WithContext(ctx).Where("run_id = ?", runID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var items []models.MigrationItem
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list run items: %w", err)
	}
	return items, nil
}
