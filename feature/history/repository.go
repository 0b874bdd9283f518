package history

import (
	"context"
	"fmt"
	"strings"

	"sublime-migrate/core/database"

	"gorm.io/gorm"
)

// Repository stores and reads recorded runs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over db. The schema must exist; see
// Migrate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// runColumns are the columns reads depend on.
var runColumns = []string{"run_id", "command", "success", "message", "started_at"}

// Migrate creates or updates the history tables and verifies that the
// resulting schema carries the columns the repository reads.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Run{}, &RunItem{}); err != nil {
		return fmt.Errorf("failed to migrate history schema: %w", err)
	}
	missing, err := database.MissingColumns(db, Run{}.TableName(), runColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("history table %s lacks columns: %s", Run{}.TableName(), strings.Join(missing, ", "))
	}
	return nil
}

// Record stores run and its items atomically.
func (r *Repository) Record(ctx context.Context, run Run) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("failed to record run %s: %w", run.RunID, err)
		}
		if len(run.Items) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(run.Items, 100).Error; err != nil {
			return fmt.Errorf("failed to record items of run %s: %w", run.RunID, err)
		}
		return nil
	})
}

// List returns the most recent runs, newest first, without items.
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its items.
func (r *Repository) Get(ctx context.Context, runID string) (*Run, error) {
	db := r.db.WithContext(ctx)

	var run Run
	if err := db.Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	if err := db.Where("run_id = ?", runID).Order("id").Find(&run.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items of run %s: %w", runID, err)
	}
	return &run, nil
}
