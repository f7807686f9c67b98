// Package migration applies the versioned SQL schema with goose. Scripts are
// embedded in the binary.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

//go:embed scripts/*.sql
var scripts embed.FS

// Migrator runs the embedded migrations against one database.
type Migrator struct {
	provider *goose.Provider
	logger   logger.Interface
}

// NewMigrator prepares a goose provider for db. dialect is a goose dialect,
// goose.DialectMySQL in production.
func NewMigrator(db *gorm.DB, dialect goose.Dialect, log logger.Interface) (*Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return newMigrator(sqlDB, dialect, log)
}

func newMigrator(sqlDB *sql.DB, dialect goose.Dialect, log logger.Interface) (*Migrator, error) {
	fsys, err := fs.Sub(scripts, "scripts")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration scripts: %w", err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}

	return &Migrator{
		provider: provider,
		logger:   log,
	}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	from, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	m.logger.Infow("starting goose migration", "version", from)

	results, err := m.provider.Up(ctx)
	if err != nil {
		m.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		m.logger.Infow("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	to, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	m.logger.Infow("migration completed successfully", "from_version", from, "to_version", to)
	return nil
}

// Down rolls back the given number of migrations, newest first.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	m.logger.Infow("starting down migration", "steps", steps)

	for i := 0; i < steps; i++ {
		result, err := m.provider.Down(ctx)
		if err != nil {
			m.logger.Errorw("down migration failed", "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		if result != nil {
			m.logger.Infow("migration rolled back", "version", result.Source.Version)
		}
	}

	m.logger.Infow("down migration completed successfully")
	return nil
}

// MigrationStatus is one row of Status output.
type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// Sources lists the embedded migrations without touching the database.
func (m *Migrator) Sources() []MigrationStatus {
	sources := m.provider.ListSources()
	out := make([]MigrationStatus, 0, len(sources))
	for _, s := range sources {
		out = append(out, MigrationStatus{Version: s.Version, Path: s.Path})
	}
	return out
}
