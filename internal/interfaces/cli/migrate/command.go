package migrate

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/infrastructure/config"
	"github.com/kinderhub/kinderhub/internal/infrastructure/database"
	"github.com/kinderhub/kinderhub/internal/infrastructure/migration"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

var (
	env        string
	configPath string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the embedded schema migrations.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migration.Migrator, log logger.Interface) error {
				log.Infow("running up migrations", "environment", env)
				if err := m.Up(ctx); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				log.Infow("migrations completed successfully")
				return nil
			})
		},
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migration.Migrator, log logger.Interface) error {
				log.Infow("running down migrations", "environment", env, "steps", steps)
				if err := m.Down(ctx, steps); err != nil {
					return fmt.Errorf("down migration failed: %w", err)
				}
				log.Infow("down migration completed successfully")
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migration.Migrator, log logger.Interface) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "\nMigration Status (%s):\n", env)
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(out, "  %05d  %-8s %s\n", s.Version, state, s.Path)
				}
				return nil
			})
		},
	}
}

func withMigrator(cmd *cobra.Command, fn func(ctx context.Context, m *migration.Migrator, log logger.Interface) error) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, ""); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLoggerWithSlog(logger.WithComponent("migrate"))

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer func(db *gorm.DB) {
		if err := database.Close(db); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}(db)

	m, err := migration.NewMigrator(db, goose.DialectMySQL, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, m, log)
}
