package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinderhub/kinderhub/internal/infrastructure/config"
	"github.com/kinderhub/kinderhub/internal/infrastructure/database"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/seeds"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

var (
	env        string
	configPath string
	seedFile   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load roles, permissions and users from a YAML file",
		Long: `Upsert the permission tree, roles, users and their grants described in a
seed file. Rows that already exist are matched by code or username and left
alone, so the command can be run repeatedly.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "./configs/seeds.yaml", "Seed file to load")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, ""); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLoggerWithSlog(logger.WithComponent("seed"))

	f, err := seeds.LoadFile(seedFile)
	if err != nil {
		return err
	}

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := seeds.NewSeeder(db, log).Apply(ctx, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Seeded %d permissions, %d roles, %d users, %d role grants, %d user grants from %s\n",
		summary.Permissions, summary.Roles, summary.Users, summary.RolePermissions, summary.UserRoles, seedFile)
	return nil
}
