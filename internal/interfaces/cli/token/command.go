package token

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinderhub/kinderhub/internal/infrastructure/auth"
	"github.com/kinderhub/kinderhub/internal/infrastructure/config"
	"github.com/kinderhub/kinderhub/internal/infrastructure/database"
	"github.com/kinderhub/kinderhub/internal/infrastructure/repository"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

var (
	env        string
	configPath string
	username   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token for a user",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to issue the token for (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is not configured")
	}

	if err := logger.Init(&cfg.Logger, ""); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLoggerWithSlog(logger.WithComponent("token"))

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

	u, err := repository.NewUserRepository(db).GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("user %q not found", username)
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLMinutes)
	signed, expiresAt, err := jwtService.Generate(u.ID(), u.Username())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
