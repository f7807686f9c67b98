package main

import (
	"github.com/spf13/cobra"

	"github.com/kinderhub/kinderhub/internal/interfaces/cli/migrate"
	"github.com/kinderhub/kinderhub/internal/interfaces/cli/seed"
	"github.com/kinderhub/kinderhub/internal/interfaces/cli/server"
	"github.com/kinderhub/kinderhub/internal/interfaces/cli/token"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// @title kinderhub RBAC API
// @version 1.0
// @description Role, permission and user role administration for the kindergarten platform.
// @BasePath /api/v1/rbac
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	rootCmd := &cobra.Command{
		Use:          "kinderhub",
		Short:        "kinderhub role and permission service",
		Long:         `kinderhub manages the roles, permissions and user role grants of the kindergarten platform.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("command failed", "error", err)
	}
}
