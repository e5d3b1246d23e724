package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/config"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/jwt"
	"kamulog-stk/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// cmdContext is canceled on SIGINT or SIGTERM. Callers must call stop.
func cmdContext() (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables and indexes",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := commonRun()
			if err != nil {
				return err
			}
			db, err := config.ConnectDatabase(cfg)
			if err != nil {
				return err
			}
			defer config.CloseDatabase()

			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			logger.SLog.Info("database migration completed")
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill the demo organization with sample records",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := commonRun()
			if err != nil {
				return err
			}
			db, err := config.ConnectDatabase(cfg)
			if err != nil {
				return err
			}
			defer config.CloseDatabase()

			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			ctx, stop := cmdContext()
			defer stop()
			return config.NewSeeder(db).Run(ctx)
		},
	}
}

func tokenCommand() *cobra.Command {
	var (
		userID string
		orgID  string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := commonRun()
			if err != nil {
				return err
			}
			if !domain.Role(role).Valid() {
				return fmt.Errorf("invalid role %q", role)
			}
			token, err := jwt.GenerateAccessToken(userID, orgID, role, cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "dev-user", "user id claim")
	cmd.Flags().StringVar(&orgID, "org", config.DemoOrganizationID, "organization id claim")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleOfficer), "MEMBER, OFFICER or ADMIN")
	return cmd
}
