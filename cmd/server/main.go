package main

import (
	"fmt"
	"os"

	"kamulog-stk/internal/config"
	"kamulog-stk/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	_ "kamulog-stk/docs" // Swagger docs
)

// @title Kamulog STK API
// @version 1.0
// @description Dernek ve vakıf yönetim kayıtları: yönetim kurulu kararları, üyelik ve genel kurul

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const programName = "kamulog-stk"

// commonRun loads configuration and initializes the process-wide logger
func commonRun() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.IsDev()); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	// Toss the undo func
	if _, err := maxprocs.Set(maxprocs.Logger(logger.SLog.Infof)); err != nil {
		return nil, fmt.Errorf("set GOMAXPROCS: %w", err)
	}
	logger.SLog.Infow("starting", "component", programName, "mode", cfg.AppMode)
	return cfg, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Governance records service for associations and foundations",
		// serve is the default command
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd, args)
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		seedCommand(),
		tokenCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.SLog.Errorw("command failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
