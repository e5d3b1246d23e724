package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kamulog-stk/internal/adapters/http/middleware"
	"kamulog-stk/internal/adapters/http/routes"
	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/config"
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/logger"
	"kamulog-stk/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  serveRun,
	}
}

func serveRun(_ *cobra.Command, _ []string) error {
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

	if cfg.IsDev() {
		ctx, stop := cmdContext()
		err := config.NewSeeder(db).Run(ctx)
		stop()
		if err != nil {
			logger.SLog.Warnw("seeding skipped", "error", err)
		}
	}

	if cfg.DigestCron != "" {
		cronService, err := services.NewCronService(repositories.NewStore(db), cfg.DigestCron)
		if err != nil {
			return err
		}
		cronService.Start()
		defer cronService.Stop()
	}

	m := metrics.New()

	app := fiber.New(fiber.Config{
		AppName:      "Kamulog STK API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg, m)
	routes.Setup(app, db, cfg, m)

	go gracefulShutdown(app)

	logger.SLog.Infow("server starting", "port", cfg.Port, "mode", cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.SLog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.SLog.Errorw("error during shutdown", "error", err)
	}
	logger.SLog.Info("server stopped gracefully")
}
