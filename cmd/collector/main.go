// main.go - development collector server
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"surveytrace/internal/collector"
	"surveytrace/internal/config"
	"surveytrace/internal/logging"
	"surveytrace/internal/telemetry"
)

const defaultShutdownTimeout = 10 * time.Second

func main() {
	cfg := config.GetConfig()
	logger := logging.NewLogger(cfg)
	translator := telemetry.NewTranslatorForLocale(cfg.Locale)

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName + "-collector",
		DisableStartupMessage: cfg.IsProduction(),
	})

	handler := collector.NewHandler(logger, collector.NewRecentCache(), translator)
	handler.Register(app)

	go func() {
		logger.Info("collector listening", slog.String("port", cfg.CollectorPort))
		if err := app.Listen(":" + cfg.CollectorPort); err != nil {
			log.Fatalf("Failed to start collector: %v", err)
		}
	}()

	waitForShutdownSignal(app, logger)
}

// waitForShutdownSignal sets up signal handling and performs graceful shutdown
func waitForShutdownSignal(app *fiber.App, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigChan
	logger.Info("received signal, shutting down", slog.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("error during shutdown", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("collector shutdown complete")
}
