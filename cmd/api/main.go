package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	server "userprofiles/internal/adapter/http"
	"userprofiles/internal/adapter/telemetry"
	"userprofiles/pkg/config"
	"userprofiles/pkg/logger"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry, err := telemetry.NewContainer(ctx, cfg, slog.Default())

	if err != nil {
		logger.Logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
	}()

	telemetry.AppMetrics.StartSystemMetrics(ctx, 10*time.Second)

	if err := server.StartServer(ctx, cfg, logger, telemetry.AppMetrics); err != nil {
		logger.Logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Logger.Info("Shutting down gracefully...")
}
