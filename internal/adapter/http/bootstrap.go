package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/zap"

	"userprofiles/internal/adapter/http/routes"
	"userprofiles/internal/core/telemetry"
	"userprofiles/pkg/config"
	"userprofiles/pkg/logger"
)

// StartServer serves HTTP until ctx is cancelled, then drains in-flight
// requests for up to cfg.ShutdownTimeout.
func StartServer(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics *telemetry.AppMetrics) error {
	db, err := OpenGateway(ctx, cfg)

	if err != nil {
		return err
	}

	container := NewContainer(db, cfg, log, metrics)
	defer container.DB.Close()

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		UserHandler:   container.UserHandler,
		WebHandler:    container.WebHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, log, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Logger.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.AppEnv),
			zap.Bool("https_enforced", cfg.EnforceHTTPS))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}
