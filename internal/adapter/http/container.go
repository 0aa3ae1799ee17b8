package http

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"

	"userprofiles/internal/adapter/database/postgres"
	"userprofiles/internal/adapter/database/repository"
	"userprofiles/internal/adapter/database/sqlite"
	"userprofiles/internal/adapter/http/handler"
	"userprofiles/internal/adapter/http/validation"
	"userprofiles/internal/core/port"
	"userprofiles/internal/core/service"
	"userprofiles/internal/core/telemetry"
	"userprofiles/pkg/config"
	"userprofiles/pkg/logger"
)

type Container struct {
	DB port.Gateway

	UserHandler   *handler.UserHandler
	WebHandler    *handler.WebHandler
	HealthHandler *handler.HealthHandler
}

func NewContainer(db port.Gateway, cfg *config.Config, log *logger.Logger, metrics *telemetry.AppMetrics) *Container {
	probe := telemetry.NewOTELProbe(slog.Default(), metrics)
	validator := validation.NewRequestValidator()

	userRepo := repository.NewUserRepository(db, probe)
	userSvc := service.NewUserService(userRepo, service.WithTelemetry(probe))

	return &Container{
		DB: db,

		UserHandler:   handler.NewUserHandler(userSvc, validator, log),
		WebHandler:    handler.NewWebHandler(userSvc, validator, log),
		HealthHandler: handler.NewHealthHandler(db, cfg.ServiceVersion),
	}
}

// OpenGateway picks the database gateway from the DATABASE_URL scheme.
func OpenGateway(ctx context.Context, cfg *config.Config) (port.Gateway, error) {
	url := cfg.DatabaseURL

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.New(ctx, url)
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "sqlite3://"),
		strings.HasPrefix(url, "file:"), url == ":memory:":
		level := zerolog.InfoLevel
		if cfg.LogLevel == "debug" {
			level = zerolog.DebugLevel
		}

		return sqlite.New(url, sqlite.WithLogLevel(level), sqlite.WithDBName(cfg.ServiceName))
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", url)
	}
}
