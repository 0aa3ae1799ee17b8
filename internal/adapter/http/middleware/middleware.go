package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"userprofiles/internal/core/telemetry"
	"userprofiles/pkg/logger"
)

// SetupGinMiddleware installs the request pipeline shared by every route:
// tracing, request context, access log, metrics and the HTTPS redirect.
func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, log *logger.Logger, enforceHTTPS bool) {
	router.Use(otelgin.Middleware(serviceName))
	router.Use(CurrentMiddleware())

	if log != nil {
		router.Use(LoggingMiddleware(log))
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	var zapLogger *zap.Logger
	if log != nil {
		zapLogger = log.Logger.Logger
	}

	router.Use(NewHTTPSEnforcer(enforceHTTPS, zapLogger).HTTPSMiddleware())
}

// CORS allows any origin, method and header.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:   []string{RequestIDHeader},
	})
}
