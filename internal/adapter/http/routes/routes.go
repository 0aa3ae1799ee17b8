package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"userprofiles/internal/adapter/http/handler"
	. "userprofiles/internal/adapter/http/helper"
	"userprofiles/internal/adapter/http/middleware"
	"userprofiles/internal/adapter/http/web"
	"userprofiles/internal/core/telemetry"
	"userprofiles/pkg/config"
	"userprofiles/pkg/logger"
)

type HandlersConfig struct {
	UserHandler   *handler.UserHandler
	WebHandler    *handler.WebHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, log *logger.Logger, cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupGinMiddleware(router, cfg.ServiceName, metrics, log, cfg.EnforceHTTPS)

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	registerRoutes(router, handlers)

	return router
}

// SetupRouterForTests wires the routes without tracing, metrics or access
// logs.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.CORS())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/", handlers.HealthHandler.Index)
		router.GET("/health", handlers.HealthHandler.Health)
	}

	if handlers.UserHandler != nil {
		setupAPIRoutes(router, handlers.UserHandler)
	}

	if handlers.WebHandler != nil {
		router.SetHTMLTemplate(web.Templates())
		router.StaticFS("/static", web.Static())
		setupWebRoutes(router, handlers.WebHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		if handlers.WebHandler != nil && strings.HasPrefix(c.Request.URL.Path, "/web") {
			handlers.WebHandler.NotFound(c)
			return
		}

		SendNotFoundError(c, "Route not found")
	})
}

func setupAPIRoutes(router *gin.Engine, userHandler *handler.UserHandler) {
	api := router.Group("/api/users")
	{
		api.POST("/", userHandler.CreateUser)
		api.GET("/:id/profile", userHandler.GetProfile)
		api.PUT("/:id/profile", userHandler.UpdateProfile)
		api.DELETE("/:id/account", userHandler.DeleteAccount)
		api.POST("/:id/deactivate", userHandler.DeactivateAccount)
	}
}

func setupWebRoutes(router *gin.Engine, webHandler *handler.WebHandler) {
	pages := router.Group("/web")
	{
		pages.GET("/", webHandler.Index)
		pages.GET("/users", webHandler.ListUsers)
		pages.GET("/users/create", webHandler.CreateForm)
		pages.POST("/users/create", webHandler.CreateUser)
		pages.GET("/users/:id/profile", webHandler.Profile)
		pages.GET("/users/:id/edit", webHandler.EditForm)
		pages.POST("/users/:id/edit", webHandler.UpdateUser)
		pages.POST("/users/:id/delete", webHandler.DeleteUser)
	}
}
