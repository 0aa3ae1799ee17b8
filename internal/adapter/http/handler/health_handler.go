package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"userprofiles/internal/core/model/response"
	"userprofiles/internal/core/port"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	db      port.Gateway
	version string
}

func NewHealthHandler(db port.Gateway, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, response.IndexResponse{
		Message:       "User Profile Management API",
		Version:       h.version,
		Documentation: "/web/",
		Endpoints: map[string]string{
			"create_user":        "POST /api/users/",
			"get_profile":        "GET /api/users/{user_id}/profile",
			"update_profile":     "PUT /api/users/{user_id}/profile",
			"delete_account":     "DELETE /api/users/{user_id}/account",
			"deactivate_account": "POST /api/users/{user_id}/deactivate",
		},
	})
}

// Health reports 503 when the database cannot be reached.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "Health check failed", "error", err)

		c.JSON(http.StatusServiceUnavailable, response.HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, response.HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}
