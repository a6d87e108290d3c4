package handler

import (
	"context"
	"net/http"
	"time"

	"concierge/internal/service"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// HealthHandler reports liveness and build info. database is nil when the interaction log is disabled.
type HealthHandler struct {
	manager  *service.SessionManager
	database Pinger
	build    BuildInfo
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(manager *service.SessionManager, database Pinger, build BuildInfo) *HealthHandler {
	return &HealthHandler{
		manager:  manager,
		database: database,
		build:    build,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":          "healthy",
		"service":         "listing-concierge",
		"version":         h.build.Version,
		"build_time":      h.build.BuildTime,
		"git_commit":      h.build.GitCommit,
		"active_sessions": h.manager.Len(),
		"interaction_log": "disabled",
	}

	if h.database != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.database.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["interaction_log"] = "unavailable"
			body["error"] = err.Error()
		} else {
			body["interaction_log"] = "ok"
		}
	}

	c.JSON(status, body)
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}
