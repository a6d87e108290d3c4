package handler

import (
	"context"
	"net/http"
	"strconv"

	"concierge/internal/model"
	"concierge/internal/repository"

	"github.com/gin-gonic/gin"
)

// InteractionReader reads back the interaction log
type InteractionReader interface {
	RecentQueries(ctx context.Context, sessionID string, limit int) ([]model.QueryLog, error)
	ActionCounts(ctx context.Context, limit int) ([]repository.ActionCount, error)
}

// InteractionHandler exposes the interaction log. reader is nil when no database is configured.
type InteractionHandler struct {
	reader       InteractionReader
	defaultLimit int
	maxLimit     int
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(reader InteractionReader, defaultLimit, maxLimit int) *InteractionHandler {
	return &InteractionHandler{
		reader:       reader,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// History handles GET /api/v1/sessions/:id/history
func (h *InteractionHandler) History(c *gin.Context) {
	if h.reader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Interaction log is disabled"})
		return
	}

	logs, err := h.reader.RecentQueries(c.Request.Context(), c.Param("id"), h.limit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history: " + err.Error()})
		return
	}
	if logs == nil {
		logs = []model.QueryLog{}
	}

	c.JSON(http.StatusOK, gin.H{"queries": logs})
}

// ActionStats handles GET /api/v1/stats/actions
func (h *InteractionHandler) ActionStats(c *gin.Context) {
	if h.reader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Interaction log is disabled"})
		return
	}

	counts, err := h.reader.ActionCounts(c.Request.Context(), h.limit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count actions: " + err.Error()})
		return
	}
	if counts == nil {
		counts = []repository.ActionCount{}
	}

	c.JSON(http.StatusOK, gin.H{"actions": counts})
}

// limit reads ?limit=, capped at maxLimit
func (h *InteractionHandler) limit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return h.defaultLimit
	}
	if limit > h.maxLimit {
		return h.maxLimit
	}
	return limit
}
