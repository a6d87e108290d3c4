package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"concierge/internal/model"
	"concierge/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler handles session lifecycle, messages and deck navigation
type SessionHandler struct {
	manager     *service.SessionManager
	waitTimeout time.Duration
	logger      *zap.Logger
}

// NewSessionHandler creates a new session handler. waitTimeout bounds ?wait=true requests.
func NewSessionHandler(manager *service.SessionManager, waitTimeout time.Duration, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{
		manager:     manager,
		waitTimeout: waitTimeout,
		logger:      logger,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	session := h.manager.Create()
	c.JSON(http.StatusCreated, session.Snapshot())
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.manager.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitMessage handles POST /api/v1/sessions/:id/messages
func (h *SessionHandler) SubmitMessage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	done := session.SubmitQuery(req.Message)
	if done == nil {
		c.JSON(http.StatusOK, session.Snapshot())
		return
	}

	if !wantsWait(c) {
		c.JSON(http.StatusAccepted, session.Snapshot())
		return
	}
	if !h.wait(c, done) {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Events handles GET /api/v1/sessions/:id/events - SSE stream of snapshots
func (h *SessionHandler) Events(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	h.logger.Debug("Event stream opened", zap.String("session_id", session.ID()))
	defer h.logger.Debug("Event stream closed", zap.String("session_id", session.ID()))

	ctx := c.Request.Context()
	for {
		// Read the change channel before the snapshot so no transition is missed
		changes := session.Changes()
		sendSSE(c, "snapshot", session.Snapshot())
		flusher.Flush()

		select {
		case <-changes:
		case <-ctx.Done():
			return
		}
	}
}

// Navigate handles POST /api/v1/sessions/:id/deck/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session.Navigate(req.Delta)
	c.JSON(http.StatusOK, session.Snapshot())
}

// Focus handles POST /api/v1/sessions/:id/deck/focus
func (h *SessionHandler) Focus(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.FocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session.Focus(*req.Index)
	c.JSON(http.StatusOK, session.Snapshot())
}

// session resolves :id, answering 404 when unknown
func (h *SessionHandler) session(c *gin.Context) (*service.Session, bool) {
	return lookupSession(c, h.manager)
}

// wait blocks until done or the wait timeout, answering 504 on timeout
func (h *SessionHandler) wait(c *gin.Context, done <-chan struct{}) bool {
	return waitFor(c, done, h.waitTimeout)
}

func lookupSession(c *gin.Context, manager *service.SessionManager) (*service.Session, bool) {
	session, err := manager.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return session, true
}

func wantsWait(c *gin.Context) bool {
	switch c.Query("wait") {
	case "1", "true", "yes":
		return true
	}
	return false
}

func waitFor(c *gin.Context, done <-chan struct{}, timeout time.Duration) bool {
	ctx := c.Request.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := service.Wait(ctx, done); err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Timed out waiting for result"})
		return false
	}
	return true
}

// respondError maps rejected transitions to status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrListingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidContact),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrEmptyStyle):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrOverlayClosed),
		errors.Is(err, service.ErrDetailOpen),
		errors.Is(err, service.ErrNotRenovating),
		errors.Is(err, service.ErrInvalidVariant):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
