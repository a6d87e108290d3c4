package handler

import (
	"net/http"
	"strconv"
	"time"

	"concierge/internal/model"
	"concierge/internal/service"

	"github.com/gin-gonic/gin"
)

// EnhancementHandler handles renovation requests on the open renovation panel
type EnhancementHandler struct {
	manager     *service.SessionManager
	waitTimeout time.Duration
}

// NewEnhancementHandler creates a new enhancement handler
func NewEnhancementHandler(manager *service.SessionManager, waitTimeout time.Duration) *EnhancementHandler {
	return &EnhancementHandler{
		manager:     manager,
		waitTimeout: waitTimeout,
	}
}

// Styles handles GET /api/v1/renovation/styles
func (h *EnhancementHandler) Styles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"styles": model.RenovationStyles,
		"modes":  []model.RenovationMode{model.ModeRoom, model.ModeHouse},
	})
}

// Job handles GET /api/v1/enhancements/:listing_id/:image_index - the shared cache entry of one image
func (h *EnhancementHandler) Job(c *gin.Context) {
	imageIndex, err := strconv.Atoi(c.Param("image_index"))
	if err != nil || imageIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_index must be a non-negative integer"})
		return
	}

	key := model.JobKey{ListingID: model.ListingID(c.Param("listing_id")), ImageIndex: imageIndex}
	c.JSON(http.StatusOK, h.manager.Job(key))
}

// Request handles POST /api/v1/sessions/:id/enhancements
func (h *EnhancementHandler) Request(c *gin.Context) {
	session, ok := lookupSession(c, h.manager)
	if !ok {
		return
	}

	var req model.EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	done, err := session.RequestEnhancement(req.Style, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	if !wantsWait(c) {
		c.JSON(http.StatusAccepted, session.Snapshot())
		return
	}
	if !waitFor(c, done, h.waitTimeout) {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SelectVariant handles PUT /api/v1/sessions/:id/enhancements/variant
func (h *EnhancementHandler) SelectVariant(c *gin.Context) {
	session, ok := lookupSession(c, h.manager)
	if !ok {
		return
	}

	var req model.VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := session.SelectVariant(*req.Index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// CompareHold handles POST /api/v1/sessions/:id/enhancements/compare
func (h *EnhancementHandler) CompareHold(c *gin.Context) {
	h.toggleCompare(c, (*service.Session).CompareHold)
}

// CompareRelease handles DELETE /api/v1/sessions/:id/enhancements/compare
func (h *EnhancementHandler) CompareRelease(c *gin.Context) {
	h.toggleCompare(c, (*service.Session).CompareRelease)
}

func (h *EnhancementHandler) toggleCompare(c *gin.Context, fn func(*service.Session) error) {
	session, ok := lookupSession(c, h.manager)
	if !ok {
		return
	}
	if err := fn(session); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}
