package handler

import (
	"net/http"

	"concierge/internal/model"
	"concierge/internal/service"

	"github.com/gin-gonic/gin"
)

// OverlayHandler handles the detail view and its nested overlays
type OverlayHandler struct {
	manager *service.SessionManager
}

// NewOverlayHandler creates a new overlay handler
func NewOverlayHandler(manager *service.SessionManager) *OverlayHandler {
	return &OverlayHandler{manager: manager}
}

// SelectListing handles POST /api/v1/sessions/:id/overlay/detail
func (h *OverlayHandler) SelectListing(c *gin.Context) {
	var req model.SelectListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.transition(c, func(s *service.Session) error {
		return s.SelectListing(model.ListingID(req.ListingID))
	})
}

// CloseDetail handles DELETE /api/v1/sessions/:id/overlay/detail
func (h *OverlayHandler) CloseDetail(c *gin.Context) {
	h.transition(c, (*service.Session).CloseDetail)
}

// ShiftImage handles POST /api/v1/sessions/:id/overlay/detail/image
func (h *OverlayHandler) ShiftImage(c *gin.Context) {
	var req model.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.transition(c, func(s *service.Session) error {
		return s.ShiftImage(req.Delta)
	})
}

// OpenBooking handles POST /api/v1/sessions/:id/overlay/booking
func (h *OverlayHandler) OpenBooking(c *gin.Context) {
	h.transition(c, (*service.Session).OpenBooking)
}

// OpenRenovation handles POST /api/v1/sessions/:id/overlay/renovation
func (h *OverlayHandler) OpenRenovation(c *gin.Context) {
	h.transition(c, (*service.Session).OpenRenovation)
}

// OpenContact handles POST /api/v1/sessions/:id/overlay/contact
func (h *OverlayHandler) OpenContact(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.transition(c, func(s *service.Session) error {
		return s.OpenContact(req.Kind)
	})
}

// CloseNested handles DELETE /api/v1/sessions/:id/overlay/nested
func (h *OverlayHandler) CloseNested(c *gin.Context) {
	h.transition(c, (*service.Session).CloseNested)
}

// transition applies fn to the session and answers with the resulting snapshot
func (h *OverlayHandler) transition(c *gin.Context, fn func(*service.Session) error) {
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
