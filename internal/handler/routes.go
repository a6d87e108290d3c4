package handler

import "github.com/gin-gonic/gin"

// Handlers bundles every API handler for route registration
type Handlers struct {
	Session      *SessionHandler
	Overlay      *OverlayHandler
	Enhancement  *EnhancementHandler
	Interactions *InteractionHandler
}

// RegisterRoutes mounts the session API under api (normally /api/v1)
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	api.GET("/renovation/styles", h.Enhancement.Styles)
	api.GET("/enhancements/:listing_id/:image_index", h.Enhancement.Job)
	api.GET("/stats/actions", h.Interactions.ActionStats)

	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.Session.Create)
		sessions.GET("/:id", h.Session.Get)
		sessions.DELETE("/:id", h.Session.Delete)
		sessions.GET("/:id/events", h.Session.Events) // SSE snapshots
		sessions.GET("/:id/history", h.Interactions.History)
		sessions.POST("/:id/messages", h.Session.SubmitMessage)

		// Deck
		sessions.POST("/:id/deck/navigate", h.Session.Navigate)
		sessions.POST("/:id/deck/focus", h.Session.Focus)

		// Overlays
		sessions.POST("/:id/overlay/detail", h.Overlay.SelectListing)
		sessions.DELETE("/:id/overlay/detail", h.Overlay.CloseDetail)
		sessions.POST("/:id/overlay/detail/image", h.Overlay.ShiftImage)
		sessions.POST("/:id/overlay/booking", h.Overlay.OpenBooking)
		sessions.POST("/:id/overlay/renovation", h.Overlay.OpenRenovation)
		sessions.POST("/:id/overlay/contact", h.Overlay.OpenContact)
		sessions.DELETE("/:id/overlay/nested", h.Overlay.CloseNested)

		// Enhancements
		sessions.POST("/:id/enhancements", h.Enhancement.Request)
		sessions.PUT("/:id/enhancements/variant", h.Enhancement.SelectVariant)
		sessions.POST("/:id/enhancements/compare", h.Enhancement.CompareHold)
		sessions.DELETE("/:id/enhancements/compare", h.Enhancement.CompareRelease)
	}
}
