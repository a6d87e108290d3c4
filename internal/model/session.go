package model

// NestedKind is the type of overlay layered above the listing detail
type NestedKind string

const (
	NestedBooking    NestedKind = "booking"
	NestedRenovation NestedKind = "renovation"
	NestedContact    NestedKind = "contact_feedback"
)

// ContactKind is the channel confirmed by the contact feedback overlay
type ContactKind string

const (
	ContactPhone ContactKind = "phone"
	ContactEmail ContactKind = "email"
)

// Valid reports whether k is a known contact channel
func (k ContactKind) Valid() bool {
	return k == ContactPhone || k == ContactEmail
}

// ChatRequest is the wire request of the conversational backend and of the messages endpoint.
// A blank message is a valid no-op, so Message carries no binding rule.
type ChatRequest struct {
	Message string `json:"message"`
}

// SessionSnapshot is the read model of one session handed to the renderer
type SessionSnapshot struct {
	SessionID   string          `json:"session_id"`
	Narration   string          `json:"narration"`
	Awaiting    bool            `json:"awaiting"`
	Listings    []Listing       `json:"listings"`
	ActiveIndex *int            `json:"active_index,omitempty"` // absent while the deck is empty
	Overlay     OverlaySnapshot `json:"overlay"`
}

// OverlaySnapshot describes the overlay stack
type OverlaySnapshot struct {
	Open       bool            `json:"open"`
	Listing    *Listing        `json:"listing,omitempty"`
	ImageIndex int             `json:"image_index"`
	Image      string          `json:"image,omitempty"`
	Nested     *NestedSnapshot `json:"nested,omitempty"`
}

// NestedSnapshot describes the nested overlay, if any
type NestedSnapshot struct {
	Kind         NestedKind      `json:"kind"`
	Contact      ContactKind     `json:"contact,omitempty"`
	Key          *JobKey         `json:"key,omitempty"`
	Comparing    bool            `json:"comparing,omitempty"`
	Job          *EnhancementJob `json:"job,omitempty"`
	DisplayImage string          `json:"display_image,omitempty"`
}

// NavigateRequest moves the deck or the detail gallery by Delta
type NavigateRequest struct {
	Delta int `json:"delta"`
}

// FocusRequest focuses the deck index
type FocusRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SelectListingRequest opens the detail of a listing
type SelectListingRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
}

// ContactRequest opens the contact feedback overlay
type ContactRequest struct {
	Kind ContactKind `json:"kind" binding:"required"`
}

// EnhanceRequest asks for a renovation of the image under the renovation overlay
type EnhanceRequest struct {
	Style string         `json:"style" binding:"required"`
	Mode  RenovationMode `json:"mode"`
}

// VariantRequest selects a generated variant
type VariantRequest struct {
	Index *int `json:"index" binding:"required"`
}
