package model

import "time"

// Overlay actions reported to the interaction log
const (
	ActionViewDetails   = "view_details"
	ActionBooking       = "booking"
	ActionRenovation    = "renovation"
	ActionContactPhone  = "contact_phone"
	ActionContactEmail  = "contact_email"
	ActionEnhanceFailed = "enhance_failed"
)

// QueryLog is one answered (or failed) assistant round trip
type QueryLog struct {
	SessionID      string    `json:"session_id" db:"session_id"`
	Query          string    `json:"query" db:"query"`
	Narration      string    `json:"narration" db:"narration"`
	ListingIDs     JSONArray `json:"listing_ids" db:"returned_listing_ids"`
	Failed         bool      `json:"failed" db:"failed"`
	ResponseTimeMs int64     `json:"response_time_ms" db:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ActionLog is one overlay transition worth reporting
type ActionLog struct {
	SessionID string `json:"session_id" db:"session_id"`
	ListingID string `json:"listing_id" db:"listing_id"`
	Action    string `json:"action" db:"action"`
	Detail    string `json:"detail" db:"detail"`
}
