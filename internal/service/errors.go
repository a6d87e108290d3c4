package service

import "errors"

// Rejected transitions. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrListingNotFound = errors.New("listing not in the current results")
	ErrOverlayClosed   = errors.New("no listing detail is open")
	ErrDetailOpen      = errors.New("a listing detail is already open")
	ErrNotRenovating   = errors.New("renovation overlay is not open")
	ErrInvalidVariant  = errors.New("variant is not available")
	ErrInvalidContact  = errors.New("unknown contact kind")
	ErrInvalidMode     = errors.New("unknown renovation mode")
	ErrEmptyStyle      = errors.New("style is required")
)
