package service

import (
	"context"

	"concierge/internal/model"
)

// Assistant is the conversational backend
type Assistant interface {
	// Chat sends the user message and returns the raw response body
	Chat(ctx context.Context, message string) (string, error)
}

// Renovator is the image enhancement service
type Renovator interface {
	// Renovate generates styled variants of an image and quotes the work
	Renovate(ctx context.Context, params model.EnhancementParams) (*model.EnhancementResult, error)
}

// InteractionLogger records answered queries and overlay actions.
// Implementations must be safe for concurrent use.
type InteractionLogger interface {
	LogQuery(ctx context.Context, entry model.QueryLog) error
	LogAction(ctx context.Context, entry model.ActionLog) error
}

// nopInteractionLogger is used when no database is configured
type nopInteractionLogger struct{}

func (nopInteractionLogger) LogQuery(context.Context, model.QueryLog) error   { return nil }
func (nopInteractionLogger) LogAction(context.Context, model.ActionLog) error { return nil }

// Ensure the HTTP clients implement the collaborator interfaces
var (
	_ Assistant = (*AssistantClient)(nil)
	_ Renovator = (*RenovationClient)(nil)
)
