package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/undercover-bot/undercover/internal/repositories/session Repository

import (
	"context"

	"github.com/undercover-bot/undercover/internal/models"
)

// Repository defines the interface for session persistence
type Repository interface {
	// Save persists a session and refreshes its expiry window
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a session by ID
	Get(ctx context.Context, input *GetInput) (*models.Session, error)

	// Delete removes a session
	Delete(ctx context.Context, input *DeleteInput) error

	// Exists reports whether a live session uses the given ID
	Exists(ctx context.Context, input *ExistsInput) (bool, error)
}
