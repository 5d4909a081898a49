package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/undercover-bot/undercover/internal/repositories/player Repository

import (
	"context"

	"github.com/undercover-bot/undercover/internal/models"
)

// Repository defines the interface for player persistence
type Repository interface {
	// Save persists a player
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a player by ID
	Get(ctx context.Context, input *GetInput) (*models.Player, error)
}
