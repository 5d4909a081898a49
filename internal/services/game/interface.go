package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/undercover-bot/undercover/internal/services/game Service

import "context"

// Service defines the interface for game operations. One method per user
// command; mutating methods also return the private notifications that
// were handed to the notifier.
type Service interface {
	// CreateSession creates a new room owned by the invoking player
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession adds a player to a waiting room
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// StartSession assigns roles and words and begins play
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)

	// VotePlayer eliminates a member and evaluates the win condition
	VotePlayer(ctx context.Context, input *VotePlayerInput) (*VotePlayerOutput, error)

	// EndSession ends a running game early
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)

	// GetStatus renders the invoker's current room
	GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error)

	// GetWord returns the invoker's own secret word
	GetWord(ctx context.Context, input *GetWordInput) (*GetWordOutput, error)
}
