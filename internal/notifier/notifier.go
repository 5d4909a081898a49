// Package notifier defines the outbound push boundary. Delivery is
// fire-and-forget; the game service never waits on it or fails because
// of it.
package notifier

import (
	"context"

	"github.com/rs/zerolog/log"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/undercover-bot/undercover/internal/notifier Notifier

// Notifier delivers a private message to a player out of band.
type Notifier interface {
	Push(ctx context.Context, recipientID, text string) error
}

// LogNotifier writes notifications to the log instead of a transport.
// Used when no chat transport is wired, and in local runs.
type LogNotifier struct{}

// NewLog creates a log-backed notifier
func NewLog() *LogNotifier {
	return &LogNotifier{}
}

// Push logs the notification
func (n *LogNotifier) Push(_ context.Context, recipientID, text string) error {
	log.Info().
		Str("recipient_id", recipientID).
		Str("text", text).
		Msg("notification")
	return nil
}
