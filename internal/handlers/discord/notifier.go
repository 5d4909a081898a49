package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DMNotifier delivers game notifications as Discord direct messages
type DMNotifier struct {
	session *discordgo.Session
}

// NewDMNotifier creates a notifier over an open Discord session
func NewDMNotifier(session *discordgo.Session) (*DMNotifier, error) {
	if session == nil {
		return nil, errors.New("session cannot be nil")
	}

	return &DMNotifier{session: session}, nil
}

// Push sends a direct message to the recipient
func (n *DMNotifier) Push(_ context.Context, recipientID, text string) error {
	channel, err := n.session.UserChannelCreate(recipientID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	if _, err := n.session.ChannelMessageSend(channel.ID, text); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}

	return nil
}
