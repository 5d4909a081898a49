// Package discord adapts the Discord transport to the command router:
// inbound direct messages become (user id, text) pairs, outbound
// notifications become DMs.
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/undercover-bot/undercover/internal/handlers/chat"
)

// handleTimeout bounds the work done for one inbound message
const handleTimeout = 10 * time.Second

// Bot represents the Discord bot instance
type Bot struct {
	session *discordgo.Session
	router  *chat.Router
}

// Config holds the configuration for the bot
type Config struct {
	// Session is the Discord session, shared with the DM notifier
	Session *discordgo.Session

	// Router handles inbound commands
	Router *chat.Router
}

// New creates a new Discord bot over an existing session
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if cfg.Router == nil {
		return nil, errors.New("router cannot be nil")
	}

	cfg.Session.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	bot := &Bot{
		session: cfg.Session,
		router:  cfg.Router,
	}

	cfg.Session.AddHandler(bot.handleMessage)

	return bot, nil
}

// Start opens the Discord connection
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	log.Info().Msg("discord bot connected")
	return nil
}

// Stop closes the Discord connection
func (b *Bot) Stop() error {
	return b.session.Close()
}

// handleMessage feeds one inbound message through the router and replies
// in the same channel.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore our own messages
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	reply := b.router.Handle(ctx, m.Author.ID, m.Content)
	if reply == "" {
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		log.Warn().
			Err(err).
			Str("channel_id", m.ChannelID).
			Msg("failed to send reply")
	}
}
