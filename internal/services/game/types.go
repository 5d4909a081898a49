package game

import (
	"github.com/undercover-bot/undercover/internal/common/clock"
	"github.com/undercover-bot/undercover/internal/common/identifier"
	"github.com/undercover-bot/undercover/internal/common/randomizer"
	"github.com/undercover-bot/undercover/internal/lock"
	"github.com/undercover-bot/undercover/internal/notifier"
	playerRepo "github.com/undercover-bot/undercover/internal/repositories/player"
	sessionRepo "github.com/undercover-bot/undercover/internal/repositories/session"
	"github.com/undercover-bot/undercover/internal/words"
)

// ImpostorBand maps an inclusive player-count range to an impostor count
type ImpostorBand struct {
	MinPlayers int
	MaxPlayers int
	Count      int
}

// DefaultImpostorBands is the standard banded rule
var DefaultImpostorBands = []ImpostorBand{
	{MinPlayers: 3, MaxPlayers: 5, Count: 1},
	{MinPlayers: 6, MaxPlayers: 8, Count: 2},
	{MinPlayers: 9, MaxPlayers: 12, Count: 3},
}

// Config holds configuration for the game service
type Config struct {
	// SessionRepo persists sessions
	SessionRepo sessionRepo.Repository

	// PlayerRepo persists players
	PlayerRepo playerRepo.Repository

	// Locker serializes commands per session
	Locker lock.Locker

	// Notifier delivers private messages, fire-and-forget
	Notifier notifier.Notifier

	// Clock supplies timestamps
	Clock clock.Clock

	// IDGenerator produces candidate session ids
	IDGenerator identifier.Generator

	// Randomizer drives role and word selection
	Randomizer randomizer.Randomizer

	// MinPlayers required to start a game
	MinPlayers int

	// MaxPlayers allowed per session
	MaxPlayers int

	// ImpostorBands is the player-count to impostor-count rule
	ImpostorBands []ImpostorBand

	// WordPairs is the secret word catalog
	WordPairs []words.Pair
}

// Notification is one out-of-band private message produced by an operation
type Notification struct {
	// RecipientID is the player to deliver to
	RecipientID string

	// Text is the message body
	Text string
}

type CreateSessionInput struct {
	PlayerID string
}

type CreateSessionOutput struct {
	// SessionID is the join code for the new room
	SessionID string

	// Message is the reply for the invoking player
	Message string
}

type JoinSessionInput struct {
	PlayerID  string
	SessionID string
}

type JoinSessionOutput struct {
	// MemberCount is the room size after the join
	MemberCount int

	// Message is the reply for the invoking player
	Message string

	// Notifications announce the join to existing members
	Notifications []Notification
}

type StartSessionInput struct {
	PlayerID string
}

type StartSessionOutput struct {
	// Message is the reply for the invoking owner
	Message string

	// Notifications carry each member's role and word, plus voting
	// instructions for the owner
	Notifications []Notification
}

type VotePlayerInput struct {
	PlayerID string

	// Target is a 1-based member index or a display-name fragment
	Target string
}

type VotePlayerOutput struct {
	// EliminatedID is the member voted out
	EliminatedID string

	// EliminatedName is the display name of the voted-out member
	EliminatedName string

	// GameOver is true once a side has won
	GameOver bool

	// MajorityWins is meaningful only when GameOver is true
	MajorityWins bool

	// Message is the reply for the invoking owner
	Message string

	// Notifications broadcast the elimination and outcome to members
	Notifications []Notification
}

type EndSessionInput struct {
	PlayerID string
}

type EndSessionOutput struct {
	// Message is the reply for the invoking owner
	Message string

	// Notifications broadcast the early end to members
	Notifications []Notification
}

type GetStatusInput struct {
	PlayerID string
}

type GetStatusOutput struct {
	// Message is the rendered room view
	Message string
}

type GetWordInput struct {
	PlayerID string
}

type GetWordOutput struct {
	// Word is the invoker's secret word
	Word string
}
