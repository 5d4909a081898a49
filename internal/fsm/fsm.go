// Package fsm holds the session lifecycle state machine. It is a pure
// lookup over a fixed table, holds no per-session data, and is safe for
// concurrent use.
package fsm

import (
	"github.com/undercover-bot/undercover/internal/apperr"
	"github.com/undercover-bot/undercover/internal/models"
)

// Event represents a session lifecycle event
type Event string

const (
	// EventCreate is the creation of a session
	EventCreate Event = "create"

	// EventJoin is a player joining the lobby
	EventJoin Event = "join"

	// EventStart is the owner starting the game
	EventStart Event = "start"

	// EventVote is an elimination vote during play
	EventVote Event = "vote"

	// EventEnd is the game finishing
	EventEnd Event = "end"
)

// transitions lists every legal (state, event) edge. Anything absent fails.
var transitions = map[models.SessionState]map[Event]models.SessionState{
	models.SessionStateWaiting: {
		EventCreate: models.SessionStateWaiting,
		EventJoin:   models.SessionStateWaiting,
		EventStart:  models.SessionStatePlaying,
	},
	models.SessionStatePlaying: {
		EventVote: models.SessionStatePlaying,
		EventEnd:  models.SessionStateEnded,
	},
	models.SessionStateEnded: {},
}

// CanTransition reports whether the event is legal in the given state
func CanTransition(state models.SessionState, event Event) bool {
	_, ok := transitions[state][event]
	return ok
}

// Next returns the successor state for the given event, or an
// invalid-transition error for any pair not in the table.
func Next(state models.SessionState, event Event) (models.SessionState, error) {
	next, ok := transitions[state][event]
	if !ok {
		return "", apperr.InvalidTransition(string(state), string(event))
	}
	return next, nil
}
