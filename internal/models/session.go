package models

import (
	"time"
)

// SessionState represents the current state of a game session
type SessionState string

const (
	// SessionStateWaiting indicates a session is waiting for players to join
	SessionStateWaiting SessionState = "waiting"

	// SessionStatePlaying indicates a session has an active round in progress
	SessionStatePlaying SessionState = "playing"

	// SessionStateEnded indicates a session has finished
	SessionStateEnded SessionState = "ended"
)

// IsWaiting returns true if the session is waiting for players
func (s SessionState) IsWaiting() bool {
	return s == SessionStateWaiting
}

// IsPlaying returns true if the session has a round in progress
func (s SessionState) IsPlaying() bool {
	return s == SessionStatePlaying
}

// IsEnded returns true if the session is over
func (s SessionState) IsEnded() bool {
	return s == SessionStateEnded
}

// Session represents one instance of the undercover party game, aka a room.
//
// Members is insertion ordered and never shrinks; eliminated players stay in
// Members and are tracked separately in Eliminated so display indices remain
// stable for the whole game.
type Session struct {
	// ID is the short join code identifying the session
	ID string `json:"id"`

	// OwnerID is the player who created the session and moderates it
	OwnerID string `json:"owner_id"`

	// Members contains player IDs in join order, duplicates forbidden
	Members []string `json:"members"`

	// State is the current lifecycle state of the session
	State SessionState `json:"state"`

	// Impostors contains the member IDs holding the minority word
	Impostors []string `json:"impostors"`

	// MajorityWord is the secret word given to regular members
	MajorityWord string `json:"majority_word"`

	// MinorityWord is the secret word given to impostors
	MinorityWord string `json:"minority_word"`

	// Round is the 1-based round counter, incremented per non-final elimination
	Round int `json:"round"`

	// Eliminated contains voted-out member IDs in elimination order
	Eliminated []string `json:"eliminated"`

	// CreatedAt is when the session was created
	CreatedAt time.Time `json:"created_at"`

	// LastActive is when the session was last mutated
	LastActive time.Time `json:"last_active"`
}

// HasMember returns true if the player is in the session
func (s *Session) HasMember(playerID string) bool {
	for _, id := range s.Members {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsImpostor returns true if the player holds the minority word
func (s *Session) IsImpostor(playerID string) bool {
	for _, id := range s.Impostors {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsEliminated returns true if the player has been voted out
func (s *Session) IsEliminated(playerID string) bool {
	for _, id := range s.Eliminated {
		if id == playerID {
			return true
		}
	}
	return false
}

// RemainingImpostors returns the number of impostors still in play
func (s *Session) RemainingImpostors() int {
	count := 0
	for _, id := range s.Impostors {
		if !s.IsEliminated(id) {
			count++
		}
	}
	return count
}

// RemainingMajority returns the number of non-impostor members still in play
func (s *Session) RemainingMajority() int {
	count := 0
	for _, id := range s.Members {
		if !s.IsImpostor(id) && !s.IsEliminated(id) {
			count++
		}
	}
	return count
}

// WordFor returns the secret word held by the given member
func (s *Session) WordFor(playerID string) string {
	if s.IsImpostor(playerID) {
		return s.MinorityWord
	}
	return s.MajorityWord
}
