package models

import (
	"time"
)

// Player represents a participant known to the game
type Player struct {
	// ID is the stable identifier supplied by the transport layer
	ID string `json:"id"`

	// Name is the display name, assigned by join order ("Player N")
	Name string `json:"name"`

	// CurrentSessionID points at the session the player last joined.
	// The session's member list is authoritative; this pointer can go
	// stale once that session expires and must be reconciled on read.
	CurrentSessionID string `json:"current_session_id"`

	// JoinedAt is when the player record was first created
	JoinedAt time.Time `json:"joined_at"`

	// UpdatedAt is when the player record was last written
	UpdatedAt time.Time `json:"updated_at"`
}
