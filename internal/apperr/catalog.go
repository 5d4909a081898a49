package apperr

import "fmt"

// Stable error codes, module-type-sequence.
const (
	CodeGameNotStarted       = "GAME-BIZ-001"
	CodeGameAlreadyStarted   = "GAME-BIZ-002"
	CodeGameEnded            = "GAME-BIZ-003"
	CodeInsufficientPlayers  = "GAME-BIZ-004"
	CodePlayerEliminated     = "GAME-BIZ-005"
	CodeInvalidPlayerIndex   = "GAME-VAL-006"
	CodeImpostorCountConfig  = "GAME-CFG-007"
	CodeVoteTargetNotFound   = "GAME-VAL-008"
	CodeAlreadyEliminated    = "GAME-BIZ-009"
	CodeSessionNotFound      = "ROOM-REQ-001"
	CodeSessionFull          = "ROOM-BIZ-002"
	CodePermissionDenied     = "ROOM-PERM-004"
	CodeInvalidTransition    = "ROOM-STATE-005"
	CodeSessionBusy          = "ROOM-LOCK-006"
	CodeUserNotInSession     = "USER-BIZ-002"
	CodeUserAlreadyInSession = "USER-BIZ-003"
	CodeAlreadyMember        = "USER-BIZ-004"
	CodePlayerNotFound       = "USER-REQ-001"
	CodeUnknownCommand       = "CMD-REQ-001"
	CodeDataAccess           = "REPO-DATA-001"
	CodeSerialization        = "REPO-INVALID-002"
	CodeStoreConnection      = "REPO-CONN-003"
)

// GameNotStarted is returned for play actions before the game starts
func GameNotStarted() *Error {
	return New(KindBusiness, CodeGameNotStarted, "The game has not started yet.")
}

// GameAlreadyStarted is returned for lobby actions once the game is running
func GameAlreadyStarted() *Error {
	return New(KindBusiness, CodeGameAlreadyStarted, "The game has already started or ended.")
}

// GameEnded is returned for actions against a finished game
func GameEnded() *Error {
	return New(KindBusiness, CodeGameEnded, "The game is already over.")
}

// InsufficientPlayers is returned when a start lacks the minimum headcount
func InsufficientPlayers(current, min int) *Error {
	return New(KindBusiness, CodeInsufficientPlayers,
		fmt.Sprintf("Not enough players to start (%d more needed).", min-current)).
		WithDetails(map[string]any{"current_players": current, "min_players": min})
}

// PlayerEliminated is returned when a voted-out player tries to act
func PlayerEliminated(playerID string) *Error {
	return New(KindBusiness, CodePlayerEliminated, "You have been eliminated and can only spectate.").
		WithDetails(map[string]any{"player_id": playerID})
}

// InvalidPlayerIndex is returned for vote targets outside [1, max]
func InvalidPlayerIndex(index, max int) *Error {
	return New(KindBusiness, CodeInvalidPlayerIndex,
		fmt.Sprintf("Invalid player number (pick 1-%d).", max)).
		WithDetails(map[string]any{"index": index, "max_index": max})
}

// ImpostorCountConfig is returned when the band table yields no impostors
// for a player count the min/max validation allowed. A misconfiguration.
func ImpostorCountConfig(playerCount int) *Error {
	return New(KindServer, CodeImpostorCountConfig, "Impostor count rules do not cover this player count.").
		WithDetails(map[string]any{"player_count": playerCount})
}

// VoteTargetNotFound is returned when no member name matches a vote target
func VoteTargetNotFound(target string) *Error {
	return New(KindBusiness, CodeVoteTargetNotFound,
		fmt.Sprintf("No player matches %q.", target)).
		WithDetails(map[string]any{"target": target})
}

// AlreadyEliminated is returned when a vote targets an eliminated member
func AlreadyEliminated(playerID string) *Error {
	return New(KindBusiness, CodeAlreadyEliminated, "That player has already been eliminated.").
		WithDetails(map[string]any{"player_id": playerID})
}

// SessionNotFound is the absent-key outcome for session lookups.
// Absence is a normal domain result, callers detect it via its code.
func SessionNotFound(sessionID string) *Error {
	return New(KindClient, CodeSessionNotFound,
		fmt.Sprintf("Room %s does not exist or has expired.", sessionID)).
		WithDetails(map[string]any{"session_id": sessionID})
}

// SessionFull is returned when a join would exceed the member cap
func SessionFull(sessionID string, maxPlayers int) *Error {
	return New(KindBusiness, CodeSessionFull,
		fmt.Sprintf("The room is full (up to %d players).", maxPlayers)).
		WithDetails(map[string]any{"session_id": sessionID, "max_players": maxPlayers})
}

// PermissionDenied is returned when a non-owner invokes an owner action
func PermissionDenied(playerID, action string) *Error {
	return New(KindBusiness, CodePermissionDenied,
		fmt.Sprintf("Only the room owner can %s.", action)).
		WithDetails(map[string]any{"player_id": playerID, "action": action})
}

// InvalidTransition is returned by the state machine for illegal edges
func InvalidTransition(state, event string) *Error {
	return New(KindBusiness, CodeInvalidTransition,
		fmt.Sprintf("Cannot %s while the room is %s.", event, state)).
		WithDetails(map[string]any{"current_state": state, "event": event})
}

// SessionBusy is the retryable outcome of losing a session lock race
func SessionBusy(sessionID string) *Error {
	return New(KindBusiness, CodeSessionBusy, "The room is busy handling another command, please retry.").
		WithDetails(map[string]any{"session_id": sessionID})
}

// UserNotInSession is returned when an action requires membership
func UserNotInSession(playerID string) *Error {
	return New(KindBusiness, CodeUserNotInSession, "You have not joined any room yet.").
		WithDetails(map[string]any{"player_id": playerID})
}

// UserAlreadyInSession enforces the one-live-session-per-player rule
func UserAlreadyInSession(playerID, sessionID string) *Error {
	return New(KindBusiness, CodeUserAlreadyInSession, "You are already in a room, finish that game first.").
		WithDetails(map[string]any{"player_id": playerID, "session_id": sessionID})
}

// AlreadyMember is returned when a player joins a room they are in.
// Distinct from UserAlreadyInSession so the two outcomes stay separable
// downstream: this one names the same room, that one a different room.
func AlreadyMember(playerID, sessionID string) *Error {
	return New(KindBusiness, CodeAlreadyMember, "You are already in this room.").
		WithDetails(map[string]any{"player_id": playerID, "session_id": sessionID})
}

// PlayerNotFound is the absent-key outcome for player lookups
func PlayerNotFound(playerID string) *Error {
	return New(KindClient, CodePlayerNotFound, "Player record not found.").
		WithDetails(map[string]any{"player_id": playerID})
}

// UnknownCommand is returned by the router for unrecognized input
func UnknownCommand(input string) *Error {
	return New(KindClient, CodeUnknownCommand,
		"Unknown command. Send 'help' to list available commands.").
		WithDetails(map[string]any{"input": input})
}

// DataAccess wraps unclassified store failures
func DataAccess(op string, cause error) *Error {
	return New(KindServer, CodeDataAccess, fmt.Sprintf("failed to %s", op)).WithCause(cause)
}

// Serialization wraps encode/decode failures for stored payloads
func Serialization(op string, cause error) *Error {
	return New(KindServer, CodeSerialization, fmt.Sprintf("failed to %s", op)).WithCause(cause)
}

// StoreConnection wraps store connectivity failures
func StoreConnection(op string, cause error) *Error {
	return New(KindServer, CodeStoreConnection, fmt.Sprintf("store unreachable during %s", op)).WithCause(cause)
}
