package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/undercover-bot/undercover/internal/apperr"
	"github.com/undercover-bot/undercover/internal/fsm"
	"github.com/undercover-bot/undercover/internal/models"
	playerRepo "github.com/undercover-bot/undercover/internal/repositories/player"
	sessionRepo "github.com/undercover-bot/undercover/internal/repositories/session"
	"github.com/undercover-bot/undercover/internal/words"
)

// maxIDAttempts bounds the session-id collision retry loop
const maxIDAttempts = 50

// service implements the Service interface
type service struct {
	config *Config
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	if cfg.Locker == nil {
		return nil, ErrNilLocker
	}

	if cfg.Notifier == nil {
		return nil, ErrNilNotifier
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.IDGenerator == nil {
		return nil, ErrNilIDGenerator
	}

	if cfg.Randomizer == nil {
		return nil, ErrNilRandomizer
	}

	if cfg.MinPlayers == 0 {
		cfg.MinPlayers = 3
	}

	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = 12
	}

	if cfg.ImpostorBands == nil {
		cfg.ImpostorBands = DefaultImpostorBands
	}

	if cfg.WordPairs == nil {
		cfg.WordPairs = words.DefaultCatalog
	}

	if len(cfg.WordPairs) == 0 {
		return nil, ErrNoWordPairs
	}

	return &service{config: cfg}, nil
}

// CreateSession creates a new room owned by the invoking player
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if err := s.ensureNotInLiveSession(ctx, input.PlayerID, ""); err != nil {
		return nil, err
	}

	sessionID, err := s.allocateSessionID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.config.Clock.Now()
	sess := &models.Session{
		ID:         sessionID,
		OwnerID:    input.PlayerID,
		Members:    []string{input.PlayerID},
		State:      models.SessionStateWaiting,
		Impostors:  []string{},
		Round:      1,
		Eliminated: []string{},
		CreatedAt:  now,
		LastActive: now,
	}

	if err := s.config.SessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return nil, err
	}

	if err := s.savePlayer(ctx, input.PlayerID, displayName(0), sessionID); err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", sessionID).
		Str("owner_id", input.PlayerID).
		Msg("session created")

	return &CreateSessionOutput{
		SessionID: sessionID,
		Message: fmt.Sprintf(
			"Room %s created! Share the code so others can send 'join %s'. "+
				"Send 'start' once %d-%d players are in.",
			sessionID, sessionID, s.config.MinPlayers, s.config.MaxPlayers),
	}, nil
}

// JoinSession adds a player to a waiting room
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if err := s.ensureNotInLiveSession(ctx, input.PlayerID, input.SessionID); err != nil {
		return nil, err
	}

	release, err := s.config.Locker.Acquire(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	sess, err := s.config.SessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	if !fsm.CanTransition(sess.State, fsm.EventJoin) {
		return nil, stateError(sess.State)
	}

	if sess.HasMember(input.PlayerID) {
		return nil, apperr.AlreadyMember(input.PlayerID, sess.ID)
	}

	if len(sess.Members) >= s.config.MaxPlayers {
		return nil, apperr.SessionFull(sess.ID, s.config.MaxPlayers)
	}

	existing := append([]string(nil), sess.Members...)
	sess.Members = append(sess.Members, input.PlayerID)
	name := displayName(len(sess.Members) - 1)

	if err := s.config.SessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return nil, err
	}

	if err := s.savePlayer(ctx, input.PlayerID, name, sess.ID); err != nil {
		return nil, err
	}

	notifications := make([]Notification, 0, len(existing))
	for _, memberID := range existing {
		notifications = append(notifications, Notification{
			RecipientID: memberID,
			Text: fmt.Sprintf("%s joined room %s — %d players in now.",
				name, sess.ID, len(sess.Members)),
		})
	}
	s.dispatch(ctx, notifications)

	return &JoinSessionOutput{
		MemberCount:   len(sess.Members),
		Message:       fmt.Sprintf("Joined room %s as %s (%d/%d players).", sess.ID, name, len(sess.Members), s.config.MaxPlayers),
		Notifications: notifications,
	}, nil
}

// StartSession assigns roles and words and begins play
func (s *service) StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	sessionID, err := s.currentSessionID(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	release, err := s.config.Locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	sess, err := s.getCurrent(ctx, input.PlayerID, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.OwnerID != input.PlayerID {
		return nil, apperr.PermissionDenied(input.PlayerID, "start the game")
	}

	if len(sess.Members) < s.config.MinPlayers {
		return nil, apperr.InsufficientPlayers(len(sess.Members), s.config.MinPlayers)
	}

	// A persisted lobby can exceed a lowered cap across a restart
	if len(sess.Members) > s.config.MaxPlayers {
		return nil, apperr.SessionFull(sess.ID, s.config.MaxPlayers)
	}

	next, err := fsm.Next(sess.State, fsm.EventStart)
	if err != nil {
		return nil, stateError(sess.State)
	}

	impostorCount := s.impostorCount(len(sess.Members))
	if impostorCount == 0 {
		return nil, apperr.ImpostorCountConfig(len(sess.Members))
	}

	perm := s.config.Randomizer.Perm(len(sess.Members))
	impostors := make([]string, 0, impostorCount)
	for _, idx := range perm[:impostorCount] {
		impostors = append(impostors, sess.Members[idx])
	}

	pair := s.config.WordPairs[s.config.Randomizer.Intn(len(s.config.WordPairs))]

	sess.Impostors = impostors
	sess.MajorityWord = pair.Majority
	sess.MinorityWord = pair.Minority
	sess.State = next

	if err := s.config.SessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return nil, err
	}

	notifications := make([]Notification, 0, len(sess.Members)+1)
	for _, memberID := range sess.Members {
		role := "a regular player"
		if sess.IsImpostor(memberID) {
			role = "an impostor"
		}
		notifications = append(notifications, Notification{
			RecipientID: memberID,
			Text: fmt.Sprintf("The game is on! You are %s. Your word: %s. "+
				"Describe it without saying it.", role, sess.WordFor(memberID)),
		})
	}
	notifications = append(notifications, Notification{
		RecipientID: sess.OwnerID,
		Text: "You call the votes: after each discussion send 'vote <number>' " +
			"or 'vote <name>' to eliminate a player. 'status' lists the numbers.",
	})
	s.dispatch(ctx, notifications)

	log.Info().
		Str("session_id", sess.ID).
		Int("players", len(sess.Members)).
		Int("impostors", impostorCount).
		Msg("game started")

	return &StartSessionOutput{
		Message:       "Game started! Everyone has been sent their word privately.",
		Notifications: notifications,
	}, nil
}

// VotePlayer eliminates a member and evaluates the win condition
func (s *service) VotePlayer(ctx context.Context, input *VotePlayerInput) (*VotePlayerOutput, error) {
	sessionID, err := s.currentSessionID(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	release, err := s.config.Locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	sess, err := s.getCurrent(ctx, input.PlayerID, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.OwnerID != input.PlayerID {
		return nil, apperr.PermissionDenied(input.PlayerID, "call votes")
	}

	if _, err := fsm.Next(sess.State, fsm.EventVote); err != nil {
		return nil, stateError(sess.State)
	}

	targetIdx, err := resolveTarget(sess, input.Target)
	if err != nil {
		return nil, err
	}

	targetID := sess.Members[targetIdx]
	targetName := displayName(targetIdx)

	if sess.IsEliminated(targetID) {
		return nil, apperr.AlreadyEliminated(targetID)
	}

	sess.Eliminated = append(sess.Eliminated, targetID)

	wasImpostor := sess.IsImpostor(targetID)
	round := sess.Round

	role := "a regular player"
	if wasImpostor {
		role = "an impostor"
	}
	texts := []string{fmt.Sprintf("Round %d: %s has been eliminated — they were %s.", round, targetName, role)}

	out := &VotePlayerOutput{
		EliminatedID:   targetID,
		EliminatedName: targetName,
		Message:        "ok",
	}

	switch {
	case sess.RemainingImpostors() == 0:
		next, ferr := fsm.Next(sess.State, fsm.EventEnd)
		if ferr != nil {
			return nil, ferr
		}
		sess.State = next
		out.GameOver = true
		out.MajorityWins = true
		texts = append(texts, fmt.Sprintf(
			"All impostors are out — the majority wins! The words were %q vs %q.",
			sess.MajorityWord, sess.MinorityWord))

	case sess.RemainingImpostors() >= sess.RemainingMajority():
		// Parity favors the impostors: they only need to avoid being
		// outnumbered.
		next, ferr := fsm.Next(sess.State, fsm.EventEnd)
		if ferr != nil {
			return nil, ferr
		}
		sess.State = next
		out.GameOver = true
		texts = append(texts, fmt.Sprintf(
			"The impostors match the majority — impostors win! The words were %q vs %q.",
			sess.MajorityWord, sess.MinorityWord))

	default:
		sess.Round++
		texts = append(texts, fmt.Sprintf("The game continues — on to round %d.", sess.Round))
	}

	if err := s.config.SessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return nil, err
	}

	broadcast := strings.Join(texts, " ")
	notifications := make([]Notification, 0, len(sess.Members))
	for _, memberID := range sess.Members {
		notifications = append(notifications, Notification{RecipientID: memberID, Text: broadcast})
	}
	s.dispatch(ctx, notifications)
	out.Notifications = notifications

	if out.GameOver {
		log.Info().
			Str("session_id", sess.ID).
			Bool("majority_wins", out.MajorityWins).
			Int("rounds", round).
			Msg("game over")
	}

	return out, nil
}

// EndSession ends a running game early
func (s *service) EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	sessionID, err := s.currentSessionID(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	release, err := s.config.Locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	sess, err := s.getCurrent(ctx, input.PlayerID, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.OwnerID != input.PlayerID {
		return nil, apperr.PermissionDenied(input.PlayerID, "end the game")
	}

	next, err := fsm.Next(sess.State, fsm.EventEnd)
	if err != nil {
		return nil, stateError(sess.State)
	}
	sess.State = next

	if err := s.config.SessionRepo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("The owner ended the game. The words were %q vs %q.",
		sess.MajorityWord, sess.MinorityWord)
	notifications := make([]Notification, 0, len(sess.Members))
	for _, memberID := range sess.Members {
		notifications = append(notifications, Notification{RecipientID: memberID, Text: text})
	}
	s.dispatch(ctx, notifications)

	return &EndSessionOutput{
		Message:       "Game ended.",
		Notifications: notifications,
	}, nil
}

// GetStatus renders the invoker's current room. The impostor flag is
// visible to every member: the moderator calls votes from outside, and
// role secrecy lives in the private notifications, not here.
func (s *service) GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error) {
	sessionID, err := s.currentSessionID(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	sess, err := s.getCurrent(ctx, input.PlayerID, sessionID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	switch {
	case sess.State.IsWaiting():
		fmt.Fprintf(&b, "Room %s — waiting for players (%d/%d)\n", sess.ID, len(sess.Members), s.config.MaxPlayers)
	case sess.State.IsPlaying():
		fmt.Fprintf(&b, "Room %s — round %d in progress\n", sess.ID, sess.Round)
	default:
		fmt.Fprintf(&b, "Room %s — game over\n", sess.ID)
	}

	for i, memberID := range sess.Members {
		fmt.Fprintf(&b, "%d. %s", i+1, displayName(i))
		if memberID == sess.OwnerID {
			b.WriteString(" (owner)")
		}
		if sess.IsImpostor(memberID) {
			b.WriteString(" (impostor)")
		}
		if sess.IsEliminated(memberID) {
			b.WriteString(" [eliminated]")
		}
		b.WriteString("\n")
	}

	return &GetStatusOutput{Message: strings.TrimRight(b.String(), "\n")}, nil
}

// GetWord returns the invoker's own secret word
func (s *service) GetWord(ctx context.Context, input *GetWordInput) (*GetWordOutput, error) {
	sessionID, err := s.currentSessionID(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	sess, err := s.getCurrent(ctx, input.PlayerID, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.State.IsPlaying() {
		return nil, stateError(sess.State)
	}

	if sess.IsEliminated(input.PlayerID) {
		return nil, apperr.PlayerEliminated(input.PlayerID)
	}

	return &GetWordOutput{Word: sess.WordFor(input.PlayerID)}, nil
}

// displayName derives the deterministic display name from join order
func displayName(index int) string {
	return fmt.Sprintf("Player %d", index+1)
}

// stateError maps a rejected lifecycle event to the friendly business
// error for the session's current state.
func stateError(state models.SessionState) error {
	switch {
	case state.IsWaiting():
		return apperr.GameNotStarted()
	case state.IsPlaying():
		return apperr.GameAlreadyStarted()
	default:
		return apperr.GameEnded()
	}
}

// resolveTarget maps a vote target to a member index. Numeric targets are
// 1-based display indices; anything else matches a display-name fragment,
// first match in member order winning ties.
func resolveTarget(sess *models.Session, target string) (int, error) {
	target = strings.TrimSpace(target)

	if idx, err := strconv.Atoi(target); err == nil {
		if idx < 1 || idx > len(sess.Members) {
			return 0, apperr.InvalidPlayerIndex(idx, len(sess.Members))
		}
		return idx - 1, nil
	}

	needle := strings.ToLower(target)
	for i := range sess.Members {
		if strings.Contains(strings.ToLower(displayName(i)), needle) {
			return i, nil
		}
	}

	return 0, apperr.VoteTargetNotFound(target)
}

// impostorCount applies the banded rule; 0 means no band covers the count
func (s *service) impostorCount(playerCount int) int {
	for _, band := range s.config.ImpostorBands {
		if playerCount >= band.MinPlayers && playerCount <= band.MaxPlayers {
			return band.Count
		}
	}
	return 0
}

// allocateSessionID generates ids until one is unused among live sessions
func (s *service) allocateSessionID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.config.IDGenerator.NewID()

		exists, err := s.config.SessionRepo.Exists(ctx, &sessionRepo.ExistsInput{SessionID: id})
		if err != nil {
			return "", err
		}

		if !exists {
			return id, nil
		}
	}

	return "", apperr.New(apperr.KindServer, apperr.CodeDataAccess, "could not allocate a free session id")
}

// currentSessionID resolves the invoker's live session, reconciling the
// player record's stale pointer: a pointer at an absent session means the
// player is not in any session.
func (s *service) currentSessionID(ctx context.Context, playerID string) (string, error) {
	p, err := s.config.PlayerRepo.Get(ctx, &playerRepo.GetInput{PlayerID: playerID})
	if err != nil {
		if apperr.IsCode(err, apperr.CodePlayerNotFound) {
			return "", apperr.UserNotInSession(playerID)
		}
		return "", err
	}

	if p.CurrentSessionID == "" {
		return "", apperr.UserNotInSession(playerID)
	}

	return p.CurrentSessionID, nil
}

// getCurrent fetches the invoker's session, mapping an expired session to
// the not-in-session outcome.
func (s *service) getCurrent(ctx context.Context, playerID, sessionID string) (*models.Session, error) {
	sess, err := s.config.SessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: sessionID})
	if err != nil {
		if apperr.IsCode(err, apperr.CodeSessionNotFound) {
			return nil, apperr.UserNotInSession(playerID)
		}
		return nil, err
	}

	if !sess.HasMember(playerID) {
		return nil, apperr.UserNotInSession(playerID)
	}

	return sess, nil
}

// ensureNotInLiveSession enforces one live session per player. A pointer
// at an expired or ended session counts as free. joiningID is the room a
// join is targeting, empty for creates; being live in that same room is
// reported as a rejoin rather than a different-room conflict.
func (s *service) ensureNotInLiveSession(ctx context.Context, playerID, joiningID string) error {
	p, err := s.config.PlayerRepo.Get(ctx, &playerRepo.GetInput{PlayerID: playerID})
	if err != nil {
		if apperr.IsCode(err, apperr.CodePlayerNotFound) {
			return nil
		}
		return err
	}

	if p.CurrentSessionID == "" {
		return nil
	}

	sess, err := s.config.SessionRepo.Get(ctx, &sessionRepo.GetInput{SessionID: p.CurrentSessionID})
	if err != nil {
		if apperr.IsCode(err, apperr.CodeSessionNotFound) {
			return nil
		}
		return err
	}

	if sess.State.IsEnded() || !sess.HasMember(playerID) {
		return nil
	}

	if sess.ID == joiningID {
		return apperr.AlreadyMember(playerID, sess.ID)
	}

	return apperr.UserAlreadyInSession(playerID, sess.ID)
}

// savePlayer writes the player record for a join, keeping JoinedAt stable
// for returning players.
func (s *service) savePlayer(ctx context.Context, playerID, name, sessionID string) error {
	now := s.config.Clock.Now()

	p, err := s.config.PlayerRepo.Get(ctx, &playerRepo.GetInput{PlayerID: playerID})
	if err != nil {
		if !apperr.IsCode(err, apperr.CodePlayerNotFound) {
			return err
		}
		p = &models.Player{ID: playerID, JoinedAt: now}
	}

	p.Name = name
	p.CurrentSessionID = sessionID

	return s.config.PlayerRepo.Save(ctx, &playerRepo.SaveInput{Player: p})
}

// dispatch hands notifications to the notifier, fire-and-forget: delivery
// failures are logged and never fail the command.
func (s *service) dispatch(ctx context.Context, notifications []Notification) {
	for _, n := range notifications {
		if err := s.config.Notifier.Push(ctx, n.RecipientID, n.Text); err != nil {
			log.Warn().
				Err(err).
				Str("recipient_id", n.RecipientID).
				Msg("failed to push notification")
		}
	}
}
