package game

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/undercover-bot/undercover/internal/apperr"
	clockMocks "github.com/undercover-bot/undercover/internal/common/clock/mocks"
	idMocks "github.com/undercover-bot/undercover/internal/common/identifier/mocks"
	"github.com/undercover-bot/undercover/internal/lock"
	lockMocks "github.com/undercover-bot/undercover/internal/lock/mocks"
	"github.com/undercover-bot/undercover/internal/models"
	notifierMocks "github.com/undercover-bot/undercover/internal/notifier/mocks"
	playerRepo "github.com/undercover-bot/undercover/internal/repositories/player"
	playerMocks "github.com/undercover-bot/undercover/internal/repositories/player/mocks"
	sessionRepo "github.com/undercover-bot/undercover/internal/repositories/session"
	sessionMocks "github.com/undercover-bot/undercover/internal/repositories/session/mocks"
	"github.com/undercover-bot/undercover/internal/words"
)

// stubRandomizer yields a fixed permutation and index so role and word
// assignment are deterministic in tests.
type stubRandomizer struct {
	perm []int
	intn int
}

func (r *stubRandomizer) Perm(n int) []int {
	if r.perm != nil {
		return r.perm
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

func (r *stubRandomizer) Intn(n int) int {
	return r.intn % n
}

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockSessionRepo *sessionMocks.MockRepository
	mockPlayerRepo  *playerMocks.MockRepository
	mockLocker      *lockMocks.MockLocker
	mockNotifier    *notifierMocks.MockNotifier
	mockClock       *clockMocks.MockClock
	mockIDGen       *idMocks.MockGenerator
	randomizer      *stubRandomizer
	gameService     Service
	ctx             context.Context

	testTime      time.Time
	testSessionID string

	pushed []Notification
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.mockPlayerRepo = playerMocks.NewMockRepository(s.mockCtrl)
	s.mockLocker = lockMocks.NewMockLocker(s.mockCtrl)
	s.mockNotifier = notifierMocks.NewMockNotifier(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockIDGen = idMocks.NewMockGenerator(s.mockCtrl)
	s.randomizer = &stubRandomizer{}

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.testSessionID = "1234"
	s.pushed = nil

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	// Record every notification for later assertions
	s.mockNotifier.EXPECT().
		Push(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, recipientID, text string) error {
			s.pushed = append(s.pushed, Notification{RecipientID: recipientID, Text: text})
			return nil
		}).
		AnyTimes()

	svc, err := New(&Config{
		SessionRepo: s.mockSessionRepo,
		PlayerRepo:  s.mockPlayerRepo,
		Locker:      s.mockLocker,
		Notifier:    s.mockNotifier,
		Clock:       s.mockClock,
		IDGenerator: s.mockIDGen,
		Randomizer:  s.randomizer,
		MinPlayers:  3,
		MaxPlayers:  12,
		WordPairs:   []words.Pair{{Majority: "apple", Minority: "banana"}},
	})
	s.Require().NoError(err)
	s.gameService = svc
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

// waitingSession returns a lobby with the given members, first as owner
func (s *GameServiceTestSuite) waitingSession(members ...string) *models.Session {
	return &models.Session{
		ID:         s.testSessionID,
		OwnerID:    members[0],
		Members:    members,
		State:      models.SessionStateWaiting,
		Impostors:  []string{},
		Round:      1,
		Eliminated: []string{},
		CreatedAt:  s.testTime,
	}
}

// playingSession returns a running game with fixed words
func (s *GameServiceTestSuite) playingSession(impostors []string, members ...string) *models.Session {
	sess := s.waitingSession(members...)
	sess.State = models.SessionStatePlaying
	sess.Impostors = impostors
	sess.MajorityWord = "apple"
	sess.MinorityWord = "banana"
	return sess
}

func (s *GameServiceTestSuite) expectLock(sessionID string) {
	s.mockLocker.EXPECT().
		Acquire(gomock.Any(), sessionID).
		Return(lock.Release(func(context.Context) {}), nil)
}

func (s *GameServiceTestSuite) expectNoPlayerRecord(playerID string) {
	s.mockPlayerRepo.EXPECT().
		Get(gomock.Any(), &playerRepo.GetInput{PlayerID: playerID}).
		Return(nil, apperr.PlayerNotFound(playerID))
}

func (s *GameServiceTestSuite) expectPlayerIn(playerID, sessionID string) {
	s.mockPlayerRepo.EXPECT().
		Get(gomock.Any(), &playerRepo.GetInput{PlayerID: playerID}).
		Return(&models.Player{ID: playerID, CurrentSessionID: sessionID}, nil)
}

func (s *GameServiceTestSuite) expectSession(sess *models.Session) {
	s.mockSessionRepo.EXPECT().
		Get(gomock.Any(), &sessionRepo.GetInput{SessionID: sess.ID}).
		Return(sess, nil)
}

// assertInvariants checks the structural invariants that must hold after
// every successful mutation.
func (s *GameServiceTestSuite) assertInvariants(sess *models.Session) {
	s.True(sess.HasMember(sess.OwnerID), "owner must be a member")
	for _, id := range sess.Impostors {
		s.True(sess.HasMember(id), "impostors must be members")
	}
	for _, id := range sess.Eliminated {
		s.True(sess.HasMember(id), "eliminated ids must be members")
	}
}

func (s *GameServiceTestSuite) TestCreateSession() {
	s.expectNoPlayerRecord("p1")
	s.mockIDGen.EXPECT().NewID().Return(s.testSessionID)
	s.mockSessionRepo.EXPECT().
		Exists(gomock.Any(), &sessionRepo.ExistsInput{SessionID: s.testSessionID}).
		Return(false, nil)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	s.expectNoPlayerRecord("p1")
	var savedPlayer *models.Player
	s.mockPlayerRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *playerRepo.SaveInput) error {
			savedPlayer = input.Player
			return nil
		})

	out, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	s.Equal(s.testSessionID, out.SessionID)
	s.Contains(out.Message, s.testSessionID)

	s.Equal(models.SessionStateWaiting, saved.State)
	s.Equal("p1", saved.OwnerID)
	s.Equal([]string{"p1"}, saved.Members)
	s.Equal(1, saved.Round)
	s.assertInvariants(saved)

	s.Equal("Player 1", savedPlayer.Name)
	s.Equal(s.testSessionID, savedPlayer.CurrentSessionID)
}

func (s *GameServiceTestSuite) TestCreateSession_IDCollisionRetries() {
	s.expectNoPlayerRecord("p1")
	gomock.InOrder(
		s.mockIDGen.EXPECT().NewID().Return("1111"),
		s.mockIDGen.EXPECT().NewID().Return("2222"),
	)
	s.mockSessionRepo.EXPECT().
		Exists(gomock.Any(), &sessionRepo.ExistsInput{SessionID: "1111"}).
		Return(true, nil)
	s.mockSessionRepo.EXPECT().
		Exists(gomock.Any(), &sessionRepo.ExistsInput{SessionID: "2222"}).
		Return(false, nil)
	s.mockSessionRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	s.expectNoPlayerRecord("p1")
	s.mockPlayerRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	out, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal("2222", out.SessionID)
}

func (s *GameServiceTestSuite) TestCreateSession_AlreadyInLiveSession() {
	s.expectPlayerIn("p1", "7777")
	sess := s.waitingSession("p1", "p2")
	sess.ID = "7777"
	s.expectSession(sess)

	_, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeUserAlreadyInSession))
}

func (s *GameServiceTestSuite) TestCreateSession_StalePointerIsReconciled() {
	// The player record points at a session that has expired: treated
	// as not being in any session.
	s.expectPlayerIn("p1", "7777")
	s.mockSessionRepo.EXPECT().
		Get(gomock.Any(), &sessionRepo.GetInput{SessionID: "7777"}).
		Return(nil, apperr.SessionNotFound("7777"))

	s.mockIDGen.EXPECT().NewID().Return(s.testSessionID)
	s.mockSessionRepo.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)
	s.mockSessionRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	s.expectPlayerIn("p1", "7777")
	s.mockPlayerRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)
}

func (s *GameServiceTestSuite) TestJoinSession() {
	s.expectNoPlayerRecord("p2")
	s.expectLock(s.testSessionID)
	s.expectSession(s.waitingSession("p1"))

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	s.expectNoPlayerRecord("p2")
	var savedPlayer *models.Player
	s.mockPlayerRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *playerRepo.SaveInput) error {
			savedPlayer = input.Player
			return nil
		})

	out, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p2", SessionID: s.testSessionID})
	s.Require().NoError(err)

	s.Equal(2, out.MemberCount)
	s.Equal([]string{"p1", "p2"}, saved.Members)
	s.Equal("Player 2", savedPlayer.Name)
	s.assertInvariants(saved)

	// Existing members are told about the new headcount
	s.Require().Len(s.pushed, 1)
	s.Equal("p1", s.pushed[0].RecipientID)
	s.Contains(s.pushed[0].Text, "2 players")
}

func (s *GameServiceTestSuite) TestJoinSession_NotFound() {
	s.expectNoPlayerRecord("p2")
	s.expectLock("9999")
	s.mockSessionRepo.EXPECT().
		Get(gomock.Any(), &sessionRepo.GetInput{SessionID: "9999"}).
		Return(nil, apperr.SessionNotFound("9999"))

	_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p2", SessionID: "9999"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeSessionNotFound))
}

func (s *GameServiceTestSuite) TestJoinSession_AlreadyStarted() {
	s.expectNoPlayerRecord("p4")
	s.expectLock(s.testSessionID)
	s.expectSession(s.playingSession([]string{"p2"}, "p1", "p2", "p3"))

	_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p4", SessionID: s.testSessionID})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeGameAlreadyStarted))
}

func (s *GameServiceTestSuite) TestJoinSession_RejoinSameRoom() {
	s.expectPlayerIn("p2", s.testSessionID)
	s.expectSession(s.waitingSession("p1", "p2"))

	_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p2", SessionID: s.testSessionID})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeAlreadyMember))
}

func (s *GameServiceTestSuite) TestJoinSession_MemberWithoutRecord() {
	// The session lists the player but their own record is gone: the
	// rejoin is still reported as membership in this room, not as a
	// different-room conflict.
	s.expectNoPlayerRecord("p2")
	s.expectLock(s.testSessionID)
	s.expectSession(s.waitingSession("p1", "p2"))

	_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p2", SessionID: s.testSessionID})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeAlreadyMember))
}

func (s *GameServiceTestSuite) TestJoinSession_InDifferentRoom() {
	s.expectPlayerIn("p2", "7777")
	sess := s.waitingSession("p1", "p2")
	sess.ID = "7777"
	s.expectSession(sess)

	_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p2", SessionID: s.testSessionID})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeUserAlreadyInSession))
}

func (s *GameServiceTestSuite) TestJoinSession_Full() {
	members := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10", "p11", "p12"}

	s.expectNoPlayerRecord("p13")
	s.expectLock(s.testSessionID)
	s.expectSession(s.waitingSession(members...))

	_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p13", SessionID: s.testSessionID})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeSessionFull))
}

func (s *GameServiceTestSuite) TestStartSession() {
	sess := s.waitingSession("p1", "p2", "p3")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	// Permutation picks member index 2 first: p3 becomes the impostor
	s.randomizer.perm = []int{2, 0, 1}

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.StartSession(s.ctx, &StartSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	s.Equal(models.SessionStatePlaying, saved.State)
	s.Equal([]string{"p3"}, saved.Impostors)
	s.Equal("apple", saved.MajorityWord)
	s.Equal("banana", saved.MinorityWord)
	s.assertInvariants(saved)

	// One word reveal per member plus voting instructions for the owner
	s.Require().Len(out.Notifications, 4)
	byRecipient := map[string][]string{}
	for _, n := range s.pushed {
		byRecipient[n.RecipientID] = append(byRecipient[n.RecipientID], n.Text)
	}
	s.Contains(byRecipient["p1"][0], "apple")
	s.Contains(byRecipient["p2"][0], "apple")
	s.Contains(byRecipient["p3"][0], "banana")
	s.Contains(byRecipient["p3"][0], "impostor")
	s.Contains(byRecipient["p1"][1], "vote")
}

func (s *GameServiceTestSuite) TestStartSession_NotOwner() {
	sess := s.waitingSession("p1", "p2", "p3")
	s.expectPlayerIn("p2", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.StartSession(s.ctx, &StartSessionInput{PlayerID: "p2"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodePermissionDenied))

	// No save happened, the lobby is untouched
	s.Equal(models.SessionStateWaiting, sess.State)
}

func (s *GameServiceTestSuite) TestStartSession_InsufficientPlayers() {
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(s.waitingSession("p1", "p2"))

	_, err := s.gameService.StartSession(s.ctx, &StartSessionInput{PlayerID: "p1"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeInsufficientPlayers))
}

func (s *GameServiceTestSuite) TestStartSession_TooManyPlayers() {
	// A lobby persisted before the cap was lowered can exceed it; the
	// start must fail with a player-facing error, not a config fault.
	svc, err := New(&Config{
		SessionRepo: s.mockSessionRepo,
		PlayerRepo:  s.mockPlayerRepo,
		Locker:      s.mockLocker,
		Notifier:    s.mockNotifier,
		Clock:       s.mockClock,
		IDGenerator: s.mockIDGen,
		Randomizer:  s.randomizer,
		MinPlayers:  3,
		MaxPlayers:  3,
		WordPairs:   []words.Pair{{Majority: "apple", Minority: "banana"}},
	})
	s.Require().NoError(err)

	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(s.waitingSession("p1", "p2", "p3", "p4"))

	_, err = svc.StartSession(s.ctx, &StartSessionInput{PlayerID: "p1"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeSessionFull))
	s.Equal(apperr.KindBusiness, apperr.KindOf(err))
}

func (s *GameServiceTestSuite) TestStartSession_AlreadyPlaying() {
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(s.playingSession([]string{"p2"}, "p1", "p2", "p3"))

	_, err := s.gameService.StartSession(s.ctx, &StartSessionInput{PlayerID: "p1"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeGameAlreadyStarted))
}

func (s *GameServiceTestSuite) TestVotePlayer_Continues() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3", "p4", "p5")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "3"})
	s.Require().NoError(err)

	s.Equal("p3", out.EliminatedID)
	s.Equal("Player 3", out.EliminatedName)
	s.False(out.GameOver)
	s.Equal([]string{"p3"}, saved.Eliminated)
	s.Equal(2, saved.Round)
	s.Equal(models.SessionStatePlaying, saved.State)
	s.assertInvariants(saved)

	// Everyone hears about the elimination and the next round
	s.Len(s.pushed, 5)
	s.Contains(s.pushed[0].Text, "Player 3")
	s.Contains(s.pushed[0].Text, "round 2")
}

func (s *GameServiceTestSuite) TestVotePlayer_MajorityWins() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3", "p4", "p5")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "2"})
	s.Require().NoError(err)

	s.True(out.GameOver)
	s.True(out.MajorityWins)
	s.Equal(models.SessionStateEnded, saved.State)
	s.assertInvariants(saved)
	s.Contains(s.pushed[0].Text, "majority wins")
}

func (s *GameServiceTestSuite) TestVotePlayer_ImpostorsWinAtParity() {
	// p1, p5 are the remaining majority; eliminating p5 leaves one
	// impostor against one majority player, which ends the game in the
	// impostors' favor.
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3", "p4", "p5")
	sess.Eliminated = []string{"p3", "p4"}
	sess.Round = 3
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "5"})
	s.Require().NoError(err)

	s.True(out.GameOver)
	s.False(out.MajorityWins)
	s.Equal(models.SessionStateEnded, saved.State)
	s.Contains(s.pushed[0].Text, "impostors win")
}

func (s *GameServiceTestSuite) TestVotePlayer_ByNameFirstMatchWins() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)
	s.mockSessionRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	// "player" is a fragment of every display name; the first member in
	// join order wins the tie
	out, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "player"})
	s.Require().NoError(err)
	s.Equal("p1", out.EliminatedID)
}

func (s *GameServiceTestSuite) TestVotePlayer_ByFullName() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)
	s.mockSessionRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	out, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "Player 2"})
	s.Require().NoError(err)
	s.Equal("p2", out.EliminatedID)
}

func (s *GameServiceTestSuite) TestVotePlayer_NameNotFound() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "zelda"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeVoteTargetNotFound))
}

func (s *GameServiceTestSuite) TestVotePlayer_InvalidIndex() {
	for _, target := range []string{"0", "4", "-1"} {
		sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
		s.expectPlayerIn("p1", s.testSessionID)
		s.expectLock(s.testSessionID)
		s.expectSession(sess)

		_, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: target})
		s.Require().Error(err, "target %s", target)
		s.True(apperr.IsCode(err, apperr.CodeInvalidPlayerIndex))
		s.Empty(sess.Eliminated, "no elimination may be recorded")
	}
}

func (s *GameServiceTestSuite) TestVotePlayer_DoubleElimination() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3", "p4")
	sess.Eliminated = []string{"p3"}
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "3"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeAlreadyEliminated))
	s.Equal([]string{"p3"}, sess.Eliminated)
}

func (s *GameServiceTestSuite) TestVotePlayer_NotOwner() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	s.expectPlayerIn("p2", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p2", Target: "1"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodePermissionDenied))
}

func (s *GameServiceTestSuite) TestVotePlayer_AfterGameEnded() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	sess.State = models.SessionStateEnded
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "2"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeGameEnded))
}

func (s *GameServiceTestSuite) TestEndSession() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.EndSession(s.ctx, &EndSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	s.Equal(models.SessionStateEnded, saved.State)
	s.Equal("Game ended.", out.Message)
	s.Len(s.pushed, 3)
}

func (s *GameServiceTestSuite) TestEndSession_BeforeStart() {
	sess := s.waitingSession("p1", "p2")
	s.expectPlayerIn("p1", s.testSessionID)
	s.expectLock(s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.EndSession(s.ctx, &EndSessionInput{PlayerID: "p1"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeGameNotStarted))
}

func (s *GameServiceTestSuite) TestGetStatus() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	sess.Round = 2
	sess.Eliminated = []string{"p3"}
	s.expectPlayerIn("p3", s.testSessionID)
	s.expectSession(sess)

	out, err := s.gameService.GetStatus(s.ctx, &GetStatusInput{PlayerID: "p3"})
	s.Require().NoError(err)

	lines := strings.Split(out.Message, "\n")
	s.Require().Len(lines, 4)
	s.Contains(lines[0], "round 2")
	s.Equal("1. Player 1 (owner)", lines[1])
	s.Equal("2. Player 2 (impostor)", lines[2])
	s.Equal("3. Player 3 [eliminated]", lines[3])
}

func (s *GameServiceTestSuite) TestGetStatus_NotInSession() {
	s.expectNoPlayerRecord("p9")

	_, err := s.gameService.GetStatus(s.ctx, &GetStatusInput{PlayerID: "p9"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeUserNotInSession))
}

func (s *GameServiceTestSuite) TestGetStatus_ExpiredSession() {
	s.expectPlayerIn("p1", "7777")
	s.mockSessionRepo.EXPECT().
		Get(gomock.Any(), &sessionRepo.GetInput{SessionID: "7777"}).
		Return(nil, apperr.SessionNotFound("7777"))

	_, err := s.gameService.GetStatus(s.ctx, &GetStatusInput{PlayerID: "p1"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeUserNotInSession))
}

func (s *GameServiceTestSuite) TestGetWord() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")

	s.expectPlayerIn("p2", s.testSessionID)
	s.expectSession(sess)
	out, err := s.gameService.GetWord(s.ctx, &GetWordInput{PlayerID: "p2"})
	s.Require().NoError(err)
	s.Equal("banana", out.Word)

	s.expectPlayerIn("p1", s.testSessionID)
	s.expectSession(sess)
	out, err = s.gameService.GetWord(s.ctx, &GetWordInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal("apple", out.Word)
}

func (s *GameServiceTestSuite) TestGetWord_Eliminated() {
	sess := s.playingSession([]string{"p2"}, "p1", "p2", "p3")
	sess.Eliminated = []string{"p3"}
	s.expectPlayerIn("p3", s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.GetWord(s.ctx, &GetWordInput{PlayerID: "p3"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodePlayerEliminated))
}

func (s *GameServiceTestSuite) TestGetWord_BeforeStart() {
	sess := s.waitingSession("p1", "p2")
	s.expectPlayerIn("p2", s.testSessionID)
	s.expectSession(sess)

	_, err := s.gameService.GetWord(s.ctx, &GetWordInput{PlayerID: "p2"})
	s.Require().Error(err)
	s.True(apperr.IsCode(err, apperr.CodeGameNotStarted))
}

func (s *GameServiceTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilSessionRepo)

	_, err = New(&Config{SessionRepo: s.mockSessionRepo})
	s.ErrorIs(err, ErrNilPlayerRepo)

	_, err = New(&Config{SessionRepo: s.mockSessionRepo, PlayerRepo: s.mockPlayerRepo})
	s.ErrorIs(err, ErrNilLocker)
}
