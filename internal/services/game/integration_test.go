package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/undercover-bot/undercover/internal/apperr"
	"github.com/undercover-bot/undercover/internal/common/clock"
	"github.com/undercover-bot/undercover/internal/common/identifier"
	"github.com/undercover-bot/undercover/internal/lock"
	"github.com/undercover-bot/undercover/internal/models"
	"github.com/undercover-bot/undercover/internal/notifier"
	playerRepo "github.com/undercover-bot/undercover/internal/repositories/player"
	sessionRepo "github.com/undercover-bot/undercover/internal/repositories/session"
	"github.com/undercover-bot/undercover/internal/words"
)

// IntegrationTestSuite runs the service against real Redis-backed
// repositories and the real session locker.
type IntegrationTestSuite struct {
	suite.Suite
	mr          *miniredis.Miniredis
	client      *redis.Client
	sessions    sessionRepo.Repository
	randomizer  *stubRandomizer
	gameService Service
	ctx         context.Context
}

func (s *IntegrationTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	clk := clock.New()

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: s.client,
		Clock:       clk,
		TTL:         2 * time.Hour,
	})
	s.Require().NoError(err)
	s.sessions = sessions

	players, err := playerRepo.NewRedis(&playerRepo.Config{
		RedisClient: s.client,
		Clock:       clk,
	})
	s.Require().NoError(err)

	locker, err := lock.NewRedis(&lock.Config{
		RedisClient: s.client,
		LeaseTTL:    5 * time.Second,
		WaitTimeout: 3 * time.Second,
	})
	s.Require().NoError(err)

	s.randomizer = &stubRandomizer{}

	svc, err := New(&Config{
		SessionRepo: sessions,
		PlayerRepo:  players,
		Locker:      locker,
		Notifier:    notifier.NewLog(),
		Clock:       clk,
		IDGenerator: identifier.New(),
		Randomizer:  s.randomizer,
		MinPlayers:  3,
		MaxPlayers:  12,
		WordPairs:   []words.Pair{{Majority: "coffee", Minority: "tea"}},
	})
	s.Require().NoError(err)
	s.gameService = svc

	s.ctx = context.Background()
}

func (s *IntegrationTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) TestConcurrentJoins() {
	out, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "owner"})
	s.Require().NoError(err)
	sessionID := out.SessionID

	const joiners = 8

	var wg sync.WaitGroup
	errs := make([]error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.gameService.JoinSession(s.ctx, &JoinSessionInput{
				PlayerID:  fmt.Sprintf("joiner-%d", i),
				SessionID: sessionID,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		s.NoError(err, "joiner-%d", i)
	}

	// Every join survived the race: no lost updates, no duplicates
	sess, err := s.sessions.Get(s.ctx, &sessionRepo.GetInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Len(sess.Members, joiners+1)

	seen := make(map[string]bool, len(sess.Members))
	for _, id := range sess.Members {
		s.False(seen[id], "duplicate member %s", id)
		seen[id] = true
	}
}

func (s *IntegrationTestSuite) TestFullGame_MajorityWins() {
	created, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	for _, id := range []string{"p2", "p3"} {
		_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: id, SessionID: created.SessionID})
		s.Require().NoError(err)
	}

	// p3 (member index 2) becomes the impostor
	s.randomizer.perm = []int{2, 0, 1}
	_, err = s.gameService.StartSession(s.ctx, &StartSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	word, err := s.gameService.GetWord(s.ctx, &GetWordInput{PlayerID: "p3"})
	s.Require().NoError(err)
	s.Equal("tea", word.Word)

	out, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "3"})
	s.Require().NoError(err)
	s.True(out.GameOver)
	s.True(out.MajorityWins)

	sess, err := s.sessions.Get(s.ctx, &sessionRepo.GetInput{SessionID: created.SessionID})
	s.Require().NoError(err)
	s.Equal(models.SessionStateEnded, sess.State)

	// Voting after the game is over is rejected
	_, err = s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "2"})
	s.True(apperr.IsCode(err, apperr.CodeGameEnded))

	// An ended session no longer pins its members: p1 can open a new room
	_, err = s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.NoError(err)
}

func (s *IntegrationTestSuite) TestFullGame_ImpostorsWin() {
	created, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	for _, id := range []string{"p2", "p3"} {
		_, err := s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: id, SessionID: created.SessionID})
		s.Require().NoError(err)
	}

	s.randomizer.perm = []int{2, 0, 1}
	_, err = s.gameService.StartSession(s.ctx, &StartSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	// Eliminating a majority player leaves one impostor against one
	// majority member, which hands the game to the impostors
	out, err := s.gameService.VotePlayer(s.ctx, &VotePlayerInput{PlayerID: "p1", Target: "2"})
	s.Require().NoError(err)
	s.True(out.GameOver)
	s.False(out.MajorityWins)
}

func (s *IntegrationTestSuite) TestSessionExpiry_FreesPlayers() {
	created, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.Require().NoError(err)

	// The room sits idle past its TTL and is reaped by the store
	s.mr.FastForward(2*time.Hour + time.Minute)

	_, err = s.gameService.GetStatus(s.ctx, &GetStatusInput{PlayerID: "p1"})
	s.True(apperr.IsCode(err, apperr.CodeUserNotInSession))

	_, err = s.gameService.JoinSession(s.ctx, &JoinSessionInput{PlayerID: "p2", SessionID: created.SessionID})
	s.True(apperr.IsCode(err, apperr.CodeSessionNotFound))

	// The stale pointer does not block a fresh room
	_, err = s.gameService.CreateSession(s.ctx, &CreateSessionInput{PlayerID: "p1"})
	s.NoError(err)
}
