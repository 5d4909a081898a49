package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/undercover-bot/undercover/internal/apperr"
	"github.com/undercover-bot/undercover/internal/common/clock"
	"github.com/undercover-bot/undercover/internal/models"
)

const (
	// Key prefix for sessions in Redis
	sessionKeyPrefix = "session:"
)

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock stamps LastActive on every save
	Clock clock.Clock

	// TTL is the inactivity window; every save resets it so only
	// active sessions survive
	TTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	if cfg.TTL <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		clock:  cfg.Clock,
		ttl:    cfg.TTL,
	}, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
}

// Save persists a session to Redis and refreshes its expiry window
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	if input.Session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	input.Session.LastActive = r.clock.Now()

	payload, err := json.Marshal(input.Session)
	if err != nil {
		return apperr.Serialization("encode session", err).
			WithDetails(map[string]any{"session_id": input.Session.ID})
	}

	if err := r.client.Set(ctx, sessionKey(input.Session.ID), payload, r.ttl).Err(); err != nil {
		return classify("save session", err)
	}

	log.Debug().Str("session_id", input.Session.ID).Msg("session saved")

	return nil
}

// Get retrieves a session by ID from Redis. An absent or expired key is
// reported as a session-not-found error, which callers treat as a normal
// domain outcome rather than a fault.
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	payload, err := r.client.Get(ctx, sessionKey(input.SessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.SessionNotFound(input.SessionID)
		}
		return nil, classify("get session", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, apperr.Serialization("decode session", err).
			WithDetails(map[string]any{"session_id": input.SessionID})
	}

	return &sess, nil
}

// Delete removes a session from Redis
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	if err := r.client.Del(ctx, sessionKey(input.SessionID)).Err(); err != nil {
		return classify("delete session", err)
	}

	return nil
}

// Exists reports whether a live session uses the given ID
func (r *redisRepository) Exists(ctx context.Context, input *ExistsInput) (bool, error) {
	if input == nil || input.SessionID == "" {
		return false, errors.New("input and session ID cannot be empty")
	}

	n, err := r.client.Exists(ctx, sessionKey(input.SessionID)).Result()
	if err != nil {
		return false, classify("check session existence", err)
	}

	return n > 0, nil
}

// classify maps a raw store error to the taxonomy: connectivity problems
// are reported separately from generic data-access failures.
func classify(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.StoreConnection(op, err)
	}
	return apperr.DataAccess(op, err)
}
