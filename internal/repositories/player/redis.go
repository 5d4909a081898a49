package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/undercover-bot/undercover/internal/apperr"
	"github.com/undercover-bot/undercover/internal/common/clock"
	"github.com/undercover-bot/undercover/internal/models"
)

const (
	// Key prefix for players in Redis
	playerKeyPrefix = "player:"
)

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock stamps UpdatedAt on every save
	Clock clock.Clock
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	clock  clock.Clock
}

// NewRedis creates a new Redis-backed player repository
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

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		clock:  cfg.Clock,
	}, nil
}

func playerKey(playerID string) string {
	return fmt.Sprintf("%s%s", playerKeyPrefix, playerID)
}

// Save persists a player to Redis. Player records carry no TTL; they go
// stale harmlessly once their session expires.
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Player == nil {
		return errors.New("input and player cannot be nil")
	}

	if input.Player.ID == "" {
		return errors.New("player ID cannot be empty")
	}

	input.Player.UpdatedAt = r.clock.Now()

	payload, err := json.Marshal(input.Player)
	if err != nil {
		return apperr.Serialization("encode player", err).
			WithDetails(map[string]any{"player_id": input.Player.ID})
	}

	if err := r.client.Set(ctx, playerKey(input.Player.ID), payload, 0).Err(); err != nil {
		return apperr.DataAccess("save player", err)
	}

	return nil
}

// Get retrieves a player by ID from Redis
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	payload, err := r.client.Get(ctx, playerKey(input.PlayerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.PlayerNotFound(input.PlayerID)
		}
		return nil, apperr.DataAccess("get player", err)
	}

	var p models.Player
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, apperr.Serialization("decode player", err).
			WithDetails(map[string]any{"player_id": input.PlayerID})
	}

	return &p, nil
}
