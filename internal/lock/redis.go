// Package lock provides per-session mutual exclusion over the shared
// store, closing the lost-update race between concurrent commands that
// target the same session. Sessions are independent lock units; there is
// no global lock.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/undercover-bot/undercover/internal/apperr"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_locker.go github.com/undercover-bot/undercover/internal/lock Locker

const lockKeyPrefix = "lock:session:"

// releaseScript deletes the lock only if the caller still holds it, so a
// holder whose lease expired cannot release a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release frees a held lock. Safe to call exactly once on every exit path.
type Release func(ctx context.Context)

// Locker grants scoped exclusive access to one session at a time.
type Locker interface {
	// Acquire blocks until the session lock is held or the wait budget
	// runs out, in which case it fails with a retryable session-busy
	// error.
	Acquire(ctx context.Context, sessionID string) (Release, error)
}

// Config holds configuration for the Redis lease locker
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// LeaseTTL bounds how long a crashed holder can pin a lock
	LeaseTTL time.Duration

	// WaitTimeout bounds how long Acquire waits on a contended lock
	WaitTimeout time.Duration
}

// redisLocker implements Locker with a SET NX PX lease keyed per session
type redisLocker struct {
	client      *redis.Client
	leaseTTL    time.Duration
	waitTimeout time.Duration
}

// NewRedis creates a new Redis-backed session locker
func NewRedis(cfg *Config) (*redisLocker, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.LeaseTTL <= 0 {
		return nil, errors.New("lease TTL must be positive")
	}

	if cfg.WaitTimeout <= 0 {
		return nil, errors.New("wait timeout must be positive")
	}

	return &redisLocker{
		client:      cfg.RedisClient,
		leaseTTL:    cfg.LeaseTTL,
		waitTimeout: cfg.WaitTimeout,
	}, nil
}

// Acquire takes the lease for a session, retrying with exponential backoff
// until the wait budget is exhausted.
func (l *redisLocker) Acquire(ctx context.Context, sessionID string) (Release, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	key := fmt.Sprintf("%s%s", lockKeyPrefix, sessionID)
	token := uuid.New().String()

	deadline := time.Now().Add(l.waitTimeout)
	interval := 10 * time.Millisecond

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.leaseTTL).Result()
		if err != nil {
			return nil, apperr.DataAccess("acquire session lock", err).
				WithDetails(map[string]any{"session_id": sessionID})
		}

		if ok {
			return l.releaseFunc(key, token, sessionID), nil
		}

		if time.Now().Add(interval).After(deadline) {
			return nil, apperr.SessionBusy(sessionID)
		}

		select {
		case <-time.After(interval):
			interval *= 2
			if interval > 100*time.Millisecond {
				interval = 100 * time.Millisecond
			}
		case <-ctx.Done():
			return nil, apperr.SessionBusy(sessionID).WithCause(ctx.Err())
		}
	}
}

func (l *redisLocker) releaseFunc(key, token, sessionID string) Release {
	return func(ctx context.Context) {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			// The lease TTL will reap the lock; nothing more to do here.
			log.Warn().
				Err(err).
				Str("session_id", sessionID).
				Msg("failed to release session lock")
		}
	}
}
