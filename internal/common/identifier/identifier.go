package identifier

import (
	"fmt"
	"math/rand"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/undercover-bot/undercover/internal/common/identifier Generator

// Generator produces candidate session ids. Uniqueness among live sessions
// is the caller's job; the generator only keeps the id space cheap to type.
type Generator interface {
	NewID() string
}

// DefaultGenerator produces 4-digit numeric ids (1000-9999), short enough
// to relay over chat. ~9000 values keeps collision retries rare at party
// scale; swap the generator for anything bigger. Draws from the top-level
// math/rand source so one instance can serve concurrent handlers.
type DefaultGenerator struct{}

// New creates a goroutine-safe generator
func New() *DefaultGenerator {
	return &DefaultGenerator{}
}

// NewID returns a new candidate session id
func (g *DefaultGenerator) NewID() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}
