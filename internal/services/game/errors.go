package game

// GameError is a constructor-validation error type
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Construction errors
const (
	ErrNilConfig      GameError = "config cannot be nil"
	ErrNilSessionRepo GameError = "session repository cannot be nil"
	ErrNilPlayerRepo  GameError = "player repository cannot be nil"
	ErrNilLocker      GameError = "session locker cannot be nil"
	ErrNilNotifier    GameError = "notifier cannot be nil"
	ErrNilClock       GameError = "clock cannot be nil"
	ErrNilIDGenerator GameError = "ID generator cannot be nil"
	ErrNilRandomizer  GameError = "randomizer cannot be nil"
	ErrNoWordPairs    GameError = "word pair catalog cannot be empty"
)
