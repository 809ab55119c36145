package game

import "errors"

// Error taxonomy for the game-state engine. ErrNotFound and ErrContention are
// the only values expected to reach an external caller under normal load; the
// rest indicate a caller or data bug and are surfaced for logging, never
// retried.
var (
	// ErrNotFound means no persisted state exists for the battle id. The
	// caller must run the initializer first.
	ErrNotFound = errors.New("game state not found")

	// ErrInvalidPlayerCount means the room did not hold exactly two players.
	ErrInvalidPlayerCount = errors.New("battle requires exactly two players")

	// ErrDeckNotFound means a player has no active (preset-zero) deck.
	ErrDeckNotFound = errors.New("player has no active deck")

	// ErrUnknownPhase means the phase name is outside the fixed phase set.
	ErrUnknownPhase = errors.New("unknown phase")

	// ErrInvalidZone means the zone name is outside the sixteen board zones.
	ErrInvalidZone = errors.New("invalid zone")

	// ErrInvalidField means a player field is structurally incomplete or
	// mis-shaped.
	ErrInvalidField = errors.New("invalid player field")

	// ErrInvalidCard means a card failed the codec's shape check.
	ErrInvalidCard = errors.New("invalid card")

	// ErrUnknownPlayer means the player id is not one of the battle's two
	// registered players.
	ErrUnknownPlayer = errors.New("player not in battle")

	// ErrConflict means a compare-and-save observed a stale base version.
	// The engine retries it transparently; it only escapes through the store
	// interface.
	ErrConflict = errors.New("stale game state version")

	// ErrContention means the bounded retry budget was exhausted without a
	// successful commit.
	ErrContention = errors.New("game state contention: retries exhausted")
)
