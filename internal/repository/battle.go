package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vanguardsim/vanguard-server-go/internal/game"
)

// BattleStateRepository persists one JSON game-state document per battle in
// the battles.current_game_state column. It implements game.Store; the
// compare-and-save predicate on the document's updatedAt text is the only
// concurrency control the engine relies on.
type BattleStateRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewBattleStateRepository builds the repository.
func NewBattleStateRepository(db *DB, logger *zap.Logger) *BattleStateRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BattleStateRepository{db: db, logger: logger}
}

// Load returns the current state document for a battle. A missing battle row
// or an uninitialized state column both surface game.ErrNotFound.
func (r *BattleStateRepository) Load(ctx context.Context, battleID string) (*game.GameState, error) {
	var raw []byte
	err := r.db.Pool().QueryRow(ctx,
		`SELECT current_game_state
		 FROM battles
		 WHERE id = $1 AND is_deleted = false`,
		battleID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading game state for battle %s: %w", battleID, err)
	}

	state, err := game.DecodeState(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding game state for battle %s: %w", battleID, err)
	}
	if state.BattleID == "" {
		// Battle row exists but the state was never initialized.
		return nil, game.ErrNotFound
	}
	return state, nil
}

// Create writes the initial state document onto the battle row. The row
// itself is created by the battle service before initialization.
func (r *BattleStateRepository) Create(ctx context.Context, state *game.GameState) error {
	doc, err := state.Encode()
	if err != nil {
		return fmt.Errorf("encoding game state: %w", err)
	}

	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE battles
		 SET current_game_state = $2, update_time = now()
		 WHERE id = $1 AND is_deleted = false`,
		state.BattleID, doc,
	)
	if err != nil {
		return fmt.Errorf("creating game state for battle %s: %w", state.BattleID, err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrNotFound
	}
	return nil
}

// CompareAndSave persists the document only if the stored copy still carries
// the base updatedAt the caller loaded. The predicate compares the exact JSON
// text of the timestamp so no precision is lost round-tripping through the
// column.
func (r *BattleStateRepository) CompareAndSave(ctx context.Context, state *game.GameState, base time.Time) error {
	doc, err := state.Encode()
	if err != nil {
		return fmt.Errorf("encoding game state: %w", err)
	}
	baseText, err := jsonTimeText(base)
	if err != nil {
		return fmt.Errorf("encoding base version: %w", err)
	}

	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE battles
		 SET current_game_state = $2, update_time = now()
		 WHERE id = $1 AND is_deleted = false
		   AND current_game_state->>'updatedAt' = $3`,
		state.BattleID, doc, baseText,
	)
	if err != nil {
		return fmt.Errorf("saving game state for battle %s: %w", state.BattleID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a concurrent writer from a missing battle.
	var exists bool
	err = r.db.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM battles WHERE id = $1 AND is_deleted = false)`,
		state.BattleID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking battle %s: %w", state.BattleID, err)
	}
	if !exists {
		return game.ErrNotFound
	}
	return game.ErrConflict
}

// Finish closes the battle row once the battle ends: status, winner, end time
// and duration. The state document is left in place for replay and audit.
func (r *BattleStateRepository) Finish(ctx context.Context, battleID, winnerID string) error {
	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE battles
		 SET status = 'finished',
		     winner_id = NULLIF($2, ''),
		     end_time = now(),
		     duration_seconds = EXTRACT(EPOCH FROM (now() - start_time))::int,
		     update_time = now()
		 WHERE id = $1 AND is_deleted = false`,
		battleID, winnerID,
	)
	if err != nil {
		return fmt.Errorf("finishing battle %s: %w", battleID, err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrNotFound
	}
	r.logger.Info("battle finished",
		zap.String("battle_id", battleID),
		zap.String("winner_id", winnerID),
	)
	return nil
}

// jsonTimeText renders t exactly as encoding/json writes it inside the state
// document, without the surrounding quotes.
func jsonTimeText(t time.Time) (string, error) {
	quoted, err := t.MarshalJSON()
	if err != nil {
		return "", err
	}
	if len(quoted) >= 2 && quoted[0] == '"' {
		return string(quoted[1 : len(quoted)-1]), nil
	}
	return string(quoted), nil
}
