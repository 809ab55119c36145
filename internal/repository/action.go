package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vanguardsim/vanguard-server-go/internal/game"
)

// uniqueViolation is the SQLSTATE Postgres reports when an insert hits a
// unique constraint.
const uniqueViolation = "23505"

// appendRetries bounds how often a sequence collision is retried before the
// error is surfaced.
const appendRetries = 3

// execer is the slice of the pool the repository writes through; tests
// substitute a fake to drive the collision path.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ActionRepository appends immutable battle-action records for audit and
// replay. Sequence numbers are allocated per battle inside the insert; two
// writers committing back-to-back can read the same MAX, so a unique-
// constraint rejection is retried with a freshly computed sequence.
type ActionRepository struct {
	db   *DB
	exec execer
}

// NewActionRepository builds the repository.
func NewActionRepository(db *DB) *ActionRepository {
	return &ActionRepository{db: db, exec: db.Pool()}
}

// Append writes one action record with the next sequence number for its
// battle and the resulting state snapshot.
func (r *ActionRepository) Append(ctx context.Context, rec game.ActionRecord) error {
	actionData, err := json.Marshal(rec.ActionData)
	if err != nil {
		return fmt.Errorf("encoding action data: %w", err)
	}
	stateAfter, err := rec.State.Encode()
	if err != nil {
		return fmt.Errorf("encoding state snapshot: %w", err)
	}

	for attempt := 0; ; attempt++ {
		_, err = r.exec.Exec(ctx,
			`INSERT INTO battle_actions (id, battle_id, action_sequence, player_id, action_type, action_data, game_state_after, timestamp)
			 VALUES (
			     $1, $2,
			     (SELECT COALESCE(MAX(action_sequence), 0) + 1 FROM battle_actions WHERE battle_id = $2),
			     $3, $4, $5, $6, now()
			 )`,
			uuid.NewString(), rec.BattleID, rec.PlayerID, rec.ActionType, actionData, stateAfter,
		)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) || attempt >= appendRetries {
			return fmt.Errorf("appending action for battle %s: %w", rec.BattleID, err)
		}
		// A concurrent writer took the sequence; the subselect recomputes it
		// on the next insert.
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
