package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/vanguardsim/vanguard-server-go/internal/game"
)

// Sink is where finished records land, normally the battle_actions table.
type Sink interface {
	Append(ctx context.Context, rec game.ActionRecord) error
}

// Recorder adapts the engine's per-mutation records onto a sink. It
// implements game.ActionRecorder; the engine treats recording as
// best-effort, so failures are returned for logging but never roll back the
// committed mutation.
type Recorder struct {
	sink   Sink
	logger *zap.Logger
}

// NewRecorder builds a recorder over a sink.
func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{sink: sink, logger: logger}
}

// Record appends one action record.
func (r *Recorder) Record(ctx context.Context, rec game.ActionRecord) error {
	r.logger.Debug("recording battle action",
		zap.String("battle_id", rec.BattleID),
		zap.String("player_id", rec.PlayerID),
		zap.String("action_type", rec.ActionType),
	)
	return r.sink.Append(ctx, rec)
}
