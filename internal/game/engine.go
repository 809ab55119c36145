package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vanguardsim/vanguard-server-go/internal/metrics"
)

// defaultSaveRetries bounds how often a mutation is replayed after a
// compare-and-save conflict before surfacing ErrContention.
const defaultSaveRetries = 3

// ActionRecord is the immutable audit entry emitted after every committed
// mutation. The engine produces the resulting-state snapshot; the history
// collaborator owns the log itself.
type ActionRecord struct {
	BattleID   string
	PlayerID   string
	ActionType string
	ActionData map[string]any
	State      *GameState
}

// ActionRecorder receives one record per committed mutation.
type ActionRecorder interface {
	Record(ctx context.Context, rec ActionRecord) error
}

// MutationEvent is the notification fanned out to connected clients after a
// commit. The transport layer subscribes; the engine exposes no network
// surface of its own.
type MutationEvent struct {
	Type       string    `json:"type"`
	BattleID   string    `json:"battleId"`
	PlayerID   string    `json:"playerId,omitempty"`
	Phase      Phase     `json:"phase"`
	TurnNumber int       `json:"turnNumber"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier publishes mutation events to whatever delivers them to clients.
type Notifier interface {
	PublishMutation(ctx context.Context, ev MutationEvent) error
}

// EngineParams collects the engine's collaborators. Store and Logger are
// required; Recorder and Notifier may be nil when auditing or fan-out is
// handled elsewhere. A zero SaveRetries selects the default budget.
type EngineParams struct {
	Store       Store
	Recorder    ActionRecorder
	Notifier    Notifier
	Projector   *Projector
	SaveRetries int
	Logger      *zap.Logger
}

// Engine is the public mutator surface over a battle's game state. Every
// operation is load, modify in memory, validate, save with bounded retry;
// a save observing a stale base version is replayed from a fresh load, so
// each call is atomic with respect to the whole document even though writes
// are zone-granular in intent.
type Engine struct {
	store       Store
	recorder    ActionRecorder
	notifier    Notifier
	projector   *Projector
	saveRetries int
	logger      *zap.Logger
}

// NewEngine builds an engine from its collaborators.
func NewEngine(p EngineParams) *Engine {
	retries := p.SaveRetries
	if retries <= 0 {
		retries = defaultSaveRetries
	}
	projector := p.Projector
	if projector == nil {
		projector = NewProjector(nil)
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:       p.Store,
		recorder:    p.Recorder,
		notifier:    p.Notifier,
		projector:   projector,
		saveRetries: retries,
		logger:      logger,
	}
}

// State returns the canonical, unredacted state of a battle.
func (e *Engine) State(ctx context.Context, battleID string) (*GameState, error) {
	return e.store.Load(ctx, battleID)
}

// GetField returns a copy of one player's field.
func (e *Engine) GetField(ctx context.Context, battleID, playerID string) (*PlayerField, error) {
	st, err := e.store.Load(ctx, battleID)
	if err != nil {
		return nil, err
	}
	field, err := st.FieldOf(playerID)
	if err != nil {
		return nil, err
	}
	return field.Clone(), nil
}

// SetField replaces one player's entire field. The candidate must carry every
// zone and the effect map; a structurally incomplete field fails with
// ErrInvalidField before anything is persisted.
func (e *Engine) SetField(ctx context.Context, battleID, playerID string, field *PlayerField) error {
	if errs := validateField(field, "field"); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidField, strings.Join(errs, "; "))
	}
	_, err := e.mutate(ctx, battleID, playerID, "set_field", map[string]any{"player_id": playerID}, func(st *GameState) error {
		return st.setFieldOf(playerID, field.Clone())
	})
	return err
}

// GetZone returns a copy of one zone of one player's field.
func (e *Engine) GetZone(ctx context.Context, battleID, playerID string, zone Zone) (CardList, error) {
	if !zone.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZone, string(zone))
	}
	st, err := e.store.Load(ctx, battleID)
	if err != nil {
		return nil, err
	}
	field, err := st.FieldOf(playerID)
	if err != nil {
		return nil, err
	}
	cards, err := field.Zone(zone)
	if err != nil {
		return nil, err
	}
	return cards.Clone(), nil
}

// SetZone replaces exactly one zone's contents; every other zone and the
// other player's field are untouched. This is the mutation granularity real
// gameplay actions use (moving a card between zones is two SetZone calls).
func (e *Engine) SetZone(ctx context.Context, battleID, playerID string, zone Zone, cards CardList) error {
	if err := ValidateZone(zone, cards); err != nil {
		return err
	}
	_, err := e.mutate(ctx, battleID, playerID, "set_zone", map[string]any{"player_id": playerID, "zone": string(zone), "count": len(cards)}, func(st *GameState) error {
		field, err := st.FieldOf(playerID)
		if err != nil {
			return err
		}
		return field.SetZone(zone, cards.Clone())
	})
	return err
}

// SetPhase moves the battle to the named phase. An unknown phase name fails
// with ErrUnknownPhase and leaves the state untouched.
func (e *Engine) SetPhase(ctx context.Context, battleID string, phase Phase) error {
	if !phase.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPhase, string(phase))
	}
	_, err := e.mutate(ctx, battleID, "", "set_phase", map[string]any{"phase": string(phase)}, func(st *GameState) error {
		st.Phase = phase
		return nil
	})
	return err
}

// NextPhase advances along the fixed phase sequence. At turnend it wraps to
// reset without touching the current player or turn number; rules drivers end
// a player's turn through NextTurn instead.
func (e *Engine) NextPhase(ctx context.Context, battleID string) (Phase, error) {
	var next Phase
	_, err := e.mutate(ctx, battleID, "", "next_phase", nil, func(st *GameState) error {
		n, err := st.Phase.Next()
		if err != nil {
			return err
		}
		st.Phase = n
		next = n
		return nil
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

// NextTurn hands the turn to the other registered player: the turn number is
// incremented by one, currentPlayer flips, and the phase resets. Contract for
// rules drivers: the turn number counts player-turns, advancing on every
// call, not once per full round.
func (e *Engine) NextTurn(ctx context.Context, battleID string) error {
	_, err := e.mutate(ctx, battleID, "", "next_turn", nil, func(st *GameState) error {
		next, err := st.Opponent(st.CurrentPlayer)
		if err != nil {
			return err
		}
		st.TurnNumber++
		st.CurrentPlayer = next
		st.Phase = PhaseReset
		return nil
	})
	return err
}

// StatePatch is a shallow update of the top-level scalar fields. Nil members
// are left untouched; fields and zones are never affected.
type StatePatch struct {
	TurnNumber    *int
	CurrentPlayer *string
	Phase         *Phase
}

// UpdateState merges a shallow patch of turn number, current player and
// phase. Each supplied value is checked against the fixed enumerations and
// the registered players before the save.
func (e *Engine) UpdateState(ctx context.Context, battleID string, patch StatePatch) error {
	_, err := e.mutate(ctx, battleID, "", "update_state", nil, func(st *GameState) error {
		if patch.Phase != nil {
			if !patch.Phase.Valid() {
				return fmt.Errorf("%w: %q", ErrUnknownPhase, string(*patch.Phase))
			}
			st.Phase = *patch.Phase
		}
		if patch.CurrentPlayer != nil {
			if !st.HasPlayer(*patch.CurrentPlayer) {
				return fmt.Errorf("%w: %s", ErrUnknownPlayer, *patch.CurrentPlayer)
			}
			st.CurrentPlayer = *patch.CurrentPlayer
		}
		if patch.TurnNumber != nil {
			st.TurnNumber = *patch.TurnNumber
		}
		return nil
	})
	return err
}

// StateForReconnect loads, validates and projects the state for a
// reconnecting viewer. A viewer who is not one of the battle's players gets
// ErrUnknownPlayer; a state that fails validation is refused rather than
// served broken.
func (e *Engine) StateForReconnect(ctx context.Context, battleID, viewerID string) (*GameState, error) {
	st, err := e.store.Load(ctx, battleID)
	if err != nil {
		return nil, err
	}
	if ok, errs := ValidateState(st); !ok {
		e.logger.Warn("refusing to serve invalid game state for reconnect",
			zap.String("battle_id", battleID),
			zap.Strings("errors", errs),
		)
		return nil, fmt.Errorf("%w: stored state failed validation", ErrInvalidField)
	}
	return e.projector.ProjectForPlayer(st, viewerID)
}

// ProjectForPlayer redacts an already-loaded state for a viewer using the
// engine's visibility policy.
func (e *Engine) ProjectForPlayer(state *GameState, viewerID string) (*GameState, error) {
	return e.projector.ProjectForPlayer(state, viewerID)
}

// mutate runs one load-modify-validate-save round trip with bounded retries
// on save conflicts. On commit it emits the action record and the mutation
// event; neither may fail the already-committed mutation.
func (e *Engine) mutate(ctx context.Context, battleID, playerID, actionType string, actionData map[string]any, fn func(*GameState) error) (*GameState, error) {
	start := time.Now()

	for attempt := 0; ; attempt++ {
		st, err := e.store.Load(ctx, battleID)
		if err != nil {
			return nil, err
		}
		base := st.UpdatedAt

		if err := fn(st); err != nil {
			return nil, err
		}
		if ok, errs := ValidateState(st); !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidField, strings.Join(errs, "; "))
		}
		st.UpdatedAt = time.Now().UTC()

		err = e.store.CompareAndSave(ctx, st, base)
		if err == nil {
			metrics.Mutations.WithLabelValues(actionType).Inc()
			metrics.MutationDuration.WithLabelValues(actionType).Observe(time.Since(start).Seconds())
			e.afterCommit(ctx, st, playerID, actionType, actionData)
			return st, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}

		metrics.SaveConflicts.Inc()
		if attempt >= e.saveRetries {
			metrics.Contention.Inc()
			e.logger.Warn("game state save retries exhausted",
				zap.String("battle_id", battleID),
				zap.String("operation", actionType),
				zap.Int("attempts", attempt+1),
			)
			return nil, fmt.Errorf("%w: battle %s", ErrContention, battleID)
		}
		e.logger.Debug("game state save conflict, retrying",
			zap.String("battle_id", battleID),
			zap.String("operation", actionType),
			zap.Int("attempt", attempt+1),
		)
	}
}

func (e *Engine) afterCommit(ctx context.Context, st *GameState, playerID, actionType string, actionData map[string]any) {
	if playerID == "" {
		playerID = st.CurrentPlayer
	}
	if e.recorder != nil {
		rec := ActionRecord{
			BattleID:   st.BattleID,
			PlayerID:   playerID,
			ActionType: actionType,
			ActionData: actionData,
			State:      st,
		}
		if err := e.recorder.Record(ctx, rec); err != nil {
			e.logger.Error("failed to record battle action",
				zap.String("battle_id", st.BattleID),
				zap.String("operation", actionType),
				zap.Error(err),
			)
		}
	}
	if e.notifier != nil {
		ev := MutationEvent{
			Type:       actionType,
			BattleID:   st.BattleID,
			PlayerID:   playerID,
			Phase:      st.Phase,
			TurnNumber: st.TurnNumber,
			Timestamp:  st.UpdatedAt,
		}
		if err := e.notifier.PublishMutation(ctx, ev); err != nil {
			e.logger.Error("failed to publish mutation event",
				zap.String("battle_id", st.BattleID),
				zap.String("operation", actionType),
				zap.Error(err),
			)
		}
	}
}
