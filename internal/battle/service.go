package battle

import (
	"context"

	"go.uber.org/zap"

	"github.com/vanguardsim/vanguard-server-go/internal/game"
)

// Lifecycle closes the battle row once a winner is decided.
type Lifecycle interface {
	Finish(ctx context.Context, battleID, winnerID string) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service is the in-process surface the session layer drives a battle
// through: CreateBattle once at match start, engine mutations during play,
// Finish when the battle ends.
type Service struct {
	engine      *game.Engine
	initializer *game.Initializer
	lifecycle   Lifecycle
	pinger      Pinger
	logger      *zap.Logger
}

// NewService wires the battle surface from its collaborators.
func NewService(engine *game.Engine, initializer *game.Initializer, lifecycle Lifecycle, pinger Pinger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:      engine,
		initializer: initializer,
		lifecycle:   lifecycle,
		pinger:      pinger,
		logger:      logger,
	}
}

// Engine exposes the mutator surface for gameplay actions.
func (s *Service) Engine() *game.Engine {
	return s.engine
}

// CreateBattle seeds and persists the starting state for a battle.
func (s *Service) CreateBattle(ctx context.Context, battleID, roomID string) (*game.GameState, error) {
	return s.initializer.Initialize(ctx, battleID, roomID)
}

// Finish closes the battle; the state document stays for replay and audit.
func (s *Service) Finish(ctx context.Context, battleID, winnerID string) error {
	if err := s.lifecycle.Finish(ctx, battleID, winnerID); err != nil {
		return err
	}
	s.logger.Info("battle closed",
		zap.String("battle_id", battleID),
		zap.String("winner_id", winnerID),
	)
	return nil
}

// Healthy reports whether the service can reach its backing store.
func (s *Service) Healthy(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	return s.pinger.Ping(ctx)
}
