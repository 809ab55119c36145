package game

import (
	"context"
	"sync"
	"time"
)

// Store is the persistence boundary for battle state: one JSON document per
// battle, keyed by battle id. CompareAndSave is the sole concurrency-control
// point in the system; there is no in-process lock that would be correct
// across multiple server instances.
type Store interface {
	// Load returns the current state for a battle, or ErrNotFound.
	Load(ctx context.Context, battleID string) (*GameState, error)

	// Create persists the initial state for a battle.
	Create(ctx context.Context, state *GameState) error

	// CompareAndSave persists state if and only if the stored version still
	// carries the base timestamp the caller loaded. A stale base fails with
	// ErrConflict and the caller must reload, reapply and retry.
	CompareAndSave(ctx context.Context, state *GameState, base time.Time) error
}

// MemoryStore is an in-process Store used by tests and by single-node tooling.
// It applies the same compare-and-save semantics as the database-backed store.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]*GameState
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*GameState)}
}

func (s *MemoryStore) Load(_ context.Context, battleID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[battleID]
	if !ok {
		return nil, ErrNotFound
	}
	return st.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, state *GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.BattleID] = state.Clone()
	return nil
}

func (s *MemoryStore) CompareAndSave(_ context.Context, state *GameState, base time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.states[state.BattleID]
	if !ok {
		return ErrNotFound
	}
	if !current.UpdatedAt.Equal(base) {
		return ErrConflict
	}
	s.states[state.BattleID] = state.Clone()
	return nil
}
