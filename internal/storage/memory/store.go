// Package memory provides the in-process game store.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/liarsdice/internal/game/domain"
	"github.com/louisbranch/liarsdice/internal/storage"
)

// Store keeps game snapshots in a mutex-guarded map. Snapshots are cloned
// on the way in and out so no caller ever holds a live reference into the
// map.
type Store struct {
	mu    sync.RWMutex
	games map[string]domain.Game
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		games: make(map[string]domain.Game),
	}
}

// Get fetches a game snapshot by code.
func (s *Store) Get(ctx context.Context, code string) (domain.Game, error) {
	if err := ctx.Err(); err != nil {
		return domain.Game{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[code]
	if !ok {
		return domain.Game{}, storage.ErrNotFound
	}
	return game.Clone(), nil
}

// Put persists a game snapshot, replacing any previous one for its code.
func (s *Store) Put(ctx context.Context, game domain.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(game.Code) == "" {
		return fmt.Errorf("game code is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.Code] = game.Clone()
	return nil
}

// Remove deletes a game snapshot. Removing a missing code is not an error.
func (s *Store) Remove(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, code)
	return nil
}

// Has reports whether a game exists for the code.
func (s *Store) Has(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[code]
	return ok, nil
}

// Codes returns the codes of every stored game. Used by maintenance sweeps.
func (s *Store) Codes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.games))
	for code := range s.games {
		codes = append(codes, code)
	}
	return codes, nil
}
