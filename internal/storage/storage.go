// Package storage defines persistence interfaces for game snapshots.
//
// The store is a keyed lookup with no business logic and no internal
// locking discipline beyond its own map safety; the dispatch layer
// serializes access per game code. Keeping the interface this small lets a
// durable backing store replace the in-memory map without touching the
// engine.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/liarsdice/internal/game/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// GameStore persists game snapshots keyed by game code.
type GameStore interface {
	Get(ctx context.Context, code string) (domain.Game, error)
	Put(ctx context.Context, game domain.Game) error
	Remove(ctx context.Context, code string) error
	Has(ctx context.Context, code string) (bool, error)
}
