package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// Request is one authenticated action. GameCode and PlayerID come from the
// verified credential, never from message content.
type Request struct {
	GameCode string
	PlayerID string
	Action   ActionType
	Payload  json.RawMessage
}

// Handler applies one action to one game. Handlers run with the game's
// lock held and must mutate nothing when they return an error.
type Handler func(ctx context.Context, req Request) error

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(Handler) Handler

// registerHandlers builds the action table. Every entry is wrapped in the
// middleware chain once, at startup.
func registerHandlers(s *Service, middleware []Middleware) map[ActionType]Handler {
	table := map[ActionType]Handler{
		ActionClaim:          s.handleClaim,
		ActionChallenge:      s.handleChallenge,
		ActionStartGame:      s.handleStartGame,
		ActionStartRound:     s.handleStartRound,
		ActionUpdateSettings: s.handleUpdateSettings,
		ActionReorderPlayers: s.handleReorderPlayers,
		ActionResetGame:      s.handleResetGame,
		ActionLeaveGame:      s.handleLeaveGame,
	}
	for action, handler := range table {
		for i := len(middleware) - 1; i >= 0; i-- {
			handler = middleware[i](handler)
		}
		table[action] = handler
	}
	return table
}

// Dispatch routes one action to its handler under the game's lock. An
// unknown action is rejected before the lock is taken.
func (s *Service) Dispatch(ctx context.Context, req Request) error {
	handler, ok := s.handlers[req.Action]
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeInvalidRequest, "unknown action",
			map[string]string{"action": string(req.Action)})
	}

	mu := s.lock(req.GameCode)
	mu.Lock()
	defer mu.Unlock()
	return handler(ctx, req)
}

// WithLogging logs every dispatched action with its outcome and duration.
func WithLogging() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) error {
			start := time.Now()
			err := next(ctx, req)
			if err != nil {
				log.Printf("action %s game=%s player=%s code=%s (%s)",
					req.Action, req.GameCode, req.PlayerID, apperrors.GetCode(err), time.Since(start))
				return err
			}
			log.Printf("action %s game=%s player=%s ok (%s)",
				req.Action, req.GameCode, req.PlayerID, time.Since(start))
			return nil
		}
	}
}
