// Package service is the dispatch boundary between transports and the game
// engine. It serializes transitions per game code, persists resulting
// snapshots, arms and cancels the turn and round timers, and derives the
// broadcast payloads clients see. All rules live in the domain package;
// this layer only encodes the protocol around them.
package service

import (
	"context"
	"hash/fnv"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/louisbranch/liarsdice/internal/game/domain"
	"github.com/louisbranch/liarsdice/internal/game/timer"
	"github.com/louisbranch/liarsdice/internal/id"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
	"github.com/louisbranch/liarsdice/internal/storage"
)

// lockStripes bounds the number of per-code mutexes. Codes hash onto a
// fixed stripe set so the lock table never grows with game count.
const lockStripes = 64

// Service coordinates every state transition for every game. No two
// transitions overlap for one game code; timer callbacks take the same lock
// as player actions and re-validate state after acquiring it.
type Service struct {
	store       storage.GameStore
	publisher   Publisher
	turnTimers  *timer.Registry
	roundTimers *timer.Registry

	now         func() time.Time
	idGenerator func() (string, error)
	rng         *rand.Rand

	handlers map[ActionType]Handler

	locks [lockStripes]sync.Mutex
}

// New wires a dispatch service over the given store and publisher. The
// middleware slice is composed left to right around every registered
// handler at construction time.
func New(store storage.GameStore, publisher Publisher, middleware ...Middleware) *Service {
	s := &Service{
		store:       store,
		publisher:   publisher,
		turnTimers:  timer.NewRegistry(),
		roundTimers: timer.NewRegistry(),
		now:         time.Now,
		idGenerator: id.NewID,
		rng:         rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())}),
	}
	s.handlers = registerHandlers(s, middleware)
	return s
}

// Stop cancels all outstanding timers. Used at process shutdown.
func (s *Service) Stop() {
	s.turnTimers.Stop()
	s.roundTimers.Stop()
}

// lock returns the mutex guarding the given game code.
func (s *Service) lock(code string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(code))
	return &s.locks[h.Sum32()%lockStripes]
}

// getGameForPlayer fetches the snapshot and verifies the caller is seated.
func (s *Service) getGameForPlayer(ctx context.Context, code, playerID string) (domain.Game, error) {
	game, err := s.getGame(ctx, code)
	if err != nil {
		return domain.Game{}, err
	}
	if _, _, ok := game.FindPlayer(playerID); !ok {
		return domain.Game{}, apperrors.New(apperrors.CodePlayerNotFound, "player is not in this game")
	}
	return game, nil
}

func (s *Service) getGame(ctx context.Context, code string) (domain.Game, error) {
	game, err := s.store.Get(ctx, code)
	if err == storage.ErrNotFound {
		return domain.Game{}, apperrors.New(apperrors.CodeGameNotFound, "no game with this code")
	}
	if err != nil {
		return domain.Game{}, apperrors.Wrap(apperrors.CodeInvalidGameState, "load game", err)
	}
	return game, nil
}

// armTurnTimer schedules the auto-forfeit for the game's current player and
// records the deadline on the snapshot. The previous turn timer for this
// code, if any, is replaced.
func (s *Service) armTurnTimer(game *domain.Game) {
	current, ok := game.CurrentPlayer()
	if !ok {
		return
	}
	code := game.Code
	playerID := current.ID
	delay := time.Duration(game.Settings.TurnTimeoutSeconds) * time.Second
	deadline := s.turnTimers.Start(code, playerID, delay, func() {
		s.turnTimerFired(code, playerID)
	})
	game.TurnDeadline = &deadline
}

// settleRoundEnd applies the timer protocol after a transition that left
// ROUND_ROBIN: POST_ROUND arms exactly one round-restart timer, POST_GAME
// cancels everything. Returns the round-restart deadline when one was
// armed.
func (s *Service) settleRoundEnd(game *domain.Game) *time.Time {
	s.turnTimers.Cancel(game.Code)
	switch game.Stage {
	case domain.StagePostRound:
		code := game.Code
		delay := time.Duration(game.Settings.PostRoundDelaySeconds) * time.Second
		deadline := s.roundTimers.Start(code, "", delay, func() {
			s.roundTimerFired(code)
		})
		return &deadline
	case domain.StagePostGame:
		s.roundTimers.Cancel(game.Code)
	}
	return nil
}

// turnTimerFired is the auto-forfeit callback. It races freely with player
// actions, so it re-fetches the snapshot under the game lock and acts only
// if the round is still waiting on the same player. A missing game is a
// normal race outcome, not an error.
func (s *Service) turnTimerFired(code, playerID string) {
	ctx := context.Background()
	mu := s.lock(code)
	mu.Lock()
	defer mu.Unlock()

	game, err := s.store.Get(ctx, code)
	if err != nil {
		return
	}
	current, ok := game.CurrentPlayer()
	if !ok || game.Stage != domain.StageRoundRobin || current.ID != playerID {
		return
	}

	next, result, err := game.ForfeitRound(playerID, s.now)
	if err != nil {
		log.Printf("forfeit %s in %s: %v", playerID, code, err)
		return
	}
	nextRoundStartsAt := s.settleRoundEnd(&next)
	if err := s.store.Put(ctx, next); err != nil {
		log.Printf("persist forfeit in %s: %v", code, err)
		return
	}

	s.publisher.Broadcast(code, Event{Type: EventPlayerForfeited, Data: PlayerForfeitedPayload{
		PlayerID:          result.PlayerID,
		NextPlayerID:      result.NextPlayerID,
		Eliminated:        result.LoserEliminated,
		GameEnded:         result.GameEnded,
		NextRoundStartsAt: nextRoundStartsAt,
	}})
}

// roundTimerFired auto-starts the next round after the reveal window. The
// stage is re-checked under the lock; a reset, leave, or destroy may have
// moved the game on while the timer was pending.
func (s *Service) roundTimerFired(code string) {
	ctx := context.Background()
	mu := s.lock(code)
	mu.Lock()
	defer mu.Unlock()

	game, err := s.store.Get(ctx, code)
	if err != nil {
		return
	}
	if game.Stage != domain.StagePostRound {
		return
	}

	next, err := game.StartRound(s.now, s.rng)
	if err != nil {
		log.Printf("auto-start round in %s: %v", code, err)
		return
	}
	s.armTurnTimer(&next)
	if err := s.store.Put(ctx, next); err != nil {
		log.Printf("persist round start in %s: %v", code, err)
		return
	}
	s.announceRound(next, EventRoundStarted)
}

// announceRound broadcasts the round opening and sends each player their
// private hand.
func (s *Service) announceRound(game domain.Game, eventType EventType) {
	starter, _ := game.CurrentPlayer()
	s.publisher.Broadcast(game.Code, Event{Type: eventType, Data: RoundStartedPayload{
		StartingPlayerID: starter.ID,
		TurnDeadline:     game.TurnDeadline,
	}})
	for _, p := range game.Players {
		s.publisher.SendTo(game.Code, p.ID, Event{Type: EventDiceRolled, Data: DiceRolledPayload{
			Dice: append([]int(nil), p.Dice...),
		}})
	}
}

// lockedSource makes a rand source safe for use across game goroutines.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}
