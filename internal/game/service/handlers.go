package service

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/liarsdice/internal/game/domain"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// Game codes are short enough to read aloud; collisions are resolved by
// retrying against the store.
const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength      = 6
	codeMaxAttempts = 5
)

// CreateGame allocates a fresh game with the caller as host and persists it.
// The host joins over the transport afterwards with the returned identity.
func (s *Service) CreateGame(ctx context.Context, hostName string) (domain.Game, domain.Player, error) {
	if strings.TrimSpace(hostName) == "" {
		return domain.Game{}, domain.Player{}, apperrors.New(apperrors.CodeInvalidRequest, "player name is required")
	}
	hostID, err := s.idGenerator()
	if err != nil {
		return domain.Game{}, domain.Player{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "generate host id", err)
	}

	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		code, err := newGameCode()
		if err != nil {
			return domain.Game{}, domain.Player{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "generate game code", err)
		}

		mu := s.lock(code)
		mu.Lock()
		exists, err := s.store.Has(ctx, code)
		if err != nil {
			mu.Unlock()
			return domain.Game{}, domain.Player{}, apperrors.Wrap(apperrors.CodeInvalidGameState, "check game code", err)
		}
		if exists {
			mu.Unlock()
			continue
		}
		game := domain.NewGame(code, hostID, hostName, domain.DefaultSettings(), s.now)
		err = s.store.Put(ctx, game)
		mu.Unlock()
		if err != nil {
			return domain.Game{}, domain.Player{}, apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
		}
		return game, game.Players[0], nil
	}
	return domain.Game{}, domain.Player{}, apperrors.New(apperrors.CodeGameAlreadyExists, "could not allocate a unique game code")
}

// JoinGame seats a new player in the lobby and announces them.
func (s *Service) JoinGame(ctx context.Context, code, name string) (domain.Game, domain.Player, error) {
	mu := s.lock(code)
	mu.Lock()
	defer mu.Unlock()

	game, err := s.getGame(ctx, code)
	if err != nil {
		return domain.Game{}, domain.Player{}, err
	}
	next, player, err := game.AddPlayer(name, s.now, s.idGenerator)
	if err != nil {
		return domain.Game{}, domain.Player{}, err
	}
	if err := s.store.Put(ctx, next); err != nil {
		return domain.Game{}, domain.Player{}, apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}

	s.publisher.Broadcast(code, Event{Type: EventPlayerJoined, Data: PlayerJoinedPayload{Player: player}})
	return next, player, nil
}

// Replay resends the state a player needs after connecting or reconnecting:
// their sanitized view, their own dice mid-round, and the pending reveal
// plus restart deadline if the game sits between rounds.
func (s *Service) Replay(ctx context.Context, code, playerID string) error {
	mu := s.lock(code)
	mu.Lock()
	defer mu.Unlock()

	game, err := s.getGameForPlayer(ctx, code, playerID)
	if err != nil {
		return err
	}

	s.publisher.SendTo(code, playerID, Event{Type: EventGameState, Data: GameStatePayload{
		Game: game.SanitizeForPlayer(playerID),
	}})

	switch game.Stage {
	case domain.StageRoundRobin:
		if _, player, ok := game.FindPlayer(playerID); ok {
			s.publisher.SendTo(code, playerID, Event{Type: EventDiceRolled, Data: DiceRolledPayload{
				Dice: append([]int(nil), player.Dice...),
			}})
		}
	case domain.StagePostRound:
		if n := len(game.ChallengeResults); n > 0 {
			var restartsAt *time.Time
			if deadline, ok := s.roundTimers.Deadline(code); ok {
				restartsAt = &deadline
			}
			s.publisher.SendTo(code, playerID, Event{Type: EventChallengeMade, Data: ChallengeMadePayload{
				ChallengeResult:   game.ChallengeResults[n-1],
				NextRoundStartsAt: restartsAt,
			}})
		}
	}
	return nil
}

type claimPayload struct {
	Quantity  int `json:"quantity"`
	FaceValue int `json:"faceValue"`
}

func (s *Service) handleClaim(ctx context.Context, req Request) error {
	var payload claimPayload
	if err := decode(req.Payload, &payload); err != nil {
		return err
	}
	game, err := s.getGame(ctx, req.GameCode)
	if err != nil {
		return err
	}

	next, err := game.AddClaim(domain.Claim{
		PlayerID:  req.PlayerID,
		Quantity:  payload.Quantity,
		FaceValue: payload.FaceValue,
	}, s.now)
	if err != nil {
		return err
	}

	s.armTurnTimer(&next)
	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}

	current, _ := next.CurrentPlayer()
	s.publisher.Broadcast(next.Code, Event{Type: EventClaimMade, Data: ClaimMadePayload{
		PlayerID:     req.PlayerID,
		Quantity:     payload.Quantity,
		FaceValue:    payload.FaceValue,
		NextPlayerID: current.ID,
		TurnDeadline: next.TurnDeadline,
	}})
	return nil
}

func (s *Service) handleChallenge(ctx context.Context, req Request) error {
	game, err := s.getGame(ctx, req.GameCode)
	if err != nil {
		return err
	}

	next, result, err := game.Challenge(req.PlayerID, s.now)
	if err != nil {
		return err
	}

	nextRoundStartsAt := s.settleRoundEnd(&next)
	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}

	s.publisher.Broadcast(next.Code, Event{Type: EventChallengeMade, Data: ChallengeMadePayload{
		ChallengeResult:   result,
		NextRoundStartsAt: nextRoundStartsAt,
	}})
	return nil
}

func (s *Service) handleStartGame(ctx context.Context, req Request) error {
	game, err := s.getGameForPlayer(ctx, req.GameCode, req.PlayerID)
	if err != nil {
		return err
	}

	next, err := game.StartGame(req.PlayerID, s.now, s.rng)
	if err != nil {
		return err
	}

	s.armTurnTimer(&next)
	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}
	s.announceRound(next, EventGameStarted)
	return nil
}

func (s *Service) handleStartRound(ctx context.Context, req Request) error {
	game, err := s.getGameForPlayer(ctx, req.GameCode, req.PlayerID)
	if err != nil {
		return err
	}

	next, err := game.StartRound(s.now, s.rng)
	if err != nil {
		return err
	}

	s.armTurnTimer(&next)
	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}
	s.announceRound(next, EventRoundStarted)
	return nil
}

type settingsPayload struct {
	StartingDice          *int `json:"startingDice"`
	TurnTimeoutSeconds    *int `json:"turnTimeoutSeconds"`
	PostRoundDelaySeconds *int `json:"postRoundDelaySeconds"`
}

func (s *Service) handleUpdateSettings(ctx context.Context, req Request) error {
	var payload settingsPayload
	if err := decode(req.Payload, &payload); err != nil {
		return err
	}
	game, err := s.getGame(ctx, req.GameCode)
	if err != nil {
		return err
	}

	next, err := game.UpdateSettings(req.PlayerID, domain.UpdateSettingsInput{
		StartingDice:          payload.StartingDice,
		TurnTimeoutSeconds:    payload.TurnTimeoutSeconds,
		PostRoundDelaySeconds: payload.PostRoundDelaySeconds,
	}, s.now)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}
	s.publisher.Broadcast(next.Code, Event{Type: EventSettingsUpdated, Data: SettingsUpdatedPayload{
		Settings: next.Settings,
	}})
	return nil
}

type reorderPayload struct {
	PlayerIDs []string `json:"playerIds"`
}

func (s *Service) handleReorderPlayers(ctx context.Context, req Request) error {
	var payload reorderPayload
	if err := decode(req.Payload, &payload); err != nil {
		return err
	}
	game, err := s.getGame(ctx, req.GameCode)
	if err != nil {
		return err
	}

	next, err := game.ReorderPlayers(req.PlayerID, payload.PlayerIDs, s.now)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}
	s.publisher.Broadcast(next.Code, Event{Type: EventPlayersReordered, Data: PlayersReorderedPayload{
		PlayerIDs: payload.PlayerIDs,
	}})
	return nil
}

func (s *Service) handleResetGame(ctx context.Context, req Request) error {
	game, err := s.getGame(ctx, req.GameCode)
	if err != nil {
		return err
	}

	next, err := game.ResetGame(req.PlayerID, s.now)
	if err != nil {
		return err
	}

	s.turnTimers.Cancel(next.Code)
	s.roundTimers.Cancel(next.Code)
	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}
	// Post-reset dice are unrolled, so a single shared view leaks nothing.
	s.publisher.Broadcast(next.Code, Event{Type: EventGameReset, Data: GameStatePayload{
		Game: next.SanitizeForPlayer(""),
	}})
	return nil
}

func (s *Service) handleLeaveGame(ctx context.Context, req Request) error {
	game, err := s.getGame(ctx, req.GameCode)
	if err != nil {
		return err
	}

	next, result, err := game.RemovePlayer(req.PlayerID, s.now)
	if err != nil {
		return err
	}

	if result.Destroyed {
		s.turnTimers.Cancel(req.GameCode)
		s.roundTimers.Cancel(req.GameCode)
		if err := s.store.Remove(ctx, req.GameCode); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidGameState, "destroy game", err)
		}
		return nil
	}

	if result.GameEnded {
		s.settleRoundEnd(&next)
	} else if next.Stage == domain.StageRoundRobin {
		// If the turn timer was waiting on the leaver, the seat that
		// inherited the turn gets a fresh deadline.
		if subject, ok := s.turnTimers.Subject(req.GameCode); ok && subject == req.PlayerID {
			s.armTurnTimer(&next)
		}
	}
	if err := s.store.Put(ctx, next); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidGameState, "persist game", err)
	}

	s.publisher.Broadcast(next.Code, Event{Type: EventPlayerLeft, Data: PlayerLeftPayload{
		PlayerID:  req.PlayerID,
		NewHostID: result.NewHostID,
	}})
	if result.GameEnded {
		s.publisher.Broadcast(next.Code, Event{Type: EventGameEnded, Data: GameEndedPayload{
			WinnerID: result.WinnerID,
		}})
	}
	return nil
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return apperrors.New(apperrors.CodeInvalidRequest, "missing payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "malformed payload", err)
	}
	return nil
}

func newGameCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
