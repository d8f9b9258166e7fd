package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/liarsdice/internal/id"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// AddPlayer seats a new player in the lobby. The player starts with the
// configured dice count and an unrolled hand.
func (g Game) AddPlayer(name string, now func() time.Time, idGenerator func() (string, error)) (Game, Player, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if g.Stage != StagePreGame {
		return g, Player{}, apperrors.New(apperrors.CodeGameInProgress, "players can only join before the game starts")
	}
	if len(g.Players) >= MaxPlayers {
		return g, Player{}, apperrors.New(apperrors.CodeGameFull, fmt.Sprintf("game is full (%d players)", MaxPlayers))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return g, Player{}, apperrors.New(apperrors.CodeInvalidRequest, "player name is required")
	}

	playerID, err := idGenerator()
	if err != nil {
		return g, Player{}, fmt.Errorf("generate player id: %w", err)
	}

	next := g.Clone()
	player := Player{
		ID:            playerID,
		Name:          name,
		RemainingDice: next.Settings.StartingDice,
	}
	next.Players = append(next.Players, player)
	next.touch(now)
	return next, player, nil
}

// RemovePlayerResult reports the side effects of a player removal.
type RemovePlayerResult struct {
	// NewHostID is set when host rights moved to another player.
	NewHostID string
	// GameEnded reports that the removal left a single player mid-game.
	GameEnded bool
	// WinnerID is the surviving player when GameEnded is true.
	WinnerID string
	// Destroyed reports that the last player left; the caller must remove
	// the game from its store rather than persist the returned snapshot.
	Destroyed bool
}

// RemovePlayer takes a player out of the game at any stage. Host rights pass
// to the first remaining seat. Dropping to one player mid-game finishes the
// game; dropping to zero tells the caller to destroy it.
func (g Game) RemovePlayer(playerID string, now func() time.Time) (Game, RemovePlayerResult, error) {
	idx, _, ok := g.FindPlayer(playerID)
	if !ok {
		return g, RemovePlayerResult{}, apperrors.New(apperrors.CodePlayerNotFound, "player is not in this game")
	}

	next := g.Clone()
	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)

	var result RemovePlayerResult
	if len(next.Players) == 0 {
		result.Destroyed = true
		return next, result, nil
	}

	if playerID == next.HostID {
		next.HostID = next.Players[0].ID
		result.NewHostID = next.HostID
	}

	// Seats shifted; keep the turn pointer inside the player list.
	if idx < next.CurrentTurnIndex {
		next.CurrentTurnIndex--
	}
	next.CurrentTurnIndex = next.CurrentTurnIndex % len(next.Players)
	if next.CurrentTurnIndex < 0 {
		next.CurrentTurnIndex = 0
	}

	if len(next.Players) == 1 && next.Stage != StagePreGame && next.Stage != StagePostGame {
		next.Stage = StagePostGame
		next.TurnDeadline = nil
		result.GameEnded = true
		result.WinnerID = next.Players[0].ID
	}

	next.touch(now)
	return next, result, nil
}

// UpdateSettingsInput carries a partial settings change; nil fields keep
// their current values.
type UpdateSettingsInput struct {
	StartingDice          *int
	TurnTimeoutSeconds    *int
	PostRoundDelaySeconds *int
}

// UpdateSettings applies a host-only settings change in the lobby. Applying
// settings resets every player's dice count to the configured starting value.
func (g Game) UpdateSettings(playerID string, input UpdateSettingsInput, now func() time.Time) (Game, error) {
	if playerID != g.HostID {
		return g, apperrors.New(apperrors.CodeUnauthorized, "only the host can change settings")
	}
	if g.Stage != StagePreGame {
		return g, apperrors.New(apperrors.CodeGameInProgress, "settings can only change before the game starts")
	}

	settings := g.Settings
	if input.StartingDice != nil {
		if *input.StartingDice < 1 || *input.StartingDice > 6 {
			return g, apperrors.New(apperrors.CodeInvalidRequest, "starting dice must be between 1 and 6")
		}
		settings.StartingDice = *input.StartingDice
	}
	if input.TurnTimeoutSeconds != nil {
		if *input.TurnTimeoutSeconds < 0 {
			return g, apperrors.New(apperrors.CodeInvalidRequest, "turn timeout cannot be negative")
		}
		settings.TurnTimeoutSeconds = *input.TurnTimeoutSeconds
	}
	if input.PostRoundDelaySeconds != nil {
		if *input.PostRoundDelaySeconds < 0 {
			return g, apperrors.New(apperrors.CodeInvalidRequest, "post-round delay cannot be negative")
		}
		settings.PostRoundDelaySeconds = *input.PostRoundDelaySeconds
	}

	next := g.Clone()
	next.Settings = settings
	for i := range next.Players {
		next.Players[i].RemainingDice = settings.StartingDice
	}
	next.touch(now)
	return next, nil
}

// ReorderPlayers applies a host-only seat reorder in the lobby. The new order
// must be a permutation of exactly the current player IDs.
func (g Game) ReorderPlayers(playerID string, newOrder []string, now func() time.Time) (Game, error) {
	if playerID != g.HostID {
		return g, apperrors.New(apperrors.CodeUnauthorized, "only the host can reorder players")
	}
	if g.Stage != StagePreGame {
		return g, apperrors.New(apperrors.CodeGameInProgress, "players can only be reordered before the game starts")
	}
	if len(newOrder) != len(g.Players) {
		return g, apperrors.New(apperrors.CodeInvalidRequest, "new order must include every player exactly once")
	}

	reordered := make([]Player, 0, len(g.Players))
	seen := make(map[string]bool, len(newOrder))
	for _, pid := range newOrder {
		if seen[pid] {
			return g, apperrors.New(apperrors.CodeInvalidRequest, "new order must include every player exactly once")
		}
		seen[pid] = true
		_, player, ok := g.FindPlayer(pid)
		if !ok {
			return g, apperrors.New(apperrors.CodeInvalidRequest, "new order references an unknown player")
		}
		reordered = append(reordered, player)
	}

	next := g.Clone()
	next.Players = reordered
	next.touch(now)
	return next, nil
}
