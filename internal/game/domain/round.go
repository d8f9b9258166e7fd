package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/louisbranch/liarsdice/internal/dice"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// StartGame begins the first round. Host only, lobby only, and at least two
// players must be seated. All hands are rolled and a uniformly random player
// opens the bidding.
func (g Game) StartGame(playerID string, now func() time.Time, rng *rand.Rand) (Game, error) {
	if playerID != g.HostID {
		return g, apperrors.New(apperrors.CodeUnauthorized, "only the host can start the game")
	}
	if g.Stage != StagePreGame {
		return g, apperrors.New(apperrors.CodeGameInProgress, "game has already started")
	}
	if len(g.Players) < MinPlayersToStart {
		return g, apperrors.New(apperrors.CodeNotEnoughPlayers,
			fmt.Sprintf("at least %d players are required", MinPlayersToStart))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	next := g.Clone()
	if err := next.rollHands(rng); err != nil {
		return g, err
	}
	next.Stage = StageRoundRobin
	next.Claims = nil
	next.CurrentTurnIndex = rng.Intn(len(next.Players))
	next.touch(now)
	return next, nil
}

// StartRound begins the next round after a reveal (or restarts from the
// lobby boundary in tests). Hands are rerolled, claims cleared, and the turn
// pointer is preserved: the prior challenge winner or forfeit successor opens.
func (g Game) StartRound(now func() time.Time, rng *rand.Rand) (Game, error) {
	if g.Stage != StagePreGame && g.Stage != StagePostRound {
		return g, apperrors.New(apperrors.CodeInvalidGameState, "round cannot start from this stage")
	}
	if len(g.Players) < MinPlayersToStart {
		return g, apperrors.New(apperrors.CodeNotEnoughPlayers,
			fmt.Sprintf("at least %d players are required", MinPlayersToStart))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	next := g.Clone()
	if err := next.rollHands(rng); err != nil {
		return g, err
	}
	next.Stage = StageRoundRobin
	next.Claims = nil
	next.CurrentTurnIndex = next.CurrentTurnIndex % len(next.Players)
	next.touch(now)
	return next, nil
}

// ResetGame returns a finished game to the lobby. Host only. Dice counts are
// restored, claims and challenge history cleared, and the turn pointer reset.
// Eliminated players are not re-seated; they rejoin through the lobby.
func (g Game) ResetGame(playerID string, now func() time.Time) (Game, error) {
	if playerID != g.HostID {
		return g, apperrors.New(apperrors.CodeUnauthorized, "only the host can reset the game")
	}
	if g.Stage != StagePostGame {
		return g, apperrors.New(apperrors.CodeInvalidGameState, "game can only be reset after it ends")
	}

	next := g.Clone()
	next.Stage = StagePreGame
	next.Claims = nil
	next.ChallengeResults = nil
	next.EliminatedPlayers = nil
	next.CurrentTurnIndex = 0
	next.TurnDeadline = nil
	for i := range next.Players {
		next.Players[i].RemainingDice = next.Settings.StartingDice
		next.Players[i].Dice = nil
	}
	next.touch(now)
	return next, nil
}

// rollHands rerolls every seated player's hand in place. Hand sizes follow
// each player's remaining dice; face counts are always recomputed from these
// live values, never cached.
func (g *Game) rollHands(rng *rand.Rand) error {
	for i := range g.Players {
		hand, err := dice.RollHand(rng, g.Players[i].RemainingDice)
		if err != nil {
			return fmt.Errorf("roll hand for %s: %w", g.Players[i].ID, err)
		}
		g.Players[i].Dice = hand
	}
	return nil
}
