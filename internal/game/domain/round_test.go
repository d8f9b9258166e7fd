package domain

import (
	"math/rand"
	"testing"

	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

func TestStartGameRollsAllHands(t *testing.T) {
	g := lobbyGame(t, 3)

	g, err := g.StartGame(g.HostID, fixedClock(), rand.New(rand.NewSource(21)))
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	if g.Stage != StageRoundRobin {
		t.Fatalf("expected stage %v, got %v", StageRoundRobin, g.Stage)
	}
	if g.CurrentTurnIndex < 0 || g.CurrentTurnIndex >= len(g.Players) {
		t.Fatalf("starting index %d out of range", g.CurrentTurnIndex)
	}
	if len(g.Claims) != 0 {
		t.Fatal("expected claims to be cleared")
	}

	totalDice := 0
	totalRemaining := 0
	for _, p := range g.Players {
		if len(p.Dice) != p.RemainingDice {
			t.Fatalf("player %s rolled %d dice but holds %d", p.ID, len(p.Dice), p.RemainingDice)
		}
		totalDice += len(p.Dice)
		totalRemaining += p.RemainingDice
	}
	if totalDice != totalRemaining {
		t.Fatalf("rolled %d dice for %d remaining", totalDice, totalRemaining)
	}
}

func TestStartGameGuards(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Game)
		caller   func(Game) string
		wantCode apperrors.Code
	}{
		{
			name:     "non-host",
			mutate:   func(*Game) {},
			caller:   func(g Game) string { return g.Players[1].ID },
			wantCode: apperrors.CodeUnauthorized,
		},
		{
			name:     "already started",
			mutate:   func(g *Game) { g.Stage = StageRoundRobin },
			caller:   func(g Game) string { return g.HostID },
			wantCode: apperrors.CodeGameInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := lobbyGame(t, 2)
			tt.mutate(&g)
			before := g.Clone()

			_, err := g.StartGame(tt.caller(g), fixedClock(), rand.New(rand.NewSource(1)))
			if !apperrors.IsCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
			requireUnchanged(t, before, g)
		})
	}
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	g := lobbyGame(t, 1)

	_, err := g.StartGame(g.HostID, fixedClock(), rand.New(rand.NewSource(1)))
	if !apperrors.IsCode(err, apperrors.CodeNotEnoughPlayers) {
		t.Fatalf("expected NOT_ENOUGH_PLAYERS, got %v", err)
	}
}

func TestStartRoundPreservesTurnIndex(t *testing.T) {
	g := activeGame(t, 3, 9)
	g.Stage = StagePostRound
	g.CurrentTurnIndex = 2
	previousHands := make(map[string][]int)
	for _, p := range g.Players {
		previousHands[p.ID] = append([]int(nil), p.Dice...)
	}

	g, err := g.StartRound(fixedClock(), rand.New(rand.NewSource(77)))
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	if g.Stage != StageRoundRobin {
		t.Fatalf("expected stage %v, got %v", StageRoundRobin, g.Stage)
	}
	if g.CurrentTurnIndex != 2 {
		t.Fatalf("expected turn index 2 to be preserved, got %d", g.CurrentTurnIndex)
	}
	rerolled := false
	for _, p := range g.Players {
		if len(p.Dice) != p.RemainingDice {
			t.Fatalf("player %s rolled %d dice but holds %d", p.ID, len(p.Dice), p.RemainingDice)
		}
		prev := previousHands[p.ID]
		for i := range p.Dice {
			if i < len(prev) && p.Dice[i] != prev[i] {
				rerolled = true
			}
		}
	}
	if !rerolled {
		t.Fatal("expected at least one hand to change across a reroll")
	}
}

func TestStartRoundRejectsWrongStage(t *testing.T) {
	g := activeGame(t, 2, 4)

	_, err := g.StartRound(fixedClock(), rand.New(rand.NewSource(1)))
	if !apperrors.IsCode(err, apperrors.CodeInvalidGameState) {
		t.Fatalf("expected INVALID_GAME_STATE, got %v", err)
	}
}

func TestResetGame(t *testing.T) {
	g := activeGame(t, 3, 8)
	g.Stage = StagePostGame
	g.EliminatedPlayers = []string{"gone-1"}
	g.ChallengeResults = []ChallengeResult{{ChallengerID: "p1"}}
	g.Claims = []Claim{{PlayerID: "p1", Quantity: 1, FaceValue: 2}}
	g.Players[0].RemainingDice = 1

	g, err := g.ResetGame(g.HostID, fixedClock())
	if err != nil {
		t.Fatalf("reset game: %v", err)
	}
	if g.Stage != StagePreGame {
		t.Fatalf("expected stage %v, got %v", StagePreGame, g.Stage)
	}
	if g.CurrentTurnIndex != 0 {
		t.Fatalf("expected turn index 0, got %d", g.CurrentTurnIndex)
	}
	if len(g.Claims) != 0 || len(g.ChallengeResults) != 0 || len(g.EliminatedPlayers) != 0 {
		t.Fatal("expected claims, history and eliminations to be cleared")
	}
	for _, p := range g.Players {
		if p.RemainingDice != g.Settings.StartingDice {
			t.Fatalf("expected %s restored to %d dice, got %d", p.ID, g.Settings.StartingDice, p.RemainingDice)
		}
		if len(p.Dice) != 0 {
			t.Fatalf("expected %s to hold no rolled dice", p.ID)
		}
	}
}

func TestResetGameGuards(t *testing.T) {
	g := activeGame(t, 2, 8)
	g.Stage = StagePostGame

	if _, err := g.ResetGame(g.Players[1].ID, fixedClock()); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}

	g.Stage = StageRoundRobin
	if _, err := g.ResetGame(g.HostID, fixedClock()); !apperrors.IsCode(err, apperrors.CodeInvalidGameState) {
		t.Fatalf("expected INVALID_GAME_STATE, got %v", err)
	}
}
