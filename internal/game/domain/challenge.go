package domain

import (
	"time"

	"github.com/louisbranch/liarsdice/internal/dice"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// Challenge resolves the current-turn player's accusation that the last
// claim is false. Every player's live hand counts toward the claimed face.
// If the actual total falls short of the claim, the claimer lied and loses a
// die; otherwise the challenger loses one. The winner opens the next round.
func (g Game) Challenge(challengerID string, now func() time.Time) (Game, ChallengeResult, error) {
	if g.Stage != StageRoundRobin {
		return g, ChallengeResult{}, apperrors.New(apperrors.CodeRoundNotActive, "no round is in progress")
	}
	current, ok := g.CurrentPlayer()
	if !ok {
		return g, ChallengeResult{}, apperrors.New(apperrors.CodeInvalidGameState, "turn pointer is out of range")
	}
	if challengerID != current.ID {
		return g, ChallengeResult{}, apperrors.New(apperrors.CodeOutOfTurn, "it is not this player's turn")
	}
	claim, ok := g.LastClaim()
	if !ok {
		return g, ChallengeResult{}, apperrors.New(apperrors.CodeInvalidChallenge, "there is no claim to challenge")
	}

	next := g.Clone()

	faceCounts := make(map[string]int, len(next.Players))
	actualTotal := 0
	for _, p := range next.Players {
		count := dice.CountFace(p.Dice, claim.FaceValue)
		faceCounts[p.ID] = count
		actualTotal += count
	}

	result := ChallengeResult{
		ChallengerID: challengerID,
		ClaimerID:    claim.PlayerID,
		Claim:        claim,
		ActualTotal:  actualTotal,
		FaceCounts:   faceCounts,
	}
	if actualTotal < claim.Quantity {
		// The claim was a lie.
		result.WinnerID = challengerID
		result.LoserID = claim.PlayerID
	} else {
		result.WinnerID = claim.PlayerID
		result.LoserID = challengerID
	}

	result.LoserEliminated = next.loseDie(result.LoserID)
	result.GameEnded = len(next.Players) == 1

	if result.GameEnded {
		next.Stage = StagePostGame
	} else {
		next.Stage = StagePostRound
		// The winner opens the next round.
		if idx, _, ok := next.FindPlayer(result.WinnerID); ok {
			next.CurrentTurnIndex = idx
		}
	}
	next.TurnDeadline = nil
	next.ChallengeResults = append(next.ChallengeResults, result)
	next.touch(now)
	return next, result, nil
}

// ForfeitRound applies the automatic loss for a player who failed to act
// within the turn timeout. It is triggered by the timer path, not by a
// client action, so the only guard is that the player still exists. No
// winner is declared; the next surviving seat opens the next round.
func (g Game) ForfeitRound(playerID string, now func() time.Time) (Game, ForfeitResult, error) {
	idx, _, ok := g.FindPlayer(playerID)
	if !ok {
		return g, ForfeitResult{}, apperrors.New(apperrors.CodePlayerNotFound, "player is not in this game")
	}
	if g.Stage != StageRoundRobin {
		return g, ForfeitResult{}, apperrors.New(apperrors.CodeRoundNotActive, "no round is in progress")
	}

	next := g.Clone()
	result := ForfeitResult{PlayerID: playerID}
	result.LoserEliminated = next.loseDie(playerID)
	result.GameEnded = len(next.Players) == 1

	if result.GameEnded {
		next.Stage = StagePostGame
	} else {
		next.Stage = StagePostRound
		// Pass the opening turn to the next surviving seat. When the
		// forfeiter was eliminated, their old index already points at it.
		successor := idx
		if !result.LoserEliminated {
			successor = idx + 1
		}
		next.CurrentTurnIndex = successor % len(next.Players)
		if current, ok := next.CurrentPlayer(); ok {
			result.NextPlayerID = current.ID
		}
	}
	next.TurnDeadline = nil
	next.touch(now)
	return next, result, nil
}

// loseDie removes one die from the named player, eliminating them when their
// count reaches zero. Reports whether the player was eliminated.
func (g *Game) loseDie(playerID string) bool {
	idx, _, ok := g.FindPlayer(playerID)
	if !ok {
		return false
	}
	g.Players[idx].RemainingDice--
	if g.Players[idx].RemainingDice > 0 {
		if len(g.Players[idx].Dice) > 0 {
			g.Players[idx].Dice = g.Players[idx].Dice[:g.Players[idx].RemainingDice]
		}
		return false
	}

	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	g.EliminatedPlayers = append(g.EliminatedPlayers, playerID)
	if len(g.Players) > 0 {
		g.CurrentTurnIndex = g.CurrentTurnIndex % len(g.Players)
	} else {
		g.CurrentTurnIndex = 0
	}
	return true
}
