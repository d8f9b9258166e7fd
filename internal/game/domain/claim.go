package domain

import (
	"strconv"
	"time"

	"github.com/louisbranch/liarsdice/internal/dice"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// AddClaim records a bid by the current-turn player and rotates the turn.
// The first claim of a round is unconstrained; every later claim must
// strictly exceed its predecessor under (quantity, face value) ordering, so
// repeating the previous claim is always rejected.
func (g Game) AddClaim(claim Claim, now func() time.Time) (Game, error) {
	if g.Stage != StageRoundRobin {
		return g, apperrors.New(apperrors.CodeRoundNotActive, "no round is in progress")
	}
	current, ok := g.CurrentPlayer()
	if !ok {
		return g, apperrors.New(apperrors.CodeInvalidGameState, "turn pointer is out of range")
	}
	if claim.PlayerID != current.ID {
		return g, apperrors.New(apperrors.CodeOutOfTurn, "it is not this player's turn")
	}
	if claim.Quantity < 1 {
		return g, apperrors.New(apperrors.CodeInvalidClaim, "claim quantity must be at least 1")
	}
	if claim.FaceValue < 1 || claim.FaceValue > dice.Sides {
		return g, apperrors.New(apperrors.CodeInvalidClaim, "claim face value must be between 1 and 6")
	}
	if last, ok := g.LastClaim(); ok && !claim.Beats(last) {
		return g, apperrors.WithMetadata(apperrors.CodeInvalidClaim,
			"claim must raise the previous bid", map[string]string{
				"previousQuantity": strconv.Itoa(last.Quantity),
				"previousFace":     strconv.Itoa(last.FaceValue),
			})
	}

	next := g.Clone()
	next.Claims = append(next.Claims, claim)
	next.CurrentTurnIndex = (next.CurrentTurnIndex + 1) % len(next.Players)
	next.touch(now)
	return next, nil
}
