package domain

import (
	"testing"

	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

func TestAddClaimFirstBidUnconstrained(t *testing.T) {
	g := activeGame(t, 3, 2)

	g, err := g.AddClaim(Claim{PlayerID: "p1", Quantity: 1, FaceValue: 1}, fixedClock())
	if err != nil {
		t.Fatalf("add claim: %v", err)
	}
	if len(g.Claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(g.Claims))
	}
	if g.CurrentTurnIndex != 1 {
		t.Fatalf("expected turn to advance to seat 1, got %d", g.CurrentTurnIndex)
	}
}

func TestAddClaimStrictOrdering(t *testing.T) {
	tests := []struct {
		name    string
		claim   Claim
		wantErr bool
	}{
		{"higher quantity", Claim{Quantity: 3, FaceValue: 2}, false},
		{"same quantity higher face", Claim{Quantity: 2, FaceValue: 5}, false},
		{"equal claim", Claim{Quantity: 2, FaceValue: 4}, true},
		{"lower quantity", Claim{Quantity: 1, FaceValue: 6}, true},
		{"same quantity lower face", Claim{Quantity: 2, FaceValue: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := activeGame(t, 3, 2)
			g, err := g.AddClaim(Claim{PlayerID: "p1", Quantity: 2, FaceValue: 4}, fixedClock())
			if err != nil {
				t.Fatalf("seed claim: %v", err)
			}
			before := g.Clone()

			claim := tt.claim
			claim.PlayerID = "p2"
			g, err = g.AddClaim(claim, fixedClock())
			if tt.wantErr {
				if !apperrors.IsCode(err, apperrors.CodeInvalidClaim) {
					t.Fatalf("expected INVALID_CLAIM, got %v", err)
				}
				requireUnchanged(t, before, g)
				return
			}
			if err != nil {
				t.Fatalf("add claim: %v", err)
			}
			if len(g.Claims) != 2 {
				t.Fatalf("expected 2 claims, got %d", len(g.Claims))
			}
		})
	}
}

func TestAddClaimSequenceStaysOrdered(t *testing.T) {
	g := activeGame(t, 3, 6)
	claims := []Claim{
		{Quantity: 1, FaceValue: 3},
		{Quantity: 1, FaceValue: 5},
		{Quantity: 2, FaceValue: 2},
		{Quantity: 2, FaceValue: 6},
		{Quantity: 4, FaceValue: 1},
	}

	for _, claim := range claims {
		current, ok := g.CurrentPlayer()
		if !ok {
			t.Fatal("no current player")
		}
		claim.PlayerID = current.ID
		var err error
		g, err = g.AddClaim(claim, fixedClock())
		if err != nil {
			t.Fatalf("add claim %+v: %v", claim, err)
		}
	}

	for i := 1; i < len(g.Claims); i++ {
		if !g.Claims[i].Beats(g.Claims[i-1]) {
			t.Fatalf("claim %d does not exceed its predecessor", i)
		}
	}
}

func TestAddClaimOutOfTurn(t *testing.T) {
	g := activeGame(t, 3, 2)
	before := g.Clone()

	_, err := g.AddClaim(Claim{PlayerID: "p2", Quantity: 1, FaceValue: 2}, fixedClock())
	if !apperrors.IsCode(err, apperrors.CodeOutOfTurn) {
		t.Fatalf("expected OUT_OF_TURN, got %v", err)
	}
	requireUnchanged(t, before, g)
}

func TestAddClaimOutsideRound(t *testing.T) {
	g := lobbyGame(t, 2)

	_, err := g.AddClaim(Claim{PlayerID: g.HostID, Quantity: 1, FaceValue: 2}, fixedClock())
	if !apperrors.IsCode(err, apperrors.CodeRoundNotActive) {
		t.Fatalf("expected ROUND_NOT_ACTIVE, got %v", err)
	}
}

func TestAddClaimValidatesShape(t *testing.T) {
	tests := []struct {
		name  string
		claim Claim
	}{
		{"zero quantity", Claim{PlayerID: "p1", Quantity: 0, FaceValue: 3}},
		{"face too low", Claim{PlayerID: "p1", Quantity: 1, FaceValue: 0}},
		{"face too high", Claim{PlayerID: "p1", Quantity: 1, FaceValue: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := activeGame(t, 2, 2)
			_, err := g.AddClaim(tt.claim, fixedClock())
			if !apperrors.IsCode(err, apperrors.CodeInvalidClaim) {
				t.Fatalf("expected INVALID_CLAIM, got %v", err)
			}
		})
	}
}

func TestAddClaimWrapsTurnOrder(t *testing.T) {
	g := activeGame(t, 2, 2)
	g.CurrentTurnIndex = 1

	g, err := g.AddClaim(Claim{PlayerID: g.Players[1].ID, Quantity: 1, FaceValue: 2}, fixedClock())
	if err != nil {
		t.Fatalf("add claim: %v", err)
	}
	if g.CurrentTurnIndex != 0 {
		t.Fatalf("expected turn to wrap to seat 0, got %d", g.CurrentTurnIndex)
	}
}
