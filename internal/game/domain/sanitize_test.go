package domain

import "testing"

func TestSanitizeForPlayerHidesOtherHands(t *testing.T) {
	g := activeGame(t, 4, 17)

	for _, viewer := range g.Players {
		view := g.SanitizeForPlayer(viewer.ID)
		for _, p := range view.Players {
			if p.ID == viewer.ID {
				if len(p.Dice) != p.RemainingDice {
					t.Fatalf("viewer %s should see their own %d dice, got %d",
						viewer.ID, p.RemainingDice, len(p.Dice))
				}
				continue
			}
			if len(p.Dice) != 0 {
				t.Fatalf("viewer %s can see %s's dice", viewer.ID, p.ID)
			}
		}
	}
}

func TestSanitizeForPlayerKeepsPublicFields(t *testing.T) {
	g := activeGame(t, 3, 17)
	g.Claims = []Claim{{PlayerID: "p1", Quantity: 2, FaceValue: 4}}

	view := g.SanitizeForPlayer("p2")
	if view.Code != g.Code || view.Stage != g.Stage || view.CurrentTurnIndex != g.CurrentTurnIndex {
		t.Fatal("expected public fields to survive sanitization")
	}
	if len(view.Claims) != 1 {
		t.Fatal("expected claims to survive sanitization")
	}
	for i, p := range view.Players {
		if p.RemainingDice != g.Players[i].RemainingDice {
			t.Fatal("expected dice counts to survive sanitization")
		}
	}
}

func TestSanitizeForPlayerDoesNotMutateOriginal(t *testing.T) {
	g := activeGame(t, 2, 17)

	_ = g.SanitizeForPlayer("p2")
	for _, p := range g.Players {
		if len(p.Dice) != p.RemainingDice {
			t.Fatalf("sanitization mutated the original hand of %s", p.ID)
		}
	}
}

func TestSanitizeForUnknownViewerHidesEverything(t *testing.T) {
	g := activeGame(t, 2, 17)

	view := g.SanitizeForPlayer("spectator")
	for _, p := range view.Players {
		if len(p.Dice) != 0 {
			t.Fatalf("unknown viewer can see %s's dice", p.ID)
		}
	}
}
