package dice

import (
	"math/rand"
	"testing"
)

func TestRollHand_Basic(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr error
	}{
		{name: "single die", count: 1, wantErr: nil},
		{name: "full hand", count: 5, wantErr: nil},
		{name: "zero dice", count: 0, wantErr: ErrInvalidCount},
		{name: "negative dice", count: -2, wantErr: ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			hand, err := RollHand(rng, tt.count)
			if err != tt.wantErr {
				t.Errorf("RollHand() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}

			if len(hand) != tt.count {
				t.Errorf("RollHand() got %d dice, want %d", len(hand), tt.count)
			}
			for i, value := range hand {
				if value < 1 || value > Sides {
					t.Errorf("hand[%d] = %d, want value in [1, %d]", i, value, Sides)
				}
			}
		})
	}
}

func TestRollHand_Deterministic(t *testing.T) {
	first, err := RollHand(rand.New(rand.NewSource(7)), 5)
	if err != nil {
		t.Fatalf("roll hand: %v", err)
	}
	second, err := RollHand(rand.New(rand.NewSource(7)), 5)
	if err != nil {
		t.Fatalf("roll hand: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical hands for identical seeds, got %v and %v", first, second)
		}
	}
}

func TestCountFace(t *testing.T) {
	hand := []int{3, 1, 3, 6, 3, 2}
	tests := []struct {
		face int
		want int
	}{
		{face: 3, want: 3},
		{face: 1, want: 1},
		{face: 5, want: 0},
	}
	for _, tt := range tests {
		if got := CountFace(hand, tt.face); got != tt.want {
			t.Errorf("CountFace(%d) = %d, want %d", tt.face, got, tt.want)
		}
	}
}
