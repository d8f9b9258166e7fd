// Package dice provides deterministic d6 hand rolling for the game engine.
//
// Rolling is deterministic with respect to the provided rand.Rand, which
// lets tests fix seeds and replay exact hands.
package dice

import (
	"errors"
	"math/rand"
)

// Sides is the number of faces on every die in play.
const Sides = 6

// ErrInvalidCount indicates a non-positive hand size.
var ErrInvalidCount = errors.New("dice count must be positive")

// RollHand rolls count six-sided dice using the provided random source.
// Values appear in roll order and are each in [1, Sides].
func RollHand(rng *rand.Rand, count int) ([]int, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	hand := make([]int, count)
	for i := range hand {
		hand[i] = rollDie(rng)
	}
	return hand, nil
}

// CountFace reports how many dice in hand show the given face.
func CountFace(hand []int, face int) int {
	total := 0
	for _, value := range hand {
		if value == face {
			total++
		}
	}
	return total
}

// rollDie rolls a single six-sided die.
func rollDie(rng *rand.Rand) int {
	return rng.Intn(Sides) + 1
}
