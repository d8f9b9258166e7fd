// Package domain implements the authoritative rules for a bluffing dice
// game: the stage state machine, claim ordering, challenge resolution,
// elimination, turn rotation, and per-player sanitized views.
//
// Every transition is a pure function of a Game value: it validates against
// the current snapshot, deep-copies it, and returns a complete replacement.
// On error the input snapshot is untouched. Callers are responsible for
// serializing transitions per game code and for persisting the result.
package domain
