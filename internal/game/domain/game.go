package domain

import (
	"time"
)

// Stage describes the coarse phase of a single game.
type Stage int

const (
	// StageUnspecified represents an invalid stage value.
	StageUnspecified Stage = iota
	// StagePreGame indicates the lobby phase before the first round.
	StagePreGame
	// StageRoundRobin indicates an active round with rotating turns.
	StageRoundRobin
	// StagePostRound indicates the reveal window between rounds.
	StagePostRound
	// StagePostGame indicates the game has finished.
	StagePostGame
)

// String returns the wire name of the stage.
func (s Stage) String() string {
	switch s {
	case StagePreGame:
		return "PRE_GAME"
	case StageRoundRobin:
		return "ROUND_ROBIN"
	case StagePostRound:
		return "POST_ROUND"
	case StagePostGame:
		return "POST_GAME"
	default:
		return "UNSPECIFIED"
	}
}

// MaxPlayers is the seat limit for a single game.
const MaxPlayers = 6

// MinPlayersToStart is the minimum seat count required to start a game.
const MinPlayersToStart = 2

// Settings holds per-game tunables chosen by the host.
type Settings struct {
	StartingDice          int `json:"startingDice"`
	TurnTimeoutSeconds    int `json:"turnTimeoutSeconds"`
	PostRoundDelaySeconds int `json:"postRoundDelaySeconds"`
}

// DefaultSettings returns the settings applied to a freshly created game.
func DefaultSettings() Settings {
	return Settings{
		StartingDice:          5,
		TurnTimeoutSeconds:    60,
		PostRoundDelaySeconds: 10,
	}
}

// Player is a seated participant. Dice holds the rolled face values for the
// current round; its length equals RemainingDice once rolled and is empty
// before rolling or in sanitized views.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RemainingDice int    `json:"remainingDice"`
	Dice          []int  `json:"dice"`
}

// Claim is a bid that at least Quantity dice across all players show FaceValue.
type Claim struct {
	PlayerID  string `json:"playerId"`
	Quantity  int    `json:"quantity"`
	FaceValue int    `json:"faceValue"`
}

// Beats reports whether c strictly exceeds previous under the claim ordering:
// (quantity, face value) compared lexicographically.
func (c Claim) Beats(previous Claim) bool {
	if c.Quantity != previous.Quantity {
		return c.Quantity > previous.Quantity
	}
	return c.FaceValue > previous.FaceValue
}

// ChallengeResult summarizes one resolved challenge.
type ChallengeResult struct {
	ChallengerID    string         `json:"challengerId"`
	ClaimerID       string         `json:"claimerId"`
	Claim           Claim          `json:"claim"`
	ActualTotal     int            `json:"actualTotal"`
	FaceCounts      map[string]int `json:"faceCounts"`
	WinnerID        string         `json:"winnerId"`
	LoserID         string         `json:"loserId"`
	LoserEliminated bool           `json:"loserEliminated"`
	GameEnded       bool           `json:"gameEnded"`
}

// ForfeitResult summarizes a turn-timeout loss. Unlike a challenge, a forfeit
// declares no winner.
type ForfeitResult struct {
	PlayerID        string `json:"playerId"`
	NextPlayerID    string `json:"nextPlayerId"`
	LoserEliminated bool   `json:"loserEliminated"`
	GameEnded       bool   `json:"gameEnded"`
}

// Game is the root aggregate for one active game. Transitions operate on
// value copies and return complete replacement snapshots; the store owns the
// state at rest.
type Game struct {
	Code              string            `json:"code"`
	HostID            string            `json:"hostId"`
	Players           []Player          `json:"players"`
	EliminatedPlayers []string          `json:"eliminatedPlayers"`
	Claims            []Claim           `json:"claims"`
	ChallengeResults  []ChallengeResult `json:"challengeResults"`
	CurrentTurnIndex  int               `json:"currentTurnIndex"`
	Stage             Stage             `json:"stage"`
	Settings          Settings          `json:"settings"`
	TurnDeadline      *time.Time        `json:"turnDeadline,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	LastActivityAt    time.Time         `json:"lastActivityAt"`
}

// NewGame creates a game in the lobby stage with the host as its only player.
func NewGame(code, hostID, hostName string, settings Settings, now func() time.Time) Game {
	if now == nil {
		now = time.Now
	}
	createdAt := now().UTC()
	return Game{
		Code:   code,
		HostID: hostID,
		Players: []Player{{
			ID:            hostID,
			Name:          hostName,
			RemainingDice: settings.StartingDice,
			Dice:          nil,
		}},
		Stage:          StagePreGame,
		Settings:       settings,
		CreatedAt:      createdAt,
		LastActivityAt: createdAt,
	}
}

// CurrentPlayer returns the player whose turn it is. The second return is
// false when the turn index is out of range for the current stage.
func (g Game) CurrentPlayer() (Player, bool) {
	if g.CurrentTurnIndex < 0 || g.CurrentTurnIndex >= len(g.Players) {
		return Player{}, false
	}
	return g.Players[g.CurrentTurnIndex], true
}

// FindPlayer returns the seat index and player for the given ID.
func (g Game) FindPlayer(playerID string) (int, Player, bool) {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i, p, true
		}
	}
	return -1, Player{}, false
}

// LastClaim returns the most recent claim of the current round.
func (g Game) LastClaim() (Claim, bool) {
	if len(g.Claims) == 0 {
		return Claim{}, false
	}
	return g.Claims[len(g.Claims)-1], true
}

// Clone deep-copies the game so a transition can build its replacement
// snapshot without aliasing the caller's slices.
func (g Game) Clone() Game {
	out := g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		out.Players[i] = p
		if p.Dice != nil {
			out.Players[i].Dice = append([]int(nil), p.Dice...)
		}
	}
	if g.EliminatedPlayers != nil {
		out.EliminatedPlayers = append([]string(nil), g.EliminatedPlayers...)
	}
	if g.Claims != nil {
		out.Claims = append([]Claim(nil), g.Claims...)
	}
	if g.ChallengeResults != nil {
		out.ChallengeResults = append([]ChallengeResult(nil), g.ChallengeResults...)
	}
	if g.TurnDeadline != nil {
		deadline := *g.TurnDeadline
		out.TurnDeadline = &deadline
	}
	return out
}

// touch records activity on the game.
func (g *Game) touch(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	g.LastActivityAt = now().UTC()
}
