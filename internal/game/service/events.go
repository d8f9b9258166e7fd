package service

import (
	"time"

	"github.com/louisbranch/liarsdice/internal/game/domain"
)

// ActionType names a client-initiated game action on the wire.
type ActionType string

const (
	ActionClaim          ActionType = "CLAIM"
	ActionChallenge      ActionType = "CHALLENGE"
	ActionStartGame      ActionType = "START_GAME"
	ActionStartRound     ActionType = "START_ROUND"
	ActionUpdateSettings ActionType = "UPDATE_SETTINGS"
	ActionReorderPlayers ActionType = "REORDER_PLAYERS"
	ActionResetGame      ActionType = "RESET_GAME"
	ActionLeaveGame      ActionType = "LEAVE_GAME"
)

// EventType names a server-initiated message derived from a transition.
type EventType string

const (
	EventGameState        EventType = "GAME_STATE"
	EventPlayerJoined     EventType = "PLAYER_JOINED"
	EventPlayerLeft       EventType = "PLAYER_LEFT"
	EventClaimMade        EventType = "CLAIM_MADE"
	EventChallengeMade    EventType = "CHALLENGE_MADE"
	EventGameStarted      EventType = "GAME_STARTED"
	EventRoundStarted     EventType = "ROUND_STARTED"
	EventDiceRolled       EventType = "DICE_ROLLED"
	EventSettingsUpdated  EventType = "SETTINGS_UPDATED"
	EventPlayersReordered EventType = "PLAYERS_REORDERED"
	EventGameReset        EventType = "GAME_RESET"
	EventGameEnded        EventType = "GAME_ENDED"
	EventPlayerForfeited  EventType = "PLAYER_FORFEITED"
)

// Event is one message delivered to clients, either broadcast to a game or
// sent privately to a single player.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// Publisher delivers derived events to connected clients. Implementations
// are dumb plumbing: they never inspect payloads or apply game rules.
type Publisher interface {
	Broadcast(gameCode string, event Event)
	SendTo(gameCode, playerID string, event Event)
}

// GameStatePayload carries a sanitized snapshot for one viewer.
type GameStatePayload struct {
	Game domain.Game `json:"game"`
}

// PlayerJoinedPayload announces a new seat in the lobby.
type PlayerJoinedPayload struct {
	Player domain.Player `json:"player"`
}

// PlayerLeftPayload announces a departure and, when the host left, the
// succeeding host.
type PlayerLeftPayload struct {
	PlayerID  string `json:"playerId"`
	NewHostID string `json:"newHostId,omitempty"`
}

// ClaimMadePayload announces an accepted bid and whose turn follows it.
type ClaimMadePayload struct {
	PlayerID     string     `json:"playerId"`
	Quantity     int        `json:"quantity"`
	FaceValue    int        `json:"faceValue"`
	NextPlayerID string     `json:"nextPlayerId"`
	TurnDeadline *time.Time `json:"turnDeadline,omitempty"`
}

// ChallengeMadePayload reveals a resolved challenge to every player.
type ChallengeMadePayload struct {
	domain.ChallengeResult
	NextRoundStartsAt *time.Time `json:"nextRoundStartsAt,omitempty"`
}

// RoundStartedPayload announces a fresh round. Dice are delivered
// separately per player.
type RoundStartedPayload struct {
	StartingPlayerID string     `json:"startingPlayerId"`
	TurnDeadline     *time.Time `json:"turnDeadline,omitempty"`
}

// DiceRolledPayload is the private hand sent to exactly one player.
type DiceRolledPayload struct {
	Dice []int `json:"dice"`
}

// SettingsUpdatedPayload announces the lobby settings now in effect.
type SettingsUpdatedPayload struct {
	Settings domain.Settings `json:"settings"`
}

// PlayersReorderedPayload announces the new seat order.
type PlayersReorderedPayload struct {
	PlayerIDs []string `json:"playerIds"`
}

// GameEndedPayload announces the final winner.
type GameEndedPayload struct {
	WinnerID string `json:"winnerId"`
}

// PlayerForfeitedPayload announces a turn-timeout loss.
type PlayerForfeitedPayload struct {
	PlayerID          string     `json:"playerId"`
	NextPlayerID      string     `json:"nextPlayerId,omitempty"`
	Eliminated        bool       `json:"eliminated"`
	GameEnded         bool       `json:"gameEnded"`
	NextRoundStartsAt *time.Time `json:"nextRoundStartsAt,omitempty"`
}
