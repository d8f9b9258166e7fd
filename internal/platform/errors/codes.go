// Package errors provides structured domain error handling.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeGameNotFound   Code = "GAME_NOT_FOUND"
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"

	// Creation errors
	CodePlayerAlreadyExists Code = "PLAYER_ALREADY_EXISTS"
	CodeGameAlreadyExists   Code = "GAME_ALREADY_EXISTS"

	// Lobby errors
	CodeGameFull         Code = "GAME_FULL"
	CodeGameInProgress   Code = "GAME_IN_PROGRESS"
	CodeNotEnoughPlayers Code = "NOT_ENOUGH_PLAYERS"

	// Round errors
	CodeRoundNotActive   Code = "ROUND_NOT_ACTIVE"
	CodeOutOfTurn        Code = "OUT_OF_TURN"
	CodeInvalidClaim     Code = "INVALID_CLAIM"
	CodeInvalidChallenge Code = "INVALID_CHALLENGE"

	// Request errors
	CodeInvalidGameState Code = "INVALID_GAME_STATE"
	CodeInvalidRequest   Code = "INVALID_REQUEST"
	CodeUnauthorized     Code = "UNAUTHORIZED"
)

// HTTPStatus maps domain codes to HTTP status codes for the REST surface.
func (c Code) HTTPStatus() int {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidClaim,
		CodeInvalidChallenge,
		CodeInvalidRequest:
		return http.StatusBadRequest

	// FailedPrecondition - state doesn't allow operation
	case CodeGameFull,
		CodeGameInProgress,
		CodeNotEnoughPlayers,
		CodeRoundNotActive,
		CodeOutOfTurn,
		CodeInvalidGameState,
		CodePlayerAlreadyExists,
		CodeGameAlreadyExists:
		return http.StatusConflict

	// NotFound - resource doesn't exist
	case CodeGameNotFound,
		CodePlayerNotFound:
		return http.StatusNotFound

	// PermissionDenied - caller lacks the right to act
	case CodeUnauthorized:
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}
