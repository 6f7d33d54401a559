// Package apperr defines the sentinel errors components return internally
// and maps them to the wire error codes §7 of the protocol specifies.
// Components compare errors with errors.Is; the network boundary is the
// only place that ever looks at a Code string.
package apperr

import "errors"

var (
	ErrAuthInvalid             = errors.New("auth_invalid")
	ErrRateLimited             = errors.New("rate_limited")
	ErrValidationFailed        = errors.New("validation_failed")
	ErrNPCNotFound             = errors.New("npc_not_found")
	ErrMultipleCombatSessions  = errors.New("multiple_combat_sessions")
	ErrBoxNotFound             = errors.New("box_not_found")
	ErrBoxExpired              = errors.New("box_expired")
	ErrBoxExclusive            = errors.New("box_exclusive")
	ErrBoxBusy                 = errors.New("box_busy")
	ErrBoxTooFar               = errors.New("box_too_far")
	ErrInvalidPlayerPosition   = errors.New("invalid_player_position")
	ErrDBTransient             = errors.New("db_transient")
	ErrInternal                = errors.New("internal")
)

// Code returns the wire error code for err, falling back to INTERNAL for
// anything the taxonomy does not recognize.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthInvalid):
		return "AUTH_INVALID"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrValidationFailed):
		return "VALIDATION_FAILED"
	case errors.Is(err, ErrNPCNotFound):
		return "NPC_NOT_FOUND"
	case errors.Is(err, ErrMultipleCombatSessions):
		return "MULTIPLE_COMBAT_SESSIONS"
	case errors.Is(err, ErrBoxNotFound):
		return "BOX_NOT_FOUND"
	case errors.Is(err, ErrBoxExpired):
		return "BOX_EXPIRED"
	case errors.Is(err, ErrBoxExclusive):
		return "BOX_EXCLUSIVE"
	case errors.Is(err, ErrBoxBusy):
		return "BOX_BUSY"
	case errors.Is(err, ErrBoxTooFar):
		return "BOX_TOO_FAR"
	case errors.Is(err, ErrInvalidPlayerPosition):
		return "INVALID_PLAYER_POSITION"
	case errors.Is(err, ErrDBTransient):
		return "DB_TRANSIENT"
	default:
		return "INTERNAL"
	}
}
