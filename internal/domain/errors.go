package domain

import (
	"fmt"
	"strconv"
)

// AppError is the base domain error type. Code is a stable machine-readable
// token, Status the HTTP status the adapter maps it to, Details an optional
// map with structured context (validation constraints etc).
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Details map[string]string `json:"details,omitempty"`
	Cause   error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches AppErrors by code so errors.Is works across constructor calls.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithDetails attaches structured context to the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Input validation.

func ErrInvalidEmail(msg string) *AppError {
	return &AppError{Code: "INVALID_EMAIL", Message: msg, Status: 400}
}

func ErrWeakPassword(msg string) *AppError {
	return &AppError{Code: "WEAK_PASSWORD", Message: msg, Status: 400}
}

func ErrInvalidPlayerCount(min, max, provided int) *AppError {
	return &AppError{
		Code:    "INVALID_PLAYER_COUNT",
		Message: fmt.Sprintf("player count must be between %d and %d", min, max),
		Status:  400,
		Details: map[string]string{
			"min":      strconv.Itoa(min),
			"max":      strconv.Itoa(max),
			"provided": strconv.Itoa(provided),
		},
	}
}

func ErrInvalidTimeout(max int64) *AppError {
	return &AppError{
		Code:    "INVALID_TIMEOUT",
		Message: fmt.Sprintf("timeout exceeds maximum of %d seconds", max),
		Status:  400,
		Details: map[string]string{"max": strconv.FormatInt(max, 10)},
	}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

// Identity & authorization.

func ErrUnauthorized() *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: "authentication required", Status: 401}
}

func ErrInvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid credentials", Status: 401}
}

func ErrUserNotFound() *AppError {
	return &AppError{Code: "USER_NOT_FOUND", Message: "user not found", Status: 404}
}

func ErrUserExists() *AppError {
	return &AppError{Code: "USER_EXISTS", Message: "user already exists", Status: 409}
}

func ErrAccountInactive() *AppError {
	return &AppError{Code: "ACCOUNT_INACTIVE", Message: "account is inactive or suspended", Status: 403}
}

func ErrAccountLocked() *AppError {
	return &AppError{Code: "ACCOUNT_LOCKED", Message: "account is locked due to too many failed login attempts", Status: 403}
}

func ErrInsufficientPermissions() *AppError {
	return &AppError{Code: "INSUFFICIENT_PERMISSIONS", Message: "you don't have permission to perform this action", Status: 403}
}

func ErrNotGameCreator() *AppError {
	return &AppError{Code: "NOT_GAME_CREATOR", Message: "only the game creator can perform this action", Status: 403}
}

// Game lookup & lifecycle.

func ErrGameNotFound() *AppError {
	return &AppError{Code: "GAME_NOT_FOUND", Message: "game not found", Status: 404}
}

func ErrGameNotActive() *AppError {
	return &AppError{Code: "GAME_NOT_ACTIVE", Message: "game is not active", Status: 410}
}

func ErrGameFinished() *AppError {
	return &AppError{Code: "GAME_FINISHED", Message: "game has already finished", Status: 409}
}

func ErrEnrollmentClosed() *AppError {
	return &AppError{Code: "ENROLLMENT_CLOSED", Message: "enrollment for this game is closed", Status: 410}
}

func ErrEnrollmentNotClosed() *AppError {
	return &AppError{Code: "ENROLLMENT_NOT_CLOSED", Message: "cannot play until enrollment is closed", Status: 409}
}

func ErrGameFull() *AppError {
	return &AppError{Code: "GAME_FULL", Message: "game is at maximum capacity", Status: 400}
}

func ErrPlayerAlreadyEnrolled() *AppError {
	return &AppError{Code: "PLAYER_ALREADY_ENROLLED", Message: "player is already enrolled in this game", Status: 409}
}

// Turn & player state.

func ErrNotYourTurn() *AppError {
	return &AppError{Code: "NOT_YOUR_TURN", Message: "it's not your turn", Status: 403}
}

func ErrPlayerNotInGame() *AppError {
	return &AppError{Code: "PLAYER_NOT_IN_GAME", Message: "player not in this game", Status: 403}
}

func ErrPlayerNotActive() *AppError {
	return &AppError{Code: "PLAYER_NOT_ACTIVE", Message: "player is not active (standing or busted)", Status: 403}
}

func ErrPlayerAlreadyBusted() *AppError {
	return &AppError{Code: "PLAYER_BUSTED", Message: "player already busted", Status: 400}
}

func ErrCannotKickCreator() *AppError {
	return &AppError{Code: "CANNOT_KICK_CREATOR", Message: "cannot kick the game creator", Status: 403}
}

// Card & deck.

func ErrDeckEmpty() *AppError {
	return &AppError{Code: "DECK_EMPTY", Message: "no more cards in the deck", Status: 400}
}

func ErrCardNotFound() *AppError {
	return &AppError{Code: "CARD_NOT_FOUND", Message: "card not found in player's hand", Status: 404}
}

func ErrNotAnAce() *AppError {
	return &AppError{Code: "NOT_AN_ACE", Message: "can only change value of Ace cards", Status: 400}
}

// Invitations.

func ErrInvitationNotFound() *AppError {
	return &AppError{Code: "INVITATION_NOT_FOUND", Message: "invitation not found", Status: 404}
}

func ErrInvitationExpired() *AppError {
	return &AppError{Code: "INVITATION_EXPIRED", Message: "invitation has expired", Status: 410}
}

// Rate limiting & internal.

func ErrRateLimitExceeded() *AppError {
	return &AppError{Code: "RATE_LIMIT_EXCEEDED", Message: "rate limit exceeded, please try again later", Status: 429}
}

func ErrPasswordHash(cause error) *AppError {
	return &AppError{Code: "PASSWORD_HASH_ERROR", Message: "failed to hash password", Status: 500, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
