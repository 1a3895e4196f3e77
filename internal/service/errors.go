package service

import "errors"

// Domain errors surfaced to handlers. All are recoverable at the point of
// occurrence; the workflow never commits partial state alongside one.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmptyInput         = errors.New("summary must not be empty")
	ErrGenerationFailure  = errors.New("generation failed")
	ErrPersistenceFailure = errors.New("could not save diary")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidTransition  = errors.New("action not allowed in current state")
	ErrAnswerOutOfRange   = errors.New("answer position out of range")
)
