package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("session was modified concurrently")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUnknownStorage  = errors.New("unknown storage backend")
)
