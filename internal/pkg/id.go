package pkg

import "github.com/google/uuid"

// GenerateSessionID - returns a random identifier for a new game session.
func GenerateSessionID() string {
	return uuid.NewString()
}

// IsSessionID reports whether id looks like something GenerateSessionID produced.
func IsSessionID(id string) bool {
	return uuid.Validate(id) == nil
}
