package utils

import "github.com/google/uuid"

// NewSessionID returns a time-ordered UUIDv7 so that journal rows sort by
// session start. It falls back to a random UUIDv4 if the clock source fails.
func NewSessionID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
