package journal

import "errors"

var (
	// ErrNoEvents is returned when a lookup finds no matching event.
	ErrNoEvents = errors.New("journal: no events")

	// ErrDatabase wraps failures of the underlying database.
	ErrDatabase = errors.New("journal: database failure")
)
