package session

import "errors"

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// current state.
	ErrInvalidState = errors.New("session: operation not allowed in current state")

	// ErrUnknownRole is returned for a role other than host or peer.
	ErrUnknownRole = errors.New("session: unknown role")

	// ErrUnknownEvent is returned for an event kind the orchestrator does
	// not handle.
	ErrUnknownEvent = errors.New("session: unknown event")

	// ErrMissingDependency is returned by New when a required collaborator
	// is nil.
	ErrMissingDependency = errors.New("session: missing dependency")
)
