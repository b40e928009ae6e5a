package transport

import "errors"

var (
	// ErrIntegrity is returned when an outcome response fails its HMAC
	// check.
	ErrIntegrity = errors.New("transport: outcome integrity check failed")

	// ErrUnavailable is returned when the host cannot be reached or answers
	// with an unexpected status.
	ErrUnavailable = errors.New("transport: host unavailable")
)
