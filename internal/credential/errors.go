package credential

import "errors"

var (
	// ErrInvalidCredential is the umbrella error for every rejected password.
	// Callers match on it with errors.Is; the wrapped reason is for logs only.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrPatternMismatch is returned when the normalized password is not made
	// of 6 to 70 ASCII letters and digits.
	ErrPatternMismatch = errors.New("password must be 6 to 70 letters or digits")

	// ErrUnsupportedDigest is returned when the configured digest algorithm is
	// not registered.
	ErrUnsupportedDigest = errors.New("unsupported digest algorithm")
)
