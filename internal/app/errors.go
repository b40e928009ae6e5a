package app

import "errors"

var (
	// ErrSignatureInvalid is returned by Verify when the artifact does not
	// match its signature.
	ErrSignatureInvalid = errors.New("app: signature is not valid")

	// ErrInvalidOptions is returned for unusable tool options.
	ErrInvalidOptions = errors.New("app: invalid options")
)
