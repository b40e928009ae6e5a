package signer

import "errors"

var (
	// ErrNoSuchAlgorithm is returned for an unknown signature algorithm name.
	ErrNoSuchAlgorithm = errors.New("signer: unsupported signature algorithm")

	// ErrInvalidKey is returned when the key is nil or does not fit the
	// algorithm.
	ErrInvalidKey = errors.New("signer: invalid key")

	// ErrSignature is returned when the signing primitive itself fails.
	ErrSignature = errors.New("signer: signing failed")

	// ErrIO is returned when the artifact or signature file cannot be read
	// or written.
	ErrIO = errors.New("signer: i/o failure")

	// ErrNotFound is returned by Load when no signature has been persisted.
	ErrNotFound = errors.New("signer: signature not found")
)
