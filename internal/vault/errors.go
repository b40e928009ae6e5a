package vault

import "errors"

// Sentinel errors returned by vault operations. Callers should match them
// with [errors.Is]; the wrapped detail is meant for logs.
var (
	// ErrNotFound is returned when the vault file does not exist.
	ErrNotFound = errors.New("vault: file not found")

	// ErrAuthFailure is returned when the presented credential does not
	// unlock the vault. Key material behind a wrong credential is
	// unrecoverable.
	ErrAuthFailure = errors.New("vault: wrong credential")

	// ErrCorrupt is returned when the file exists but is not a readable
	// vault, or an entry cannot be decoded.
	ErrCorrupt = errors.New("vault: file is corrupted")

	// ErrEntryMissing is returned when the requested alias was never stored
	// or holds a different kind of entry.
	ErrEntryMissing = errors.New("vault: entry not found")

	// ErrStorage is returned when the vault file cannot be read or written.
	ErrStorage = errors.New("vault: storage failure")

	// ErrCrypto is returned when a key algorithm or size is not supported.
	ErrCrypto = errors.New("vault: unsupported key algorithm")

	// ErrKeyGeneration is returned when the key-pair generation step fails,
	// including a non-zero exit of the external command.
	ErrKeyGeneration = errors.New("vault: key pair generation failed")
)
