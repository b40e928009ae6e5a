package aead

import "errors"

var (
	// ErrAuthentication is returned by Decrypt when the tag does not match:
	// wrong key, wrong nonce, or altered ciphertext.
	ErrAuthentication = errors.New("aead: message authentication failed")

	// ErrCrypto is returned for an unsupported algorithm, key size, nonce
	// length or tag length.
	ErrCrypto = errors.New("aead: unsupported cipher parameters")

	// ErrCorrupt is returned when the persisted nonce has the wrong length.
	ErrCorrupt = errors.New("aead: nonce file is corrupted")

	// ErrIO is returned when an input cannot be read or an output cannot be
	// written.
	ErrIO = errors.New("aead: i/o failure")
)
