package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] and
// [PeerConfig.validate] when required configuration groups are incomplete or
// invalid.
var (
	// ErrInvalidCryptoConfigs indicates an unknown algorithm or an
	// unsupported key, nonce or tag size.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidVaultConfigs indicates missing vault path or aliases.
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidFilesConfigs indicates a missing artifact, signature, nonce
	// or save-state path.
	ErrInvalidFilesConfigs = errors.New("invalid files configuration")
	// ErrInvalidTransportConfigs indicates a missing address or a
	// non-positive poll interval or timeout.
	ErrInvalidTransportConfigs = errors.New("invalid transport configuration")
	// ErrInvalidGameConfigs indicates a non-positive winning score.
	ErrInvalidGameConfigs = errors.New("invalid game configuration")
)
