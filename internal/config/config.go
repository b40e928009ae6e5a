// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PONG_"

// StructuredConfig is the top-level configuration container for the
// go-pong-guard application. It aggregates all sub-configurations and is
// populated by merging values from command-line flags, environment
// variables, an optional JSON file and the defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Crypto selects the digest, signature and cipher algorithms.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Vault describes the key vault file and its entries.
	Vault Vault `envPrefix:"VAULT_"`

	// Files holds the paths of the signed artifact and the game files.
	Files Files `envPrefix:"FILES_"`

	// Transport holds the outcome channel between host and peer.
	Transport Transport `envPrefix:"TRANSPORT_"`

	// Journal holds the attestation journal database.
	Journal Journal `envPrefix:"JOURNAL_"`

	// Game holds match rules.
	Game Game `envPrefix:"GAME_"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the PONG_CONFIG environment variable or the -c / --config
	// flag.
	JSONFilePath string `env:"CONFIG"`
}

// Crypto holds the algorithm names used by the credential deriver, the
// signer and the save-state cipher.
type Crypto struct {
	// DigestAlgorithm hashes the normalized password into the credential.
	// Env: PONG_CRYPTO_DIGEST_ALGORITHM
	DigestAlgorithm string `env:"DIGEST_ALGORITHM"`

	// SignatureAlgorithm signs the artifact (e.g. "SHA256withECDSA").
	// Env: PONG_CRYPTO_SIGNATURE_ALGORITHM
	SignatureAlgorithm string `env:"SIGNATURE_ALGORITHM"`

	// CipherAlgorithm encrypts the save state (e.g. "AES/GCM/NoPadding").
	// Env: PONG_CRYPTO_CIPHER_ALGORITHM
	CipherAlgorithm string `env:"CIPHER_ALGORITHM"`

	// KeyBits is the size of the symmetric key kept in the vault.
	// Env: PONG_CRYPTO_KEY_BITS
	KeyBits int `env:"KEY_BITS"`

	// NonceLength and TagLength are in bytes.
	// Env: PONG_CRYPTO_NONCE_LENGTH, PONG_CRYPTO_TAG_LENGTH
	NonceLength int `env:"NONCE_LENGTH"`
	TagLength   int `env:"TAG_LENGTH"`

	// ChunkSize is accepted for settings compatibility; the cipher seals
	// each file in one call whatever its value.
	// Env: PONG_CRYPTO_CHUNK_SIZE
	ChunkSize int `env:"CHUNK_SIZE"`
}

// Vault describes the vault file.
type Vault struct {
	// Path is the vault file location.
	// Env: PONG_VAULT_PATH
	Path string `env:"PATH"`

	// StoreType tags the file format.
	// Env: PONG_VAULT_STORE_TYPE
	StoreType string `env:"STORE_TYPE"`

	// KeyPairAlias and SecretKeyAlias name the two vault entries.
	// Env: PONG_VAULT_KEY_PAIR_ALIAS, PONG_VAULT_SECRET_KEY_ALIAS
	KeyPairAlias   string `env:"KEY_PAIR_ALIAS"`
	SecretKeyAlias string `env:"SECRET_KEY_ALIAS"`

	// KeyGenCommand is a program run as "<command> keygen ..." to create the
	// key pair. Empty generates the pair in process.
	// Env: PONG_VAULT_KEYGEN_COMMAND
	KeyGenCommand string `env:"KEYGEN_COMMAND"`

	// KDFTime, KDFMemory (KiB) and KDFThreads tune Argon2id.
	// Env: PONG_VAULT_KDF_TIME, PONG_VAULT_KDF_MEMORY, PONG_VAULT_KDF_THREADS
	KDFTime    uint32 `env:"KDF_TIME"`
	KDFMemory  uint32 `env:"KDF_MEMORY"`
	KDFThreads uint8  `env:"KDF_THREADS"`
}

// Files holds the paths the host session reads and writes.
type Files struct {
	// Artifact is the file that gets signed. Defaults to the running
	// executable.
	// Env: PONG_FILES_ARTIFACT
	Artifact string `env:"ARTIFACT"`

	// Env: PONG_FILES_SIGNATURE
	Signature string `env:"SIGNATURE"`

	// Nonce is the persisted cipher nonce.
	// Env: PONG_FILES_NONCE
	Nonce string `env:"NONCE"`

	// Env: PONG_FILES_SAVE_STATE, PONG_FILES_ENCRYPTED_SAVE_STATE
	SaveState          string `env:"SAVE_STATE"`
	EncryptedSaveState string `env:"ENCRYPTED_SAVE_STATE"`
}

// Transport holds the outcome channel settings.
type Transport struct {
	// Address is where the host listens and the peer dials, in
	// "host:port" format.
	// Env: PONG_TRANSPORT_ADDRESS
	Address string `env:"ADDRESS"`

	// PollInterval is how often the peer asks for the outcome.
	// Env: PONG_TRANSPORT_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// RequestTimeout bounds a single peer request.
	// Env: PONG_TRANSPORT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// HashKey is the HMAC key of the HashSHA256 header. Host and peer must
	// share it.
	// Env: PONG_TRANSPORT_HASH_KEY
	HashKey string `env:"HASH_KEY"`
}

// Journal holds the attestation journal settings.
type Journal struct {
	// DSN is the SQLite database file. "off" disables the journal.
	// Env: PONG_JOURNAL_DSN
	DSN string `env:"DSN"`
}

// Game holds match rules.
type Game struct {
	// WinningScore ends a match when either player reaches it.
	// Env: PONG_GAME_WINNING_SCORE
	WinningScore int `env:"WINNING_SCORE"`
}

// Log holds logging settings.
type Log struct {
	// File receives JSON log lines. Empty logs to stderr.
	// Env: PONG_LOG_FILE
	File string `env:"FILE"`

	// Level is a zerolog level name.
	// Env: PONG_LOG_LEVEL
	Level string `env:"LEVEL"`
}

// JournalDisabled is the Journal.DSN value that turns the journal off.
const JournalDisabled = "off"

// Load assembles and validates the host configuration. flags may be nil.
func Load(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(flags).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
