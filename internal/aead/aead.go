// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package aead encrypts the saved game state with an authenticated cipher.
//
// The on-disk format is the raw AEAD output, ciphertext followed by the
// tag, with no header. The nonce lives in its own file and is created once;
// every later save reuses it with the same vault key.
//
// TODO: write a fresh nonce in front of each ciphertext once saves made with
// the shared nonce file no longer need to load.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/MKhiriev/go-pong-guard/internal/logger"
)

// Algorithm names accepted in [Config].
const (
	AESGCM           = "AES/GCM/NoPadding"
	ChaCha20Poly1305 = "ChaCha20-Poly1305"
)

// Defaults applied to zero [Config] fields.
const (
	DefaultAlgorithm   = AESGCM
	DefaultNonceLength = 12
	DefaultTagLength   = 16
	DefaultChunkSize   = 64
)

// Config selects the cipher and where its nonce is kept.
type Config struct {
	Algorithm   string
	NonceFile   string
	NonceLength int
	TagLength   int
	// ChunkSize is checked and kept for settings compatibility only. Each
	// file is sealed or opened in one call, so the whole file is held in
	// memory and the output is written once the cipher is done; ChunkSize
	// changes neither.
	ChunkSize int
}

func (c Config) withDefaults() Config {
	if c.Algorithm == "" {
		c.Algorithm = DefaultAlgorithm
	}
	if c.NonceLength == 0 {
		c.NonceLength = DefaultNonceLength
	}
	if c.TagLength == 0 {
		c.TagLength = DefaultTagLength
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	return c
}

type service struct {
	cfg Config
	log *logger.Logger
}

// New returns a file-based [Service] for cfg. Parameters are checked on use;
// an unsupported combination makes every call fail with [ErrCrypto].
func New(cfg Config, log *logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &service{cfg: cfg.withDefaults(), log: log}
}

// Validate reports whether cfg describes a supported cipher for a key of
// keyLen bytes.
func Validate(cfg Config, keyLen int) error {
	_, err := newAEAD(cfg.withDefaults(), make([]byte, keyLen))
	return err
}

func newAEAD(cfg Config, key []byte) (cipher.AEAD, error) {
	switch cfg.Algorithm {
	case AESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
		}
		var gcm cipher.AEAD
		switch {
		case cfg.TagLength == 16:
			gcm, err = cipher.NewGCMWithNonceSize(block, cfg.NonceLength)
		case cfg.NonceLength == 12 && cfg.TagLength >= 12 && cfg.TagLength < 16:
			gcm, err = cipher.NewGCMWithTagSize(block, cfg.TagLength)
		default:
			return nil, fmt.Errorf("%w: %d-byte nonce with %d-byte tag", ErrCrypto, cfg.NonceLength, cfg.TagLength)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
		}
		return gcm, nil

	case ChaCha20Poly1305:
		if cfg.TagLength != chacha20poly1305.Overhead {
			return nil, fmt.Errorf("%w: %s tag is always %d bytes", ErrCrypto, cfg.Algorithm, chacha20poly1305.Overhead)
		}
		var (
			c   cipher.AEAD
			err error
		)
		switch cfg.NonceLength {
		case chacha20poly1305.NonceSize:
			c, err = chacha20poly1305.New(key)
		case chacha20poly1305.NonceSizeX:
			c, err = chacha20poly1305.NewX(key)
		default:
			return nil, fmt.Errorf("%w: %s nonce must be %d or %d bytes", ErrCrypto, cfg.Algorithm,
				chacha20poly1305.NonceSize, chacha20poly1305.NonceSizeX)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: algorithm %q", ErrCrypto, cfg.Algorithm)
	}
}

// EnsureNonce implements [Service].
func (s *service) EnsureNonce() ([]byte, error) {
	if s.cfg.NonceLength <= 0 {
		return nil, fmt.Errorf("%w: nonce length %d", ErrCrypto, s.cfg.NonceLength)
	}

	nonce, err := os.ReadFile(s.cfg.NonceFile)
	switch {
	case err == nil:
		if len(nonce) != s.cfg.NonceLength {
			return nil, fmt.Errorf("%w: %s holds %d bytes, want %d", ErrCorrupt, s.cfg.NonceFile, len(nonce), s.cfg.NonceLength)
		}
		return nonce, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	nonce = make([]byte, s.cfg.NonceLength)
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}
	if err = ensureDir(s.cfg.NonceFile); err != nil {
		return nil, err
	}
	if err = os.WriteFile(s.cfg.NonceFile, nonce, 0o600); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	s.log.Info().Str("path", s.cfg.NonceFile).Int("len", len(nonce)).Msg("nonce created")
	return nonce, nil
}

// Encrypt implements [Service]. The plaintext is read whole and sealed in
// one call because the tag covers the whole message.
func (s *service) Encrypt(key, nonce []byte, plaintextPath, ciphertextPath string) error {
	c, err := s.prepare(key, nonce)
	if err != nil {
		return err
	}

	plaintext, err := readFile(plaintextPath)
	if err != nil {
		return err
	}
	defer clear(plaintext)

	sealed := c.Seal(nil, nonce, plaintext, nil)
	if err = writeFileAtomic(ciphertextPath, sealed, 0o644); err != nil {
		return err
	}

	s.log.Debug().Str("algorithm", s.cfg.Algorithm).Str("out", ciphertextPath).Int("bytes", len(sealed)).Msg("file encrypted")
	return nil
}

// Decrypt implements [Service].
func (s *service) Decrypt(key, nonce []byte, ciphertextPath, plaintextPath string) error {
	c, err := s.prepare(key, nonce)
	if err != nil {
		return err
	}

	sealed, err := readFile(ciphertextPath)
	if err != nil {
		return err
	}
	if len(sealed) < c.Overhead() {
		return fmt.Errorf("%w: %s is shorter than the tag", ErrAuthentication, ciphertextPath)
	}

	plaintext, err := c.Open(nil, nonce, sealed, nil)
	if err != nil {
		s.log.Warn().Str("in", ciphertextPath).Msg("ciphertext failed authentication")
		return fmt.Errorf("%w: %s", ErrAuthentication, ciphertextPath)
	}
	defer clear(plaintext)

	if err = writeFileAtomic(plaintextPath, plaintext, 0o600); err != nil {
		return err
	}

	s.log.Debug().Str("algorithm", s.cfg.Algorithm).Str("out", plaintextPath).Int("bytes", len(plaintext)).Msg("file decrypted")
	return nil
}

func (s *service) prepare(key, nonce []byte) (cipher.AEAD, error) {
	c, err := newAEAD(s.cfg, key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != c.NonceSize() {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrCrypto, len(nonce), c.NonceSize())
	}
	return c, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return data, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err = tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
