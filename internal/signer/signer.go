// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package signer creates and checks detached signatures over the game
// artifact so that the host can tell whether it was modified since the last
// session ended.
package signer

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/MKhiriev/go-pong-guard/internal/logger"
)

// Signature algorithm names accepted by [Service].
const (
	SHA256withECDSA = "SHA256withECDSA"
	SHA384withECDSA = "SHA384withECDSA"
	SHA512withECDSA = "SHA512withECDSA"
	Ed25519         = "Ed25519"

	// DefaultAlgorithm is used when the configured name is empty.
	DefaultAlgorithm = SHA256withECDSA
)

// Key algorithm names as understood by the vault key generators.
const (
	KeyAlgorithmEC      = "EC"
	KeyAlgorithmEd25519 = "Ed25519"
)

type keyKind int

const (
	kindECDSA keyKind = iota
	kindEd25519
)

type algorithm struct {
	hash crypto.Hash
	kind keyKind
}

var algorithms = map[string]algorithm{
	SHA256withECDSA: {hash: crypto.SHA256, kind: kindECDSA},
	SHA384withECDSA: {hash: crypto.SHA384, kind: kindECDSA},
	SHA512withECDSA: {hash: crypto.SHA512, kind: kindECDSA},
	Ed25519:         {kind: kindEd25519},
}

// Algorithms returns the supported algorithm names in lexical order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeyAlgorithm returns the key algorithm a key pair must use to sign with
// the named signature algorithm.
func KeyAlgorithm(name string) (string, error) {
	alg, err := lookup(name)
	if err != nil {
		return "", err
	}
	if alg.kind == kindEd25519 {
		return KeyAlgorithmEd25519, nil
	}
	return KeyAlgorithmEC, nil
}

type signerService struct {
	log *logger.Logger
}

// New returns the file-based [Service].
func New(log *logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &signerService{log: log}
}

func lookup(name string) (algorithm, error) {
	if name == "" {
		name = DefaultAlgorithm
	}
	alg, ok := algorithms[name]
	if !ok {
		return algorithm{}, fmt.Errorf("%w: %q", ErrNoSuchAlgorithm, name)
	}
	return alg, nil
}

// Sign implements [Service].
func (s *signerService) Sign(name string, key crypto.PrivateKey, artifactPath string) ([]byte, error) {
	alg, err := lookup(name)
	if err != nil {
		return nil, err
	}

	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		if k == nil {
			return nil, fmt.Errorf("%w: nil private key", ErrInvalidKey)
		}
	case ed25519.PrivateKey:
		if len(k) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("%w: ed25519 key is %d bytes", ErrInvalidKey, len(k))
		}
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot sign", ErrInvalidKey, key)
	}
	if err = checkPublic(alg, signer.Public()); err != nil {
		return nil, err
	}

	var sig []byte
	switch alg.kind {
	case kindECDSA:
		digest, err := digestFile(alg.hash, artifactPath)
		if err != nil {
			return nil, err
		}
		sig, err = signer.Sign(rand.Reader, digest, alg.hash)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSignature, err)
		}
	case kindEd25519:
		message, err := readFile(artifactPath)
		if err != nil {
			return nil, err
		}
		sig, err = signer.Sign(rand.Reader, message, crypto.Hash(0))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSignature, err)
		}
	}

	s.log.Debug().Str("algorithm", name).Str("artifact", artifactPath).Int("sig_len", len(sig)).Msg("artifact signed")
	return sig, nil
}

// Verify implements [Service].
func (s *signerService) Verify(sig []byte, key crypto.PublicKey, name, artifactPath string) (bool, error) {
	alg, err := lookup(name)
	if err != nil {
		return false, err
	}
	if err = checkPublic(alg, key); err != nil {
		return false, err
	}

	var valid bool
	switch pub := key.(type) {
	case *ecdsa.PublicKey:
		digest, err := digestFile(alg.hash, artifactPath)
		if err != nil {
			return false, err
		}
		valid = ecdsa.VerifyASN1(pub, digest, sig)
	case ed25519.PublicKey:
		message, err := readFile(artifactPath)
		if err != nil {
			return false, err
		}
		valid = ed25519.Verify(pub, message, sig)
	}

	s.log.Debug().Str("algorithm", name).Str("artifact", artifactPath).Bool("valid", valid).Msg("signature verified")
	return valid, nil
}

// Persist implements [Service].
func (s *signerService) Persist(path string, sig []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	if err := os.WriteFile(path, sig, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Load implements [Service].
func (s *signerService) Load(path string) ([]byte, error) {
	sig, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return sig, nil
}

func checkPublic(alg algorithm, key crypto.PublicKey) error {
	switch pub := key.(type) {
	case *ecdsa.PublicKey:
		if pub != nil && alg.kind == kindECDSA {
			return nil
		}
	case ed25519.PublicKey:
		if len(pub) == ed25519.PublicKeySize && alg.kind == kindEd25519 {
			return nil
		}
	}
	return fmt.Errorf("%w: %T does not fit the algorithm", ErrInvalidKey, key)
}

func digestFile(h crypto.Hash, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	hasher := h.New()
	if _, err = io.Copy(hasher, f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return hasher.Sum(nil), nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return data, nil
}
