// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package credential normalizes, validates and hashes the password a host
// player types before the key vault is created or opened.
//
// The derived [Credential] is the only form in which the password reaches
// the vault. It is built fresh for every prompt and never persisted.
package credential

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"regexp"
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

// Digest algorithm names accepted by [NewDeriver].
const (
	DigestSHA3_256   = "SHA3-256"
	DigestSHA3_512   = "SHA3-512"
	DigestSHA256     = "SHA-256"
	DigestSHA512     = "SHA-512"
	DigestBLAKE3_256 = "BLAKE3-256"

	// DefaultDigest is used when no algorithm is configured.
	DefaultDigest = DigestSHA3_256
)

var validPassword = regexp.MustCompile(`^[A-Za-z0-9]{6,70}$`)

var digests = map[string]func() hash.Hash{
	DigestSHA3_256:   sha3.New256,
	DigestSHA3_512:   sha3.New512,
	DigestSHA256:     sha256.New,
	DigestSHA512:     sha512.New,
	DigestBLAKE3_256: func() hash.Hash { return blake3.New() },
}

// SupportedDigests returns the registered digest names in lexical order.
func SupportedDigests() []string {
	names := make([]string, 0, len(digests))
	for name := range digests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSupportedDigest reports whether name is a registered digest algorithm.
func IsSupportedDigest(name string) bool {
	_, ok := digests[name]
	return ok
}

type deriver struct {
	algorithm string
}

// NewDeriver returns a [Deriver] hashing with algorithm. An empty name
// selects [DefaultDigest]. An unknown name is not rejected here: every Derive
// call then fails with [ErrUnsupportedDigest], which keeps derivation a pure
// function from the caller's point of view.
func NewDeriver(algorithm string) Deriver {
	if algorithm == "" {
		algorithm = DefaultDigest
	}
	return &deriver{algorithm: algorithm}
}

// Derive implements [Deriver].
func (d *deriver) Derive(raw string) (Credential, error) {
	normalized := norm.NFKC.String(raw)
	if !validPassword.MatchString(normalized) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, ErrPatternMismatch)
	}

	newHash, ok := digests[d.algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidCredential, ErrUnsupportedDigest, d.algorithm)
	}

	h := newHash()
	h.Write([]byte(normalized))
	sum := h.Sum(nil)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum)

	return Credential(out), nil
}
