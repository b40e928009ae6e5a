// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault stores the host's asymmetric key pair and symmetric secret
// key in a single password-protected file.
//
// The file is a bolt database. Entries are sealed with AES-256-GCM under a
// key-encryption key derived from the credential with argon2id; the salt and
// the argon2id parameters live in the file itself. Nothing unlocked is kept
// in memory between calls: every accessor reopens the file and derives the
// key again, so the file on disk is always the source of truth.
package vault

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/boltdb/bolt"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
)

// Defaults used when the corresponding [Config] field is empty.
const (
	DefaultStoreType      = "PGV1"
	DefaultKeyPairAlias   = "pongkeyPair"
	DefaultSecretKeyAlias = "secret"
	DefaultSecretKeyBits  = 256
)

// Config describes the vault file and the entries it holds.
type Config struct {
	Path           string
	StoreType      string
	KeyPairAlias   string
	SecretKeyAlias string
	SecretKeyBits  int
	KDF            KDFParams
}

func (c Config) withDefaults() Config {
	if c.StoreType == "" {
		c.StoreType = DefaultStoreType
	}
	if c.KeyPairAlias == "" {
		c.KeyPairAlias = DefaultKeyPairAlias
	}
	if c.SecretKeyAlias == "" {
		c.SecretKeyAlias = DefaultSecretKeyAlias
	}
	if c.SecretKeyBits == 0 {
		c.SecretKeyBits = DefaultSecretKeyBits
	}
	c.KDF = c.KDF.withDefaults()
	return c
}

// Vault guards one vault file. All file access goes through a single mutex,
// so a Vault is safe for concurrent use.
type Vault struct {
	mu  sync.Mutex
	cfg Config
	gen KeyPairGenerator
	log *logger.Logger
}

// New returns a Vault for cfg. gen produces the key pair on creation; a nil
// gen selects the in-process [ECDSAGenerator].
func New(cfg Config, gen KeyPairGenerator, log *logger.Logger) *Vault {
	if gen == nil {
		gen = &ECDSAGenerator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Vault{
		cfg: cfg.withDefaults(),
		gen: gen,
		log: log,
	}
}

// Path returns the location of the vault file.
func (v *Vault) Path() string {
	return v.cfg.Path
}

func (v *Vault) target(alias string) Target {
	return Target{
		Path:      v.cfg.Path,
		Alias:     alias,
		StoreType: v.cfg.StoreType,
		KDF:       v.cfg.KDF,
	}
}

// Exists reports whether the vault file is present.
func (v *Vault) Exists() (bool, error) {
	_, err := os.Stat(v.cfg.Path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

// CreateAndStore generates the key pair through the configured generator,
// then adds a fresh symmetric secret key. Both end up in the vault file
// protected by cred.
//
// When the file already exists it must be unlockable with cred, otherwise
// [ErrAuthFailure] is returned and the file is left untouched. A file this
// call created is removed again when a later step fails, so a failed
// creation never leaves a vault without its secret key behind.
func (v *Vault) CreateAndStore(ctx context.Context, cred credential.Credential) (err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err = ctx.Err(); err != nil {
		return err
	}

	bits := v.cfg.SecretKeyBits
	if bits != 128 && bits != 192 && bits != 256 {
		return fmt.Errorf("%w: AES key size %d bits", ErrCrypto, bits)
	}

	existed, err := v.Exists()
	if err != nil {
		return err
	}

	log := v.log.With().Str("path", v.cfg.Path).Int("cred_len", cred.Len()).Logger()
	if !existed {
		defer func() {
			if err == nil {
				return
			}
			if rmErr := os.Remove(v.cfg.Path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				log.Warn().Err(rmErr).Msg("removing incomplete vault failed")
				return
			}
			log.Debug().Msg("incomplete vault removed")
		}()
	}
	log.Debug().Str("alias", v.cfg.KeyPairAlias).Msg("generating key pair")

	if err = v.gen.GenerateAndStore(ctx, cred, v.target(v.cfg.KeyPairAlias)); err != nil {
		log.Error().Err(err).Msg("key pair generation failed")
		if isVaultError(err) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	db, err := openDB(v.cfg.Path, false, false)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: generator did not create %s", ErrKeyGeneration, v.cfg.Path)
		}
		return err
	}
	defer db.Close()

	secret := make([]byte, bits/8)
	if _, err = io.ReadFull(rand.Reader, secret); err != nil {
		return fmt.Errorf("%w: read random key: %w", ErrCrypto, err)
	}
	defer clear(secret)

	err = db.Update(func(tx *bolt.Tx) error {
		kek, err := unlockTx(tx, cred, v.cfg.StoreType)
		if err != nil {
			return err
		}
		if _, _, err = getEntry(tx, kek, v.cfg.KeyPairAlias, kindKeyPair); err != nil {
			if errors.Is(err, ErrEntryMissing) {
				return fmt.Errorf("%w: generator did not store %q", ErrKeyGeneration, v.cfg.KeyPairAlias)
			}
			return err
		}
		return putEntry(tx, kek, v.cfg.SecretKeyAlias, sealedEntry{Kind: kindSecret, Algorithm: "AES"}, secret)
	})
	if err != nil {
		log.Error().Err(err).Msg("storing secret key failed")
		return storageError(err)
	}

	log.Info().Str("alias", v.cfg.SecretKeyAlias).Int("bits", bits).Msg("vault created")
	return nil
}

// Open unlocks the vault file with cred and returns a handle to its entries.
// The handle keeps a copy of the credential; release it with [Handle.Close].
func (v *Vault) Open(ctx context.Context, cred credential.Credential) (*Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := v.view(cred, func(*bolt.Tx, []byte) error { return nil }); err != nil {
		v.log.Debug().Err(err).Str("path", v.cfg.Path).Msg("vault open failed")
		return nil, err
	}

	held := make(credential.Credential, cred.Len())
	copy(held, cred)
	return &Handle{vault: v, cred: held}, nil
}

// Aliases lists the aliases stored in the vault in byte order.
func (v *Vault) Aliases(ctx context.Context, cred credential.Credential) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var aliases []string
	err := v.view(cred, func(tx *bolt.Tx, _ []byte) error {
		bucket := tx.Bucket(entriesBucket)
		if bucket == nil {
			return fmt.Errorf("%w: entries bucket missing", ErrCorrupt)
		}
		return bucket.ForEach(func(k, _ []byte) error {
			aliases = append(aliases, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return aliases, nil
}

// StoreKeyPair seals key and its DER certificate under alias, creating the
// vault file with a fresh salt when it does not exist yet.
func (v *Vault) StoreKeyPair(ctx context.Context, cred credential.Credential, alias string, key crypto.Signer, certDER []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteKeyPair(v.target(alias), cred, key, certDER)
}

// view opens the file read-only, unlocks it and runs fn inside a read
// transaction. Callers hold v.mu.
func (v *Vault) view(cred credential.Credential, fn func(tx *bolt.Tx, kek []byte) error) error {
	db, err := openDB(v.cfg.Path, true, false)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		kek, err := unlockTx(tx, cred, v.cfg.StoreType)
		if err != nil {
			return err
		}
		defer clear(kek)
		return fn(tx, kek)
	})
	return storageError(err)
}

// WriteKeyPair seals key and certDER under target.Alias in the file at
// target.Path. A missing file is created with a fresh salt and verifier; an
// existing file must unlock with cred.
func WriteKeyPair(target Target, cred credential.Credential, key crypto.Signer, certDER []byte) error {
	if key == nil {
		return fmt.Errorf("%w: nil private key", ErrCrypto)
	}
	algorithm, err := keyAlgorithm(key)
	if err != nil {
		return err
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("%w: encode private key: %w", ErrCrypto, err)
	}
	defer clear(pkcs8)

	storeType := target.StoreType
	if storeType == "" {
		storeType = DefaultStoreType
	}

	db, err := openDB(target.Path, false, true)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		var kek []byte
		if tx.Bucket(metaBucket) == nil {
			kek, err = initMeta(tx, cred, storeType, target.KDF)
		} else {
			kek, err = unlockTx(tx, cred, storeType)
		}
		if err != nil {
			return err
		}
		defer clear(kek)

		entry := sealedEntry{
			Kind:        kindKeyPair,
			Algorithm:   algorithm,
			Certificate: certDER,
		}
		return putEntry(tx, kek, target.Alias, entry, pkcs8)
	})

	return storageError(err)
}

func keyAlgorithm(key crypto.Signer) (string, error) {
	switch key.(type) {
	case *ecdsa.PrivateKey:
		return "EC", nil
	case ed25519.PrivateKey:
		return "Ed25519", nil
	case *rsa.PrivateKey:
		return "RSA", nil
	default:
		return "", fmt.Errorf("%w: %T", ErrCrypto, key)
	}
}

// storageError wraps errors that did not come from this package (bolt
// write failures, I/O) as [ErrStorage].
func storageError(err error) error {
	if err == nil || isVaultError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func isVaultError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrAuthFailure, ErrCorrupt, ErrEntryMissing,
		ErrStorage, ErrCrypto, ErrKeyGeneration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
