// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"

	"github.com/MKhiriev/go-pong-guard/internal/aead"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// host invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.Crypto.validate(); err != nil {
		return err
	}

	v := cfg.Vault
	if v.Path == "" || v.StoreType == "" || v.KeyPairAlias == "" || v.SecretKeyAlias == "" {
		return ErrInvalidVaultConfigs
	}
	if v.KeyPairAlias == v.SecretKeyAlias {
		return fmt.Errorf("%w: key pair and secret key share alias %q", ErrInvalidVaultConfigs, v.KeyPairAlias)
	}

	f := cfg.Files
	if f.Artifact == "" || f.Signature == "" || f.Nonce == "" || f.SaveState == "" || f.EncryptedSaveState == "" {
		return ErrInvalidFilesConfigs
	}
	if f.SaveState == f.EncryptedSaveState {
		return fmt.Errorf("%w: save state and encrypted save state are the same file", ErrInvalidFilesConfigs)
	}

	if err := cfg.Transport.validate(); err != nil {
		return err
	}

	if cfg.Game.WinningScore < 1 {
		return ErrInvalidGameConfigs
	}

	return nil
}

func (c Crypto) validate() error {
	if !credential.IsSupportedDigest(c.DigestAlgorithm) {
		return fmt.Errorf("%w: digest %q", ErrInvalidCryptoConfigs, c.DigestAlgorithm)
	}
	if !slices.Contains(signer.Algorithms(), c.SignatureAlgorithm) {
		return fmt.Errorf("%w: signature algorithm %q", ErrInvalidCryptoConfigs, c.SignatureAlgorithm)
	}
	switch c.KeyBits {
	case 128, 192, 256:
	default:
		return fmt.Errorf("%w: key size %d", ErrInvalidCryptoConfigs, c.KeyBits)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size %d", ErrInvalidCryptoConfigs, c.ChunkSize)
	}

	cipherCfg := aead.Config{
		Algorithm:   c.CipherAlgorithm,
		NonceLength: c.NonceLength,
		TagLength:   c.TagLength,
		ChunkSize:   c.ChunkSize,
	}
	if err := aead.Validate(cipherCfg, c.KeyBits/8); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCryptoConfigs, err)
	}
	return nil
}

func (t Transport) validate() error {
	if t.Address == "" || t.PollInterval <= 0 || t.RequestTimeout <= 0 {
		return ErrInvalidTransportConfigs
	}
	return nil
}
