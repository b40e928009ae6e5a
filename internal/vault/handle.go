package vault

import (
	"context"
	"crypto"
	"crypto/x509"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
)

// Handle is an unlocked view of a vault. It holds the credential, not the
// keys: each accessor reopens the file and unseals the entry it needs.
type Handle struct {
	vault *Vault
	cred  credential.Credential
}

// PrivateKey returns the private half of the vault's key pair.
func (h *Handle) PrivateKey(ctx context.Context) (crypto.Signer, error) {
	_, der, err := h.read(ctx, h.vault.cfg.KeyPairAlias, kindKeyPair)
	if err != nil {
		return nil, err
	}
	defer clear(der)

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: decode private key: %w", ErrCorrupt, err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot sign", ErrCrypto, key)
	}

	return signer, nil
}

// Certificate returns the self-signed certificate stored with the key pair.
func (h *Handle) Certificate(ctx context.Context) (*x509.Certificate, error) {
	entry, der, err := h.read(ctx, h.vault.cfg.KeyPairAlias, kindKeyPair)
	if err != nil {
		return nil, err
	}
	clear(der)

	if len(entry.Certificate) == 0 {
		return nil, fmt.Errorf("%w: %q has no certificate", ErrEntryMissing, h.vault.cfg.KeyPairAlias)
	}
	cert, err := x509.ParseCertificate(entry.Certificate)
	if err != nil {
		return nil, fmt.Errorf("%w: decode certificate: %w", ErrCorrupt, err)
	}

	return cert, nil
}

// PublicKey returns the public half of the key pair, taken from its
// certificate.
func (h *Handle) PublicKey(ctx context.Context) (crypto.PublicKey, error) {
	cert, err := h.Certificate(ctx)
	if err != nil {
		return nil, err
	}
	return cert.PublicKey, nil
}

// SecretKey returns the raw bytes of the symmetric secret key.
func (h *Handle) SecretKey(ctx context.Context) ([]byte, error) {
	_, key, err := h.read(ctx, h.vault.cfg.SecretKeyAlias, kindSecret)
	return key, err
}

// Close wipes the credential held by the handle. The handle is unusable
// afterwards.
func (h *Handle) Close() {
	h.cred.Wipe()
	h.cred = nil
}

func (h *Handle) read(ctx context.Context, alias, kind string) (sealedEntry, []byte, error) {
	if err := ctx.Err(); err != nil {
		return sealedEntry{}, nil, err
	}
	if h.cred == nil {
		return sealedEntry{}, nil, fmt.Errorf("%w: handle is closed", ErrAuthFailure)
	}

	v := h.vault
	v.mu.Lock()
	defer v.mu.Unlock()

	var (
		entry     sealedEntry
		plaintext []byte
	)
	err := v.view(h.cred, func(tx *bolt.Tx, kek []byte) error {
		var err error
		entry, plaintext, err = getEntry(tx, kek, alias, kind)
		return err
	})
	if err != nil {
		return sealedEntry{}, nil, err
	}

	return entry, plaintext, nil
}
