package session

import (
	"context"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

type vaultAdapter struct {
	v *vault.Vault
}

// FromVault exposes v as the session's [Vault].
func FromVault(v *vault.Vault) Vault {
	return &vaultAdapter{v: v}
}

func (a *vaultAdapter) Exists() (bool, error) {
	return a.v.Exists()
}

func (a *vaultAdapter) CreateAndStore(ctx context.Context, cred credential.Credential) error {
	return a.v.CreateAndStore(ctx, cred)
}

func (a *vaultAdapter) Open(ctx context.Context, cred credential.Credential) (Keys, error) {
	h, err := a.v.Open(ctx, cred)
	if err != nil {
		return nil, err
	}
	return h, nil
}
