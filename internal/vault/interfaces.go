package vault

//go:generate mockgen -source=interfaces.go -destination=../mock/vault_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
)

// KeyPairGenerator produces the vault's asymmetric key pair and writes it
// straight into the backing file described by target, protected by cred.
//
// Two strategies exist: [ECDSAGenerator] generates the pair in process and
// [CommandGenerator] delegates to an external program whose last argument is
// the credential.
type KeyPairGenerator interface {
	GenerateAndStore(ctx context.Context, cred credential.Credential, target Target) error
}
