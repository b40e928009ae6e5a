package vault

import (
	"bufio"
	"bytes"
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"os/exec"
	"slices"
	"time"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
)

const (
	// DefaultCommonName is the subject of the self-signed certificate.
	DefaultCommonName = "Pong"

	// DefaultValidity matches keytool's default certificate lifetime.
	DefaultValidity = 90 * 24 * time.Hour
)

// ECDSAGenerator generates an ECDSA key pair in process.
type ECDSAGenerator struct {
	// Curve defaults to P-256.
	Curve elliptic.Curve
	// CommonName defaults to [DefaultCommonName].
	CommonName string
	// Validity defaults to [DefaultValidity].
	Validity time.Duration
}

// GenerateAndStore implements [KeyPairGenerator].
func (g *ECDSAGenerator) GenerateAndStore(ctx context.Context, cred credential.Credential, target Target) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	curve := g.Curve
	if curve == nil {
		curve = elliptic.P256()
	}
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	return storeSelfSigned(target, cred, key, g.CommonName, g.Validity)
}

// Ed25519Generator generates an Ed25519 key pair in process.
type Ed25519Generator struct {
	CommonName string
	Validity   time.Duration
}

// GenerateAndStore implements [KeyPairGenerator].
func (g *Ed25519Generator) GenerateAndStore(ctx context.Context, cred credential.Credential, target Target) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	return storeSelfSigned(target, cred, key, g.CommonName, g.Validity)
}

// NewGenerator returns the in-process generator for keyAlg ("EC" or
// "Ed25519") whose certificates name commonName. An empty commonName
// selects [DefaultCommonName].
func NewGenerator(keyAlg, commonName string) (KeyPairGenerator, error) {
	switch keyAlg {
	case "", "EC", "ECDSA":
		return &ECDSAGenerator{CommonName: commonName}, nil
	case "Ed25519", "EdDSA":
		return &Ed25519Generator{CommonName: commonName}, nil
	default:
		return nil, fmt.Errorf("%w: key algorithm %q", ErrCrypto, keyAlg)
	}
}

func storeSelfSigned(target Target, cred credential.Credential, key crypto.Signer, cn string, validity time.Duration) error {
	certDER, err := SelfSignedCertificate(key, cn, validity)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	return WriteKeyPair(target, cred, key, certDER)
}

// SelfSignedCertificate issues a DER certificate for key signed by key
// itself, with subject CN=cn.
func SelfSignedCertificate(key crypto.Signer, cn string, validity time.Duration) ([]byte, error) {
	if cn == "" {
		cn = DefaultCommonName
	}
	if validity <= 0 {
		validity = DefaultValidity
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	return x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
}

// CommandGenerator delegates key-pair generation to an external program.
// Template is the full command line; its final element is replaced with the
// credential before the program runs, so the template usually ends with a
// password flag followed by an empty placeholder.
type CommandGenerator struct {
	Template []string
	Log      *logger.Logger
}

// KeygenTemplate returns a command line for the keygen subcommand of
// executable that writes a keyAlg key pair to target. It mirrors the keytool
// invocation the desktop build used. An empty keyAlg selects "EC".
func KeygenTemplate(executable, keyAlg string, target Target) []string {
	storeType := target.StoreType
	if storeType == "" {
		storeType = DefaultStoreType
	}
	if keyAlg == "" {
		keyAlg = "EC"
	}
	return []string{
		executable, "keygen",
		"--alias", target.Alias,
		"--keyalg", keyAlg,
		"--dname", "CN=" + DefaultCommonName,
		"--storetype", storeType,
		"--keystore", target.Path,
		"--storepass", "",
	}
}

// GenerateAndStore implements [KeyPairGenerator]. target is informational:
// the template already names the file and alias.
func (g *CommandGenerator) GenerateAndStore(ctx context.Context, cred credential.Credential, target Target) error {
	if len(g.Template) < 2 {
		return fmt.Errorf("%w: command template is too short", ErrKeyGeneration)
	}

	log := g.Log
	if log == nil {
		log = logger.Nop()
	}

	args := slices.Clone(g.Template)
	args[len(args)-1] = cred.String()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	log.Debug().
		Str("command", args[0]).
		Str("path", target.Path).
		Str("alias", target.Alias).
		Msg("running key generation command")

	err := cmd.Run()

	scanner := bufio.NewScanner(&output)
	for scanner.Scan() {
		log.Debug().Str("command", args[0]).Msg(scanner.Text())
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", ErrKeyGeneration, args[0], exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	return nil
}
