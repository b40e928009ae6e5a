package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/journal"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

// KeygenOptions mirror the keytool -genkeypair flags the host passes to
// an external generator.
type KeygenOptions struct {
	Alias     string
	KeyAlg    string
	DName     string
	StoreType string
	Keystore  string
	// StorePass is the derived credential. Empty prompts for a password
	// and derives it.
	StorePass string
	KDF       vault.KDFParams
}

// Keygen writes a fresh key pair into the keystore named by opts.
func Keygen(ctx context.Context, opts KeygenOptions, prompter session.Prompter, deriver credential.Deriver, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Keystore == "" || opts.Alias == "" {
		return fmt.Errorf("%w: keystore and alias are required", ErrInvalidOptions)
	}

	gen, err := vault.NewGenerator(opts.KeyAlg, commonName(opts.DName))
	if err != nil {
		return err
	}

	var cred credential.Credential
	if opts.StorePass != "" {
		cred = credential.Credential(opts.StorePass)
	} else {
		cred, err = promptCredential(ctx, prompter, deriver, session.PurposeCreateVault)
		if err != nil {
			return err
		}
	}
	defer cred.Wipe()

	target := vault.Target{
		Path:      opts.Keystore,
		Alias:     opts.Alias,
		StoreType: opts.StoreType,
		KDF:       opts.KDF,
	}
	if err = gen.GenerateAndStore(ctx, cred, target); err != nil {
		return err
	}

	log.Info().Str("keystore", opts.Keystore).Str("alias", opts.Alias).Msg("key pair generated")
	return nil
}

// commonName extracts CN from an X.500 name such as "CN=Pong, O=Arcade".
func commonName(dname string) string {
	for _, part := range strings.Split(dname, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "CN") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Verify checks the artifact signature with the vault's public key and
// writes the result to out. An invalid signature returns
// [ErrSignatureInvalid].
func Verify(ctx context.Context, cfg *config.StructuredConfig, prompter session.Prompter, out io.Writer, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	cred, err := promptCredential(ctx, prompter, newDeriver(cfg), session.PurposeVerifySignature)
	if err != nil {
		return err
	}
	defer cred.Wipe()

	v, err := newVault(cfg, log)
	if err != nil {
		return err
	}
	handle, err := v.Open(ctx, cred)
	if err != nil {
		return err
	}
	defer handle.Close()

	pub, err := handle.PublicKey(ctx)
	if err != nil {
		return err
	}

	s := signer.New(log)
	sig, err := s.Load(cfg.Files.Signature)
	if err != nil {
		return err
	}
	valid, err := s.Verify(sig, pub, cfg.Crypto.SignatureAlgorithm, cfg.Files.Artifact)
	if err != nil {
		return err
	}

	if !valid {
		color.New(color.FgRed, color.Bold).Fprintln(out, session.MsgSignatureInvalid)
		return ErrSignatureInvalid
	}
	color.New(color.FgGreen).Fprintln(out, session.MsgSignatureValid)
	return nil
}

// Inspect lists the vault aliases and, when the journal is enabled, the
// most recent attestation check.
func Inspect(ctx context.Context, cfg *config.StructuredConfig, prompter session.Prompter, out io.Writer, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	cred, err := promptCredential(ctx, prompter, newDeriver(cfg), session.PurposeVerifySignature)
	if err != nil {
		return err
	}
	defer cred.Wipe()

	v, err := newVault(cfg, log)
	if err != nil {
		return err
	}
	aliases, err := v.Aliases(ctx, cred)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Fprintf(out, "Keystore %s\n", cfg.Vault.Path)
	for _, alias := range aliases {
		fmt.Fprintf(out, "  %s\n", alias)
	}

	j := openJournal(ctx, cfg, log)
	if j == nil {
		return nil
	}
	defer j.Close()

	last, err := j.LastVerification(ctx)
	switch {
	case errors.Is(err, journal.ErrNoEvents):
		fmt.Fprintln(out, "No attestation check recorded")
		return nil
	case err != nil:
		return err
	}

	result := "not valid"
	if last.OK {
		result = "valid"
	}
	bold.Fprintln(out, "Last attestation check")
	fmt.Fprintf(out, "  %s  session %s  %s\n", last.CreatedAt.Format("2006-01-02 15:04:05"), last.SessionID, result)

	events, err := j.List(ctx, last.SessionID)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintf(out, "  %-14s ok=%t %s\n", ev.Kind, ev.OK, ev.Detail)
	}
	return nil
}

// promptCredential asks once and derives the credential. The tools do
// not retry: a bad password ends the command.
func promptCredential(ctx context.Context, prompter session.Prompter, deriver credential.Deriver, purpose session.Purpose) (credential.Credential, error) {
	if prompter == nil {
		return nil, fmt.Errorf("%w: prompter", session.ErrMissingDependency)
	}
	if deriver == nil {
		deriver = credential.NewDeriver("")
	}

	raw, err := prompter.PromptPassword(ctx, session.PromptRequest{Purpose: purpose})
	if err != nil {
		return nil, err
	}
	return deriver.Derive(raw)
}
