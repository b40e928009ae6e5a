package app

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pong-guard/internal/aead"
	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/journal"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

func kdfParams(cfg config.Vault) vault.KDFParams {
	return vault.KDFParams{
		Time:    cfg.KDFTime,
		Memory:  cfg.KDFMemory,
		Threads: cfg.KDFThreads,
	}
}

func vaultConfig(cfg *config.StructuredConfig) vault.Config {
	return vault.Config{
		Path:           cfg.Vault.Path,
		StoreType:      cfg.Vault.StoreType,
		KeyPairAlias:   cfg.Vault.KeyPairAlias,
		SecretKeyAlias: cfg.Vault.SecretKeyAlias,
		SecretKeyBits:  cfg.Crypto.KeyBits,
		KDF:            kdfParams(cfg.Vault),
	}
}

// newVault opens the vault described by cfg. Its key pair uses the key
// algorithm the configured signature algorithm needs; a configured keygen
// command replaces the in-process generator.
func newVault(cfg *config.StructuredConfig, log *logger.Logger) (*vault.Vault, error) {
	vcfg := vaultConfig(cfg)

	keyAlg, err := signer.KeyAlgorithm(cfg.Crypto.SignatureAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	var gen vault.KeyPairGenerator
	if cfg.Vault.KeyGenCommand != "" {
		target := vault.Target{
			Path:      vcfg.Path,
			Alias:     vcfg.KeyPairAlias,
			StoreType: vcfg.StoreType,
			KDF:       vcfg.KDF,
		}
		gen = &vault.CommandGenerator{
			Template: vault.KeygenTemplate(cfg.Vault.KeyGenCommand, keyAlg, target),
			Log:      log,
		}
	} else if gen, err = vault.NewGenerator(keyAlg, ""); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return vault.New(vcfg, gen, log), nil
}

func newCipher(cfg *config.StructuredConfig, log *logger.Logger) aead.Service {
	return aead.New(aead.Config{
		Algorithm:   cfg.Crypto.CipherAlgorithm,
		NonceFile:   cfg.Files.Nonce,
		NonceLength: cfg.Crypto.NonceLength,
		TagLength:   cfg.Crypto.TagLength,
		ChunkSize:   cfg.Crypto.ChunkSize,
	}, log)
}

func newDeriver(cfg *config.StructuredConfig) credential.Deriver {
	return credential.NewDeriver(cfg.Crypto.DigestAlgorithm)
}

func sessionFiles(cfg *config.StructuredConfig) session.Files {
	return session.Files{
		Artifact:           cfg.Files.Artifact,
		Signature:          cfg.Files.Signature,
		SaveState:          cfg.Files.SaveState,
		EncryptedSaveState: cfg.Files.EncryptedSaveState,
	}
}

// openJournal returns nil when the journal is disabled or cannot be
// opened. The session runs without it in both cases.
func openJournal(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) *journal.SQLiteJournal {
	dsn := cfg.Journal.DSN
	if dsn == "" || dsn == config.JournalDisabled {
		log.Debug().Msg("journal disabled")
		return nil
	}

	j, err := journal.Open(ctx, dsn, log)
	if err != nil {
		log.Warn().Err(err).Str("dsn", dsn).Msg("journal unavailable, continuing without it")
		return nil
	}
	return j
}
