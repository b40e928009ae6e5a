package config

import (
	"os"
	"time"

	"github.com/MKhiriev/go-pong-guard/internal/aead"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

func defaults() *StructuredConfig {
	artifact, err := os.Executable()
	if err != nil {
		artifact = ""
	}
	kdf := vault.DefaultKDFParams()

	return &StructuredConfig{
		Crypto: Crypto{
			DigestAlgorithm:    credential.DefaultDigest,
			SignatureAlgorithm: signer.DefaultAlgorithm,
			CipherAlgorithm:    aead.DefaultAlgorithm,
			KeyBits:            vault.DefaultSecretKeyBits,
			NonceLength:        aead.DefaultNonceLength,
			TagLength:          aead.DefaultTagLength,
			ChunkSize:          aead.DefaultChunkSize,
		},
		Vault: Vault{
			Path:           "resources/Keystore.pgv",
			StoreType:      vault.DefaultStoreType,
			KeyPairAlias:   vault.DefaultKeyPairAlias,
			SecretKeyAlias: vault.DefaultSecretKeyAlias,
			KDFTime:        kdf.Time,
			KDFMemory:      kdf.Memory,
			KDFThreads:     kdf.Threads,
		},
		Files: Files{
			Artifact:           artifact,
			Signature:          "resources/PongApp.sig",
			Nonce:              "resources/gcmiv",
			SaveState:          "game.sav",
			EncryptedSaveState: "game.sav.enc",
		},
		Transport: Transport{
			Address:        "localhost:55555",
			PollInterval:   time.Second,
			RequestTimeout: 5 * time.Second,
		},
		Journal: Journal{
			DSN: "resources/journal.db",
		},
		Game: Game{
			WinningScore: 11,
		},
		Log: Log{
			Level: "info",
		},
	}
}
