package app

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pong-guard/internal/aead"
	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/internal/tui"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

const testPassword = "game101"

// fakeUI answers prompts from a list and replays menu events.
type fakeUI struct {
	role      session.Role
	passwords []string
	events    []session.Event

	prompts  []session.PromptRequest
	messages []string
}

func (f *fakeUI) ChooseRole(context.Context) (session.Role, error) {
	return f.role, nil
}

func (f *fakeUI) PromptPassword(_ context.Context, req session.PromptRequest) (string, error) {
	f.prompts = append(f.prompts, req)
	if len(f.passwords) == 0 {
		return "", tui.ErrUserQuit
	}
	next := f.passwords[0]
	f.passwords = f.passwords[1:]
	return next, nil
}

func (f *fakeUI) DisplayMessage(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeUI) RunHost(ctx context.Context, h tui.EventHandler, _ *session.Scoreboard) error {
	for _, ev := range f.events {
		if err := h.Handle(ctx, ev); err != nil {
			return err
		}
		if h.State() == session.Terminated {
			return nil
		}
	}
	return nil
}

func testConfig(t *testing.T) *config.StructuredConfig {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.StructuredConfig{
		Crypto: config.Crypto{
			DigestAlgorithm:    credential.DefaultDigest,
			SignatureAlgorithm: signer.SHA256withECDSA,
			CipherAlgorithm:    aead.AESGCM,
			KeyBits:            256,
			NonceLength:        aead.DefaultNonceLength,
			TagLength:          aead.DefaultTagLength,
			ChunkSize:          aead.DefaultChunkSize,
		},
		Vault: config.Vault{
			Path:           filepath.Join(dir, "Keystore.pgv"),
			StoreType:      vault.DefaultStoreType,
			KeyPairAlias:   vault.DefaultKeyPairAlias,
			SecretKeyAlias: vault.DefaultSecretKeyAlias,
			KDFTime:        1,
			KDFMemory:      1024,
			KDFThreads:     1,
		},
		Files: config.Files{
			Artifact:           filepath.Join(dir, "pong"),
			Signature:          filepath.Join(dir, "PongApp.sig"),
			Nonce:              filepath.Join(dir, "gcmiv"),
			SaveState:          filepath.Join(dir, "game.sav"),
			EncryptedSaveState: filepath.Join(dir, "game.sav.enc"),
		},
		Transport: config.Transport{
			Address:        "127.0.0.1:0",
			PollInterval:   10 * time.Millisecond,
			RequestTimeout: time.Second,
			HashKey:        "pong-shared-key",
		},
		Journal: config.Journal{DSN: config.JournalDisabled},
		Game:    config.Game{WinningScore: 11},
	}
	require.NoError(t, os.WriteFile(cfg.Files.Artifact, []byte("pong build artifact"), 0o644))
	return cfg
}

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// runHost plays one host session that exits right after startup.
func runHost(t *testing.T, cfg *config.StructuredConfig) *fakeUI {
	t.Helper()
	ui := &fakeUI{
		passwords: []string{testPassword, testPassword},
		events:    []session.Event{{Kind: session.EventExit}},
	}
	h, err := NewHost(cfg, ui, nil)
	require.NoError(t, err)
	require.NoError(t, h.Run(context.Background()))
	return ui
}
