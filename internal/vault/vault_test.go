package vault_test

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/vault"
)

// fastKDF keeps argon2id cheap enough for unit tests.
var fastKDF = vault.KDFParams{Time: 1, Memory: 1024, Threads: 1}

type generatorFunc func(ctx context.Context, cred credential.Credential, target vault.Target) error

func (f generatorFunc) GenerateAndStore(ctx context.Context, cred credential.Credential, target vault.Target) error {
	return f(ctx, cred, target)
}

func derive(t *testing.T, password string) credential.Credential {
	t.Helper()
	cred, err := credential.NewDeriver("").Derive(password)
	require.NoError(t, err)
	return cred
}

func newTestVault(t *testing.T, gen vault.KeyPairGenerator) *vault.Vault {
	t.Helper()
	cfg := vault.Config{
		Path: filepath.Join(t.TempDir(), "resources", "Keystore.pgv"),
		KDF:  fastKDF,
	}
	return vault.New(cfg, gen, logger.Nop())
}

// ── create / open ────────────────────────────────────────────────────────────

func TestVault_CreateThenOpen(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, nil)
	cred := derive(t, "game101")

	exists, err := v.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, v.CreateAndStore(ctx, cred))

	exists, err = v.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	h, err := v.Open(ctx, cred)
	require.NoError(t, err)
	defer h.Close()

	priv, err := h.PrivateKey(ctx)
	require.NoError(t, err)
	require.IsType(t, &ecdsa.PrivateKey{}, priv)

	pub, err := h.PublicKey(ctx)
	require.NoError(t, err)
	assert.True(t, priv.Public().(*ecdsa.PublicKey).Equal(pub))

	cert, err := h.Certificate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pong", cert.Subject.CommonName)

	secret, err := h.SecretKey(ctx)
	require.NoError(t, err)
	assert.Len(t, secret, 32)
}

func TestVault_KeyPairSignsAndVerifies(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, nil)
	cred := derive(t, "game101")
	require.NoError(t, v.CreateAndStore(ctx, cred))

	h, err := v.Open(ctx, cred)
	require.NoError(t, err)

	priv, err := h.PrivateKey(ctx)
	require.NoError(t, err)
	pub, err := h.PublicKey(ctx)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("pong"))
	sig, err := priv.Sign(rand.Reader, digest[:], crypto.SHA256)
	require.NoError(t, err)
	assert.True(t, ecdsa.VerifyASN1(pub.(*ecdsa.PublicKey), digest[:], sig))
}

func TestVault_OpenWithOtherCredential(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, nil)
	require.NoError(t, v.CreateAndStore(ctx, derive(t, "game101")))

	h, err := v.Open(ctx, derive(t, "game102"))
	assert.ErrorIs(t, err, vault.ErrAuthFailure)
	assert.Nil(t, h)
}

func TestVault_OpenMissingFile(t *testing.T) {
	v := newTestVault(t, nil)

	_, err := v.Open(context.Background(), derive(t, "game101"))
	assert.ErrorIs(t, err, vault.ErrNotFound)
}

func TestVault_OpenCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"short", []byte("not a vault")},
		{"garbage", make([]byte, 8*os.Getpagesize())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Keystore.pgv")
			require.NoError(t, os.WriteFile(path, tt.content, 0o600))

			v := vault.New(vault.Config{Path: path, KDF: fastKDF}, nil, nil)
			_, err := v.Open(context.Background(), derive(t, "game101"))
			assert.ErrorIs(t, err, vault.ErrCorrupt)
		})
	}
}

func TestVault_OpenWrongStoreType(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "Keystore.pgv")
	cred := derive(t, "game101")

	other := vault.New(vault.Config{Path: path, StoreType: "OTHER", KDF: fastKDF}, nil, nil)
	require.NoError(t, other.CreateAndStore(ctx, cred))

	v := vault.New(vault.Config{Path: path, KDF: fastKDF}, nil, nil)
	_, err := v.Open(ctx, cred)
	assert.ErrorIs(t, err, vault.ErrCorrupt)
}

func TestVault_CreateOverExistingRequiresSameCredential(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, nil)
	require.NoError(t, v.CreateAndStore(ctx, derive(t, "game101")))

	err := v.CreateAndStore(ctx, derive(t, "abcdef1"))
	assert.ErrorIs(t, err, vault.ErrAuthFailure)

	_, err = v.Open(ctx, derive(t, "game101"))
	assert.NoError(t, err)
}

func TestVault_CreateRejectsKeySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Keystore.pgv")
	called := false
	gen := generatorFunc(func(context.Context, credential.Credential, vault.Target) error {
		called = true
		return nil
	})

	v := vault.New(vault.Config{Path: path, SecretKeyBits: 100, KDF: fastKDF}, gen, nil)
	err := v.CreateAndStore(context.Background(), derive(t, "game101"))

	assert.ErrorIs(t, err, vault.ErrCrypto)
	assert.False(t, called)
	assert.NoFileExists(t, path)
}

func TestVault_CreateSecretKeySizes(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		path := filepath.Join(t.TempDir(), "Keystore.pgv")
		v := vault.New(vault.Config{Path: path, SecretKeyBits: bits, KDF: fastKDF}, nil, nil)
		cred := derive(t, "game101")
		require.NoError(t, v.CreateAndStore(context.Background(), cred))

		h, err := v.Open(context.Background(), cred)
		require.NoError(t, err)
		secret, err := h.SecretKey(context.Background())
		require.NoError(t, err)
		assert.Len(t, secret, bits/8)
	}
}

func TestVault_CreateGeneratorFailure(t *testing.T) {
	gen := generatorFunc(func(context.Context, credential.Credential, vault.Target) error {
		return errors.New("keytool not found")
	})
	v := newTestVault(t, gen)

	err := v.CreateAndStore(context.Background(), derive(t, "game101"))
	assert.ErrorIs(t, err, vault.ErrKeyGeneration)

	exists, err := v.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVault_CreateGeneratorWroteNothing(t *testing.T) {
	gen := generatorFunc(func(context.Context, credential.Credential, vault.Target) error {
		return nil
	})
	v := newTestVault(t, gen)

	err := v.CreateAndStore(context.Background(), derive(t, "game101"))
	assert.ErrorIs(t, err, vault.ErrKeyGeneration)
}

func TestVault_CreateGeneratorUsedOtherCredential(t *testing.T) {
	other := derive(t, "someoneelse")
	gen := generatorFunc(func(ctx context.Context, _ credential.Credential, target vault.Target) error {
		return (&vault.ECDSAGenerator{}).GenerateAndStore(ctx, other, target)
	})
	v := newTestVault(t, gen)

	err := v.CreateAndStore(context.Background(), derive(t, "game101"))
	assert.ErrorIs(t, err, vault.ErrAuthFailure)
	assert.NoFileExists(t, v.Path())
}

func TestVault_CreateRemovesIncompleteFile(t *testing.T) {
	ctx := context.Background()
	gen := generatorFunc(func(ctx context.Context, cred credential.Credential, target vault.Target) error {
		target.Alias = "elsewhere"
		return (&vault.ECDSAGenerator{}).GenerateAndStore(ctx, cred, target)
	})
	v := newTestVault(t, gen)
	cred := derive(t, "game101")

	err := v.CreateAndStore(ctx, cred)
	assert.ErrorIs(t, err, vault.ErrKeyGeneration)
	assert.NoFileExists(t, v.Path())

	// The next start sees a first run again and can complete creation.
	retry := vault.New(vault.Config{Path: v.Path(), KDF: fastKDF}, nil, nil)
	exists, err := retry.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, retry.CreateAndStore(ctx, cred))

	h, err := retry.Open(ctx, cred)
	require.NoError(t, err)
	defer h.Close()
	_, err = h.SecretKey(ctx)
	assert.NoError(t, err)
}

func TestVault_GeneratorReceivesTarget(t *testing.T) {
	var got vault.Target
	gen := generatorFunc(func(ctx context.Context, cred credential.Credential, target vault.Target) error {
		got = target
		return (&vault.ECDSAGenerator{}).GenerateAndStore(ctx, cred, target)
	})
	v := newTestVault(t, gen)

	require.NoError(t, v.CreateAndStore(context.Background(), derive(t, "game101")))
	assert.Equal(t, v.Path(), got.Path)
	assert.Equal(t, vault.DefaultKeyPairAlias, got.Alias)
	assert.Equal(t, vault.DefaultStoreType, got.StoreType)
	assert.Equal(t, fastKDF, got.KDF)
}

// ── handle ───────────────────────────────────────────────────────────────────

func TestHandle_EntryMissing(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, &vault.ECDSAGenerator{})
	cred := derive(t, "game101")

	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	certDER, err := vault.SelfSignedCertificate(key, "", 0)
	require.NoError(t, err)
	require.NoError(t, v.StoreKeyPair(ctx, cred, vault.DefaultKeyPairAlias, key, certDER))

	h, err := v.Open(ctx, cred)
	require.NoError(t, err)

	_, err = h.SecretKey(ctx)
	assert.ErrorIs(t, err, vault.ErrEntryMissing)

	priv, err := h.PrivateKey(ctx)
	require.NoError(t, err)
	assert.IsType(t, ed25519.PrivateKey{}, priv)
}

func TestHandle_RereadsFile(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, nil)
	cred := derive(t, "game101")
	require.NoError(t, v.CreateAndStore(ctx, cred))

	h, err := v.Open(ctx, cred)
	require.NoError(t, err)

	require.NoError(t, os.Remove(v.Path()))

	_, err = h.SecretKey(ctx)
	assert.ErrorIs(t, err, vault.ErrNotFound)
}

func TestHandle_Closed(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, nil)
	cred := derive(t, "game101")
	require.NoError(t, v.CreateAndStore(ctx, cred))

	h, err := v.Open(ctx, cred)
	require.NoError(t, err)
	h.Close()

	_, err = h.PrivateKey(ctx)
	assert.ErrorIs(t, err, vault.ErrAuthFailure)

	// The caller's credential is a separate copy.
	assert.NotZero(t, cred[0])
}

func TestVault_Aliases(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, nil)
	cred := derive(t, "game101")
	require.NoError(t, v.CreateAndStore(ctx, cred))

	aliases, err := v.Aliases(ctx, cred)
	require.NoError(t, err)
	assert.Equal(t, []string{vault.DefaultKeyPairAlias, vault.DefaultSecretKeyAlias}, aliases)

	_, err = v.Aliases(ctx, derive(t, "abcdef1"))
	assert.ErrorIs(t, err, vault.ErrAuthFailure)
}

func TestVault_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := newTestVault(t, nil)
	err := v.CreateAndStore(ctx, derive(t, "game101"))
	assert.ErrorIs(t, err, context.Canceled)
}

// ── generators ───────────────────────────────────────────────────────────────

func TestNewGenerator(t *testing.T) {
	gen, err := vault.NewGenerator("EC", "")
	require.NoError(t, err)
	assert.IsType(t, &vault.ECDSAGenerator{}, gen)

	gen, err = vault.NewGenerator("Ed25519", "Arcade")
	require.NoError(t, err)
	require.IsType(t, &vault.Ed25519Generator{}, gen)
	assert.Equal(t, "Arcade", gen.(*vault.Ed25519Generator).CommonName)

	_, err = vault.NewGenerator("DSA", "")
	assert.ErrorIs(t, err, vault.ErrCrypto)
}

func TestKeygenTemplate(t *testing.T) {
	target := vault.Target{Path: "resources/Keystore.pgv", Alias: "pongkeyPair"}
	args := vault.KeygenTemplate("/usr/bin/pongguard", "", target)

	assert.Equal(t, "/usr/bin/pongguard", args[0])
	assert.Equal(t, "keygen", args[1])
	assert.Contains(t, args, "resources/Keystore.pgv")
	assert.Contains(t, args, "PGV1")
	assert.Equal(t, "--storepass", args[len(args)-2])
	assert.Empty(t, args[len(args)-1])
	assert.Equal(t, "EC", keyAlgFlag(t, args))

	args = vault.KeygenTemplate("/usr/bin/pongguard", "Ed25519", target)
	assert.Equal(t, "Ed25519", keyAlgFlag(t, args))
}

func keyAlgFlag(t *testing.T, args []string) string {
	t.Helper()
	for i, arg := range args[:len(args)-1] {
		if arg == "--keyalg" {
			return args[i+1]
		}
	}
	t.Fatalf("--keyalg missing from %v", args)
	return ""
}

func TestCommandGenerator(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cred := derive(t, "game101")
	target := vault.Target{Path: filepath.Join(t.TempDir(), "Keystore.pgv"), Alias: "pongkeyPair"}

	t.Run("success", func(t *testing.T) {
		gen := &vault.CommandGenerator{Template: []string{"sh", "-c", `echo "storing as $0"`, ""}}
		assert.NoError(t, gen.GenerateAndStore(context.Background(), cred, target))
	})

	t.Run("credential fills last slot", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "arg")
		gen := &vault.CommandGenerator{Template: []string{"sh", "-c", `printf %s "$0" > ` + out, "placeholder"}}
		require.NoError(t, gen.GenerateAndStore(context.Background(), cred, target))

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, cred.String(), string(got))
	})

	t.Run("non-zero exit", func(t *testing.T) {
		gen := &vault.CommandGenerator{Template: []string{"sh", "-c", "exit 3", ""}}
		err := gen.GenerateAndStore(context.Background(), cred, target)
		assert.ErrorIs(t, err, vault.ErrKeyGeneration)
		assert.Contains(t, err.Error(), "code 3")
	})

	t.Run("missing binary", func(t *testing.T) {
		gen := &vault.CommandGenerator{Template: []string{"/nonexistent/keytool", ""}}
		assert.ErrorIs(t, gen.GenerateAndStore(context.Background(), cred, target), vault.ErrKeyGeneration)
	})

	t.Run("template too short", func(t *testing.T) {
		gen := &vault.CommandGenerator{Template: []string{""}}
		assert.ErrorIs(t, gen.GenerateAndStore(context.Background(), cred, target), vault.ErrKeyGeneration)
	})
}
