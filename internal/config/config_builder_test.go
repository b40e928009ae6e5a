package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func parsedFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return flags
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── merge / build ─────────────────────────────────────────────────────────────

// TestMerge_EmptyBuilder verifies that merging no configs yields a zero value.
func TestMerge_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().merge()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestBuild_EmptyBuilderFailsValidation verifies that a config with nothing
// set is rejected.
func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidCryptoConfigs)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestMerge_EarlierConfigWins verifies that a field set by an earlier source
// is not overwritten, while unset fields are filled from later ones.
func TestMerge_EarlierConfigWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Transport: Transport{Address: "127.0.0.1:6000"}},
		&StructuredConfig{Transport: Transport{Address: "localhost:7000", HashKey: "shared"}},
	)

	cfg, err := b.merge()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6000", cfg.Transport.Address)
	assert.Equal(t, "shared", cfg.Transport.HashKey)
}

// TestBuild_DefaultsAreValid verifies that the defaults alone pass
// validation.
func TestBuild_DefaultsAreValid(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "SHA3-256", cfg.Crypto.DigestAlgorithm)
	assert.Equal(t, "SHA256withECDSA", cfg.Crypto.SignatureAlgorithm)
	assert.Equal(t, "AES/GCM/NoPadding", cfg.Crypto.CipherAlgorithm)
	assert.Equal(t, 256, cfg.Crypto.KeyBits)
	assert.Equal(t, "resources/Keystore.pgv", cfg.Vault.Path)
	assert.Equal(t, "PGV1", cfg.Vault.StoreType)
	assert.Equal(t, "pongkeyPair", cfg.Vault.KeyPairAlias)
	assert.Equal(t, "secret", cfg.Vault.SecretKeyAlias)
	assert.Equal(t, "resources/PongApp.sig", cfg.Files.Signature)
	assert.Equal(t, "resources/gcmiv", cfg.Files.Nonce)
	assert.NotEmpty(t, cfg.Files.Artifact)
	assert.Equal(t, "localhost:55555", cfg.Transport.Address)
	assert.Equal(t, time.Second, cfg.Transport.PollInterval)
	assert.Equal(t, 11, cfg.Game.WinningScore)
}

// ── sources ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("PONG_VAULT_PATH", "/tmp/env.pgv")
	t.Setenv("PONG_TRANSPORT_HASH_KEY", "env-key")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "/tmp/env.pgv", b.configs[0].Vault.Path)
	assert.Equal(t, "env-key", b.configs[0].Transport.HashKey)
}

// TestWithEnv_SetsErrorOnBadValue verifies that a malformed value is
// reported.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	t.Setenv("PONG_CRYPTO_KEY_BITS", "many")

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// TestWithFlags_NilIsSkipped verifies the fluent interface with no flags.
func TestWithFlags_NilIsSkipped(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
	assert.Empty(t, b.configs)
}

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Vault.Path = "/srv/json.pgv"
	payload.Game.WinningScore = 5
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "/srv/json.pgv", b.configs[1].Vault.Path)
	assert.Equal(t, 5, b.configs[1].Game.WinningScore)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesFirstPath verifies that the highest-priority source
// chooses the JSON file.
func TestWithJSON_UsesFirstPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.Log.Level = "debug"
	second := StructuredJSONConfig{}
	second.Log.Level = "error"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, second)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "debug", b.configs[2].Log.Level)
}

// ── Load ──────────────────────────────────────────────────────────────────────

// TestLoad_Priority verifies flags over env over JSON over defaults.
func TestLoad_Priority(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Vault.Path = "json.pgv"
	payload.Transport.HashKey = "json-key"
	payload.Journal.DSN = "json.db"
	path := writeTempJSONConfig(t, payload)

	t.Setenv("PONG_CONFIG", path)
	t.Setenv("PONG_VAULT_PATH", "env.pgv")
	t.Setenv("PONG_TRANSPORT_HASH_KEY", "env-key")

	cfg, err := Load(parsedFlags(t, "--vault", "flag.pgv"))
	require.NoError(t, err)

	assert.Equal(t, "flag.pgv", cfg.Vault.Path)
	assert.Equal(t, "env-key", cfg.Transport.HashKey)
	assert.Equal(t, "json.db", cfg.Journal.DSN)
	assert.Equal(t, "resources/gcmiv", cfg.Files.Nonce)
}

// TestLoad_InvalidValue verifies that validation runs after merging.
func TestLoad_InvalidValue(t *testing.T) {
	_, err := Load(parsedFlags(t, "--signature-algorithm", "MD5withRSA"))
	assert.ErrorIs(t, err, ErrInvalidCryptoConfigs)
}

// TestLoadPeer verifies that the peer view ignores host-only sections.
func TestLoadPeer(t *testing.T) {
	t.Setenv("PONG_CRYPTO_SIGNATURE_ALGORITHM", "MD5withRSA")

	cfg, err := LoadPeer(parsedFlags(t, "-a", "127.0.0.1:6000", "--hash-key", "k"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6000", cfg.Transport.Address)
	assert.Equal(t, "k", cfg.Transport.HashKey)
	assert.Equal(t, 5*time.Second, cfg.Transport.RequestTimeout)
}
