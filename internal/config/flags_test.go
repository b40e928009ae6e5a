package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 55555},
			expected: "localhost:55555",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "127.0.0.1", Port: 9090},
			expected: "127.0.0.1:9090",
		},
		{
			name:     "only port no host",
			addr:     NetAddress{Host: "", Port: 8080},
			expected: ":8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		want        NetAddress
	}{
		{name: "localhost", input: "localhost:55555", want: NetAddress{Host: "localhost", Port: 55555}},
		{name: "ipv4", input: "192.168.1.10:8080", want: NetAddress{Host: "192.168.1.10", Port: 8080}},
		{name: "all interfaces", input: ":8080", want: NetAddress{Port: 8080}},
		{name: "missing port", input: "localhost", expectError: true},
		{name: "port not a number", input: "localhost:http", expectError: true},
		{name: "port zero", input: "localhost:0", expectError: true},
		{name: "port too large", input: "localhost:70000", expectError: true},
		{name: "hostname", input: "example.com:80", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, NetAddress{}, addr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, addr)
		})
	}
}

func TestNetAddress_Type(t *testing.T) {
	var addr NetAddress
	var _ pflag.Value = &addr
	assert.Equal(t, "host:port", addr.Type())
}

func TestBindFlags_AllFlags(t *testing.T) {
	flags := parsedFlags(t,
		"--address", "127.0.0.1:6000",
		"--config", "/etc/pong.json",
		"--vault", "v.pgv",
		"--keygen-command", "/usr/bin/pongguard",
		"--artifact", "pong.bin",
		"--signature", "pong.sig",
		"--nonce", "nonce",
		"--save-file", "game.sav",
		"--digest", "SHA-512",
		"--signature-algorithm", "Ed25519",
		"--cipher", "ChaCha20-Poly1305",
		"--key-bits", "256",
		"--hash-key", "k",
		"--poll-interval", "2s",
		"--journal", "off",
		"--winning-score", "5",
		"--log-file", "pong.log",
		"--log-level", "debug",
	)

	cfg := flags.config()
	assert.Equal(t, "127.0.0.1:6000", cfg.Transport.Address)
	assert.Equal(t, "/etc/pong.json", cfg.JSONFilePath)
	assert.Equal(t, "v.pgv", cfg.Vault.Path)
	assert.Equal(t, "/usr/bin/pongguard", cfg.Vault.KeyGenCommand)
	assert.Equal(t, Files{
		Artifact:           "pong.bin",
		Signature:          "pong.sig",
		Nonce:              "nonce",
		SaveState:          "game.sav",
		EncryptedSaveState: "game.sav.enc",
	}, cfg.Files)
	assert.Equal(t, "SHA-512", cfg.Crypto.DigestAlgorithm)
	assert.Equal(t, "Ed25519", cfg.Crypto.SignatureAlgorithm)
	assert.Equal(t, "ChaCha20-Poly1305", cfg.Crypto.CipherAlgorithm)
	assert.Equal(t, 256, cfg.Crypto.KeyBits)
	assert.Equal(t, "k", cfg.Transport.HashKey)
	assert.Equal(t, 2*time.Second, cfg.Transport.PollInterval)
	assert.Equal(t, JournalDisabled, cfg.Journal.DSN)
	assert.Equal(t, 5, cfg.Game.WinningScore)
	assert.Equal(t, Log{File: "pong.log", Level: "debug"}, cfg.Log)
}

func TestBindFlags_NothingGiven(t *testing.T) {
	cfg := parsedFlags(t).config()
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBindFlags_ShortNames(t *testing.T) {
	cfg := parsedFlags(t, "-a", "localhost:7000", "-c", "c.json").config()
	assert.Equal(t, "localhost:7000", cfg.Transport.Address)
	assert.Equal(t, "c.json", cfg.JSONFilePath)
}

func TestBindFlags_BadAddress(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	assert.Error(t, fs.Parse([]string{"--address", "nowhere"}))
}
