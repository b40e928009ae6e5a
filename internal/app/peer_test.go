package app

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/internal/transport"
	"github.com/MKhiriev/go-pong-guard/models"
)

func peerConfig(address string) *config.PeerConfig {
	return &config.PeerConfig{
		Transport: config.Transport{
			Address:        address,
			PollInterval:   10 * time.Millisecond,
			RequestTimeout: time.Second,
			HashKey:        "pong-shared-key",
		},
	}
}

func TestPeer_ShowsHostOutcome(t *testing.T) {
	srv := transport.NewServer(transport.ServerConfig{HashKey: "pong-shared-key"}, "host-1", nil)
	ts := httptest.NewServer(srv.Init())
	defer ts.Close()
	require.NoError(t, srv.Announce(context.Background(), models.Outcome{Finished: true, Winner: models.Player1}))

	ui := &fakeUI{}
	p, err := NewPeer(peerConfig(ts.URL), ui, nil)
	require.NoError(t, err)

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{models.Player1 + session.MsgGameOverSuffix + "\n" + session.MsgThanksForPlaying}, ui.messages)
	assert.Empty(t, ui.prompts)
}

func TestPeer_CanceledWhileWaiting(t *testing.T) {
	srv := transport.NewServer(transport.ServerConfig{HashKey: "pong-shared-key"}, "host-1", nil)
	ts := httptest.NewServer(srv.Init())
	defer ts.Close()

	p, err := NewPeer(peerConfig(ts.URL), &fakeUI{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Run(ctx), context.DeadlineExceeded)
}

func TestNewPeer_Validation(t *testing.T) {
	_, err := NewPeer(nil, &fakeUI{}, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = NewPeer(peerConfig("localhost:1"), nil, nil)
	assert.ErrorIs(t, err, session.ErrMissingDependency)
}

func TestHostAndPeer(t *testing.T) {
	address := freeAddress(t)

	hostCfg := testConfig(t)
	hostCfg.Transport.Address = address
	hostCfg.Transport.PollInterval = 200 * time.Millisecond

	hostUI := &fakeUI{
		passwords: []string{testPassword, testPassword},
		events:    []session.Event{{Kind: session.EventGameOver, Winner: models.Player2}},
	}
	host, err := NewHost(hostCfg, hostUI, nil)
	require.NoError(t, err)

	peerUI := &fakeUI{}
	peer, err := NewPeer(peerConfig(address), peerUI, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	var peerErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		peerErr = peer.Run(ctx)
	}()

	require.NoError(t, host.Run(ctx))
	wg.Wait()

	require.NoError(t, peerErr)
	assert.Equal(t, []string{models.Player2 + session.MsgGameOverSuffix + "\n" + session.MsgThanksForPlaying}, peerUI.messages)
	assert.Contains(t, hostUI.messages, models.Player2+session.MsgGameOverSuffix)
}

func TestLauncher_RunsChosenRole(t *testing.T) {
	t.Run("host", func(t *testing.T) {
		cfg := testConfig(t)
		ui := &fakeUI{
			role:      session.RoleHost,
			passwords: []string{testPassword, testPassword},
			events:    []session.Event{{Kind: session.EventExit}},
		}
		l, err := NewLauncher(cfg, ui, nil)
		require.NoError(t, err)

		require.NoError(t, l.Run(context.Background()))
		assert.FileExists(t, cfg.Files.Signature)
	})

	t.Run("peer", func(t *testing.T) {
		srv := transport.NewServer(transport.ServerConfig{HashKey: "pong-shared-key"}, "host-1", nil)
		ts := httptest.NewServer(srv.Init())
		defer ts.Close()
		require.NoError(t, srv.Announce(context.Background(), models.Outcome{Finished: true}))

		cfg := testConfig(t)
		cfg.Transport.Address = ts.URL
		ui := &fakeUI{role: session.RolePeer}
		l, err := NewLauncher(cfg, ui, nil)
		require.NoError(t, err)

		require.NoError(t, l.Run(context.Background()))
		assert.Equal(t, []string{session.MsgThanksForPlaying}, ui.messages)
		assert.NoFileExists(t, cfg.Vault.Path)
	})

	t.Run("unknown role", func(t *testing.T) {
		l, err := NewLauncher(testConfig(t), &fakeUI{role: session.Role(7)}, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, l.Run(context.Background()), session.ErrUnknownRole)
	})
}
