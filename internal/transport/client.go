package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/utils"
	"github.com/MKhiriev/go-pong-guard/models"
)

// ClientConfig configures [Client].
type ClientConfig struct {
	BaseURL      string
	HashKey      string
	PollInterval time.Duration
	Timeout      time.Duration
}

// Client polls a host for the session outcome.
type Client struct {
	client   *resty.Client
	hasher   *utils.Hasher
	interval time.Duration
	logger   *logger.Logger
}

// NewClient returns a Client for the host at cfg.BaseURL. A bare host:port
// is accepted and treated as http.
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:55555"
	}
	if !strings.Contains(cfg.BaseURL, "://") {
		cfg.BaseURL = "http://" + cfg.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{
		client:   cli,
		hasher:   utils.NewHasher(cfg.HashKey),
		interval: cfg.PollInterval,
		logger:   log,
	}
}

// Ping checks that the host is serving.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get(pingRoute)
	if err != nil {
		return fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: ping status %d", ErrUnavailable, resp.StatusCode())
	}
	return nil
}

// Fetch returns the outcome currently published by the host after checking
// its HMAC.
func (c *Client) Fetch(ctx context.Context) (models.Outcome, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(outcomeRoute)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%w: outcome request: %w", ErrUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.Outcome{}, fmt.Errorf("%w: outcome status %d", ErrUnavailable, resp.StatusCode())
	}

	body := resp.Body()
	if !c.hasher.Verify(body, resp.Header().Get(HashHeader)) {
		return models.Outcome{}, ErrIntegrity
	}

	var outcome models.Outcome
	if err = json.Unmarshal(body, &outcome); err != nil {
		return models.Outcome{}, fmt.Errorf("%w: decode outcome: %w", ErrIntegrity, err)
	}
	return outcome, nil
}

// WaitOutcome polls until the host reports a finished session or ctx is
// done. Unreachable hosts are retried; integrity failures are returned at
// once.
func (c *Client) WaitOutcome(ctx context.Context) (models.Outcome, error) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		outcome, err := c.Fetch(ctx)
		switch {
		case err == nil && outcome.Finished:
			return outcome, nil
		case err == nil:
			c.logger.Debug().Str("session_id", outcome.SessionID).Msg("session still running")
		case ctx.Err() != nil:
			return models.Outcome{}, ctx.Err()
		case errors.Is(err, ErrIntegrity):
			c.logger.Error().Err(err).Msg("outcome rejected")
			return models.Outcome{}, err
		default:
			c.logger.Debug().Err(err).Msg("host not reachable yet")
		}

		select {
		case <-ctx.Done():
			return models.Outcome{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
