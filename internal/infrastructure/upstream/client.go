// Package upstream is the gateway's HTTP client for the user and post
// services. Each backend gets its own circuit breaker.
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

const (
	defaultTimeout  = 5 * time.Second
	maxResponseBody = 4 << 20
)

// Config describes one backend.
type Config struct {
	Name    string
	BaseURL string
	Timeout time.Duration
	// OnStateChange is called after the breaker changes state. Optional.
	OnStateChange func(name string, from, to gobreaker.State)
}

// Client relays requests to a single backend through a circuit breaker.
type Client struct {
	name    string
	baseURL string
	timeout time.Duration
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("upstream", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

func (c *Client) Name() string { return c.name }

// Forward sends req to the backend. An open breaker yields
// domain.ErrUpstreamUnavailable; other transport failures are returned wrapped.
func (c *Client) Forward(ctx context.Context, req *ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.do(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, c.name, err)
		}
		return nil, fmt.Errorf("%s %s %s: %w", c.name, req.Method, req.Path, err)
	}
	return res.(*ports.UpstreamResponse), nil
}

func (c *Client) do(ctx context.Context, req *ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	url := c.baseURL + req.Path
	if req.RawQuery != "" {
		url += "?" + req.RawQuery
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, err
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &ports.UpstreamResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}
