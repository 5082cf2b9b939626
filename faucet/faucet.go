// Package faucet requests test tokens from a CosmJS-compatible faucet.
package faucet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single credit request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4 << 10

// Client talks to a faucet's /credit endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a faucet Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// New returns a faucet client for baseURL, e.g. https://faucet.oysternet.cosmwasm.com.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("faucet url is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("faucet url %q must be http(s)", baseURL)
	}
	c := &Client{baseURL: baseURL, http: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type creditRequest struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
}

// Credit asks the faucet to send denom tokens to address. It returns once
// the faucet accepted the request; the credit tx itself is not awaited.
func (c *Client) Credit(ctx context.Context, address, denom string) error {
	if address == "" || denom == "" {
		return fmt.Errorf("address and denom are required")
	}
	body, err := json.Marshal(creditRequest{Address: address, Denom: denom})
	if err != nil {
		return fmt.Errorf("encode credit request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/credit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build credit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("credit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Error is a non-200 faucet reply.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("faucet responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("faucet responded with status %d: %s", e.StatusCode, e.Body)
}
