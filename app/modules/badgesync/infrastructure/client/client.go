package badgeclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	syncPath       = "/api/badges/sync"
	defaultTimeout = 30 * time.Second
)

// ErrUnexpectedStatus matches every StatusError with errors.Is.
var ErrUnexpectedStatus = errors.New("unexpected status from badge service")

// StatusError is returned when the badge service answers with anything but 200.
type StatusError struct {
	StatusCode int
	PublicKey  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("badge sync for %s returned status %d", e.PublicKey, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Client calls the badge service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each call. Zero keeps the default. The timeout is applied
// to a copy, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a badge service client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.httpClient == nil:
		timeout := c.timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	case c.timeout > 0:
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// SyncURL returns the sync endpoint for a public key.
func (c *Client) SyncURL(publicKey string) string {
	q := url.Values{}
	q.Set("publicKey", publicKey)
	return c.baseURL + syncPath + "?" + q.Encode()
}

// SyncBadges asks the badge service to re-evaluate badges for one applicant.
// A nil error means the service answered 200.
func (c *Client) SyncBadges(ctx context.Context, publicKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SyncURL(publicKey), nil)
	if err != nil {
		return fmt.Errorf("badgeclient.SyncBadges: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("badgeclient.SyncBadges: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, PublicKey: publicKey}
	}
	return nil
}
