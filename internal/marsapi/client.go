// Package marsapi is the HTTP client for the Mars real-estate listings service.
package marsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/marsestate/internal/listing"
)

// DefaultBaseURL is the public listings service.
const DefaultBaseURL = "https://android-kotlin-fun-mars-server.appspot.com"

const (
	realEstatePath = "/realestate"
	maxBodyBytes   = 8 << 20
	defaultTimeout = 15 * time.Second
)

// Client fetches listings over HTTP. Every failure is a *listing.FetchError.
type Client struct {
	base      string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	log       zerolog.Logger
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. for tests. The client
// is copied, so WithTimeout never changes the caller's value, and its own
// Timeout is kept unless WithTimeout is given.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = strings.TrimSpace(ua) }
}

func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

func New(base string, opts ...ClientOption) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		base: base,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	h := http.Client{Timeout: defaultTimeout}
	if c.http != nil {
		h = *c.http
	}
	if c.timeout > 0 {
		h.Timeout = c.timeout
	}
	c.http = &h
	return c
}

// Fetch returns the listings matching filter.
func (c *Client) Fetch(ctx context.Context, filter listing.Filter) ([]listing.Listing, error) {
	items, err := c.fetch(ctx, filter)
	if err != nil {
		return nil, listing.NewFetchError(filter, err)
	}
	return items, nil
}

func (c *Client) fetch(ctx context.Context, filter listing.Filter) ([]listing.Listing, error) {
	u := c.base + realEstatePath + "?" + url.Values{"filter": {filter.Value()}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("url", u).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("listings response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out []listing.Listing
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	if out == nil {
		out = []listing.Listing{}
	}
	return out, nil
}
