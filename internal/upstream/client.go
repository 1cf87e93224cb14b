// Package upstream is the REST client for the POS backend.
//
// The core calls the upstream opportunistically: every transport failure or
// non-2xx response is collapsed into ErrUnavailable, and the caches and sync
// engine decide what "unavailable" means (fall back, stay queued). The
// client never retries on its own - retry policy belongs to reconciliation.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tillware/tillsync/internal/record"
	"github.com/tillware/tillsync/internal/respcache"
)

// ErrUnavailable is returned for every transport failure and non-2xx
// response. The sync boundary swallows it; callers must not see network
// detail beyond "the upstream could not be reached right now".
var ErrUnavailable = errors.New("upstream unavailable")

// IsUnavailable reports whether err is an upstream availability failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// TokenSource abstracts the auth collaborator. The core never inspects
// token contents; it only forwards the bearer string.
type TokenSource interface {
	CurrentToken() string
	IsAuthenticated() bool
}

// StaticTokenSource wraps a fixed token string (CLI flag, tests).
type StaticTokenSource string

// CurrentToken returns the wrapped token.
func (s StaticTokenSource) CurrentToken() string { return string(s) }

// IsAuthenticated reports whether a non-empty token is present.
func (s StaticTokenSource) IsAuthenticated() bool { return s != "" }

// DefaultRequestTimeout bounds a single upstream call.
const DefaultRequestTimeout = 10 * time.Second

// Client calls the upstream REST endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	respCache  *respcache.Cache // optional write-through cache for GET bodies
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests, custom TLS).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithResponseCache makes the client write successful GET bodies through
// the given on-disk response cache.
func WithResponseCache(rc *respcache.Cache) Option {
	return func(c *Client) { c.respCache = rc }
}

// New creates a client for the given base URL, e.g. "https://pos.example.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchLocations retrieves the purchasable POS locations.
func (c *Client) FetchLocations(ctx context.Context, token string) ([]record.Location, error) {
	body, err := c.get(ctx, "/api/pos-locations", token)
	if err != nil {
		return nil, err
	}

	var locs []record.Location
	if err := json.Unmarshal(body, &locs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return locs, nil
}

// FetchCatalog retrieves the settings/catalog payload for a location.
func (c *Client) FetchCatalog(ctx context.Context, locationID, token string) (record.Catalog, error) {
	path := "/api/catalog?locationId=" + url.QueryEscape(locationID)
	body, err := c.get(ctx, path, token)
	if err != nil {
		return record.Catalog{}, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return record.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return record.Catalog{LocationID: locationID, Payload: payload}, nil
}

// PostTransaction delivers a completed transaction.
// The upstream deduplicates on transaction id, so redelivery after an
// interrupted reconcile pass is harmless.
func (c *Client) PostTransaction(ctx context.Context, tx record.Transaction, token string) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transactions", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post transaction: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: post transaction: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// get performs an authorized GET and returns the body on any 2xx.
func (c *Client) get(ctx context.Context, path, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: get %s: status %d", ErrUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}

	if c.respCache != nil {
		if err := c.respCache.Put(path, body); err != nil {
			// A failed cache write must never fail the fetch.
			slog.Warn("response cache write failed", "path", path, "error", err)
		}
	}

	return body, nil
}

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
