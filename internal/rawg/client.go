// Package rawg looks games up on rawg.io.
package rawg

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lepinkainen/crosspass/internal/cache"
	"github.com/lepinkainen/crosspass/internal/config"
	"github.com/lepinkainen/crosspass/internal/fetch"
	"github.com/lepinkainen/crosspass/internal/ratelimit"
)

const (
	serviceName          = "rawg"
	defaultRatePerSecond = 5
	defaultPageSize      = 1
	maxPageSize          = 40
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("RAWG API key not configured (set rawg.apikey in config.yaml or RAWG_API_KEY)")

// Client is a RAWG API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *fetch.Client
	quota   quota
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom games endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithFetchClient replaces the HTTP layer, mainly for tests.
func WithFetchClient(f *fetch.Client) Option {
	return func(c *Client) {
		if f != nil {
			c.http = f
		}
	}
}

// NewClient creates a new RAWG client.
func NewClient(apiKey string, opts ...Option) *Client {
	base := config.RAWGURL
	if base == "" {
		base = config.DefaultRAWGURL
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: base,
		http:    fetch.New(serviceName, fetch.WithRateLimiter(ratelimit.New("RAWG", defaultRatePerSecond))),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to pageSize games matching name, best match first.
// Empty answers are not cached so a later run can pick up new entries.
// Once RAWG has answered 429, later searches that miss the cache fail
// fast with a RateLimitError.
func (c *Client) Search(ctx context.Context, name string, pageSize int) ([]Game, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return []Game{}, nil
	}
	pageSize = clampPageSize(pageSize)

	cacheKey := fmt.Sprintf("search:%s:%d", strings.ToLower(name), pageSize)
	games, _, err := cache.GetOrFetchWithPolicy(cache.RAWGTable, cacheKey, func() ([]Game, error) {
		if err := c.quota.check(); err != nil {
			return nil, err
		}
		return c.search(ctx, name, pageSize)
	}, func(games []Game) bool {
		return len(games) > 0
	})
	if err != nil {
		c.quota.observe(err)
		return nil, err
	}
	return games, nil
}

// Top returns the best match for name. ok is false when nothing matched.
func (c *Client) Top(ctx context.Context, name string) (Game, bool, error) {
	games, err := c.Search(ctx, name, defaultPageSize)
	if err != nil || len(games) == 0 {
		return Game{}, false, err
	}
	return games[0], true, nil
}

func (c *Client) search(ctx context.Context, name string, pageSize int) ([]Game, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("search", name)
	params.Set("page_size", strconv.Itoa(pageSize))

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	games := make([]Game, 0, len(resp.Results))
	for _, r := range resp.Results {
		games = append(games, r.toGame())
	}
	return games, nil
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	return min(size, maxPageSize)
}
