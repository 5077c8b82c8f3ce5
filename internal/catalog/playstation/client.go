// Package playstation reads the PlayStation Plus games list.
package playstation

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/crosspass/internal/cache"
	"github.com/lepinkainen/crosspass/internal/config"
	cperrors "github.com/lepinkainen/crosspass/internal/errors"
	"github.com/lepinkainen/crosspass/internal/fetch"
	"github.com/lepinkainen/crosspass/internal/ratelimit"
)

const (
	serviceName          = "playstation"
	defaultRatePerSecond = 2
	ps5Device            = "PS5"
)

// Client fetches the PS5 titles of the PlayStation Plus catalog.
type Client struct {
	url  string
	http *fetch.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithURL overrides the games list endpoint.
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
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

// NewClient returns a client for the configured endpoint.
func NewClient(opts ...Option) *Client {
	url := config.PlayStationURL
	if url == "" {
		url = config.DefaultPlayStationURL
	}

	c := &Client{
		url:  url,
		http: fetch.New(serviceName, fetch.WithRateLimiter(ratelimit.New("PlayStation", defaultRatePerSecond))),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the games list endpoint.
func (c *Client) URL() string {
	return c.url
}

// FetchTitles downloads the games list, using the cache when possible, and
// returns the raw names of the PS5 games.
func (c *Client) FetchTitles(ctx context.Context) ([]string, error) {
	categories, fromCache, err := cache.GetOrFetchWithPolicy(cache.PlayStationTable, c.url, func() ([]Category, error) {
		var categories []Category
		if err := c.http.GetJSON(ctx, c.url, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	}, func(categories []Category) bool {
		if len(categories) == 0 {
			return false
		}
		_, err := ExtractPS5Titles(categories)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("PlayStation catalog payload", "categories", len(categories), "cached", fromCache)
	return ExtractPS5Titles(categories)
}

// ExtractPS5Titles returns the names of every game whose device list
// includes PS5, in payload order. A game listed in several categories
// appears once per category.
func ExtractPS5Titles(categories []Category) ([]string, error) {
	titles := []string{}
	for i, category := range categories {
		if category.Games == nil {
			return nil, cperrors.NewPayloadError(serviceName, "games", i)
		}
		for _, game := range category.Games {
			if game.Device.Has(ps5Device) {
				titles = append(titles, game.Name)
			}
		}
	}
	return titles, nil
}
