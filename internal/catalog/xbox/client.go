// Package xbox reads the Xbox Game Pass catalog. The catalog is published
// as a list of product ids which are then resolved to titles through the
// Microsoft display catalog in batches.
package xbox

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lepinkainen/crosspass/internal/cache"
	"github.com/lepinkainen/crosspass/internal/config"
	cperrors "github.com/lepinkainen/crosspass/internal/errors"
	"github.com/lepinkainen/crosspass/internal/fetch"
	"github.com/lepinkainen/crosspass/internal/ratelimit"
)

const (
	serviceName          = "xbox"
	defaultRatePerSecond = 4
)

// Client fetches the Game Pass titles.
type Client struct {
	siglsURL    string
	productsURL string
	market      string
	language    string
	batchSize   int
	http        *fetch.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithSiglsURL overrides the product id list endpoint. Language and market
// are appended to it.
func WithSiglsURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.siglsURL = u
		}
	}
}

// WithProductsURL overrides the display catalog endpoint.
func WithProductsURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.productsURL = u
		}
	}
}

// WithMarket sets the market and language, e.g. "CA" and "en-ca".
func WithMarket(market, language string) Option {
	return func(c *Client) {
		if market != "" {
			c.market = market
		}
		if language != "" {
			c.language = language
		}
	}
}

// WithBatchSize caps the number of ids per display catalog request.
func WithBatchSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.batchSize = size
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

// NewClient returns a client configured from the config package.
func NewClient(opts ...Option) *Client {
	c := &Client{
		siglsURL:    orDefault(config.XboxSiglsURL, config.DefaultXboxSiglsURL),
		productsURL: orDefault(config.XboxProductsURL, config.DefaultXboxProductsURL),
		market:      orDefault(config.XboxMarket, config.DefaultXboxMarket),
		language:    orDefault(config.XboxLanguage, config.DefaultXboxLanguage),
		batchSize:   config.XboxBatchSize,
		http:        fetch.New(serviceName, fetch.WithRateLimiter(ratelimit.New("Xbox", defaultRatePerSecond))),
	}
	if c.batchSize <= 0 {
		c.batchSize = config.DefaultXboxBatchSize
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SiglsURL returns the product id list endpoint for the client's market.
func (c *Client) SiglsURL() string {
	return withQuery(c.siglsURL, "language="+url.QueryEscape(c.language)+"&market="+url.QueryEscape(c.market))
}

// FetchTitles resolves the whole Game Pass catalog to raw product titles, in
// catalog order.
func (c *Client) FetchTitles(ctx context.Context) ([]string, error) {
	ids, err := c.fetchIDs(ctx)
	if err != nil {
		return nil, err
	}

	titles := []string{}
	for i, batch := range Batches(ids, c.batchSize) {
		endpoint := BuildProductsURL(c.productsURL, batch, c.market, c.language)
		products, fromCache, err := cache.GetOrFetchWithPolicy(cache.XboxTable, endpoint, func() (ProductsResponse, error) {
			var products ProductsResponse
			err := c.http.GetJSON(ctx, endpoint, &products)
			return products, err
		}, func(products ProductsResponse) bool {
			_, err := ExtractTitles(products)
			return err == nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product batch %d: %w", i+1, err)
		}

		batchTitles, err := ExtractTitles(products)
		if err != nil {
			return nil, err
		}
		slog.Debug("Resolved Xbox product batch", "batch", i+1, "ids", len(batch), "titles", len(batchTitles), "cached", fromCache)
		titles = append(titles, batchTitles...)
	}
	return titles, nil
}

func (c *Client) fetchIDs(ctx context.Context) ([]string, error) {
	endpoint := c.SiglsURL()
	entries, fromCache, err := cache.GetOrFetchWithPolicy(cache.XboxTable, endpoint, func() ([]SiglsEntry, error) {
		var entries []SiglsEntry
		err := c.http.GetJSON(ctx, endpoint, &entries)
		return entries, err
	}, func(entries []SiglsEntry) bool {
		return len(entries) > 1
	})
	if err != nil {
		return nil, err
	}

	ids := ExtractIDs(entries)
	slog.Debug("Xbox product ids", "ids", len(ids), "cached", fromCache)
	return ids, nil
}

// ExtractIDs returns the product ids of the sigls list in order. The header
// element is skipped, as is any entry without an id.
func ExtractIDs(entries []SiglsEntry) []string {
	ids := []string{}
	if len(entries) < 2 {
		return ids
	}
	for i, entry := range entries[1:] {
		if entry.ID == "" {
			slog.Debug("Skipping sigls entry without id", "index", i+1)
			continue
		}
		ids = append(ids, entry.ID)
	}
	return ids
}

// ExtractTitles flattens every localized title of every product, in order.
func ExtractTitles(products ProductsResponse) ([]string, error) {
	if products.Products == nil {
		return nil, cperrors.NewPayloadError(serviceName, "Products", -1)
	}

	titles := []string{}
	for i, product := range products.Products {
		if product.LocalizedProperties == nil {
			return nil, cperrors.NewPayloadError(serviceName, "LocalizedProperties", i)
		}
		for _, prop := range product.LocalizedProperties {
			titles = append(titles, prop.ProductTitle)
		}
	}
	return titles, nil
}

// BuildProductsURL returns the display catalog request for ids. The ids are
// joined with literal commas.
func BuildProductsURL(base string, ids []string, market, language string) string {
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = url.QueryEscape(id)
	}

	query := "bigIds=" + strings.Join(escaped, ",") +
		"&market=" + url.QueryEscape(market) +
		"&languages=" + url.QueryEscape(language)
	return withQuery(base, query)
}

// Batches splits ids into consecutive chunks of at most size ids.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = len(ids)
	}
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}

func withQuery(base, query string) string {
	if strings.Contains(base, "?") {
		return base + "&" + query
	}
	return base + "?" + query
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
