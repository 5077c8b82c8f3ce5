// Package catalog loads subscription catalogs and reduces them to canonical
// titles ready for matching.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/crosspass/internal/normalize"
)

// Source identifies a subscription catalog.
type Source string

const (
	PlayStation Source = "playstation"
	Xbox        Source = "xbox"
)

// Sources lists every supported catalog.
var Sources = []Source{PlayStation, Xbox}

// ParseSource resolves a user supplied catalog name.
func ParseSource(name string) (Source, error) {
	for _, s := range Sources {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown catalog %q (want playstation or xbox)", name)
}

// Label is the short human name used in reports.
func (s Source) Label() string {
	switch s {
	case PlayStation:
		return "PS5"
	case Xbox:
		return "Xbox"
	default:
		return string(s)
	}
}

// Catalog is an ordered list of canonical titles from one source.
type Catalog struct {
	Source Source   `json:"source"`
	Titles []string `json:"titles"`
}

// Len returns the number of titles.
func (c Catalog) Len() int {
	return len(c.Titles)
}

// Fetcher returns the raw titles of one catalog, in vendor order.
type Fetcher interface {
	FetchTitles(ctx context.Context) ([]string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]string, error)

// FetchTitles calls f.
func (f FetcherFunc) FetchTitles(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Load fetches source through fetcher and normalizes every title. Titles that
// are nothing but decoration are dropped. A nil normalizer uses the built-in
// rule table.
func Load(ctx context.Context, source Source, fetcher Fetcher, n *normalize.Normalizer) (Catalog, error) {
	if n == nil {
		n = normalize.New()
	}

	raw, err := fetcher.FetchTitles(ctx)
	if err != nil {
		return Catalog{Source: source}, fmt.Errorf("failed to load %s catalog: %w", source, err)
	}

	canonical := n.NormalizeAll(raw)
	titles := make([]string, 0, len(canonical))
	for i, title := range canonical {
		if title == "" {
			slog.Debug("Dropping title with no name left after normalization", "source", source, "title", raw[i])
			continue
		}
		titles = append(titles, title)
	}

	slog.Info("Loaded catalog", "source", source, "titles", len(titles), "dropped", len(raw)-len(titles))
	return Catalog{Source: source, Titles: titles}, nil
}
