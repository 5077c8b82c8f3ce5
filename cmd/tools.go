package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/crosspass/internal/catalog"
	"github.com/lepinkainen/crosspass/internal/catalog/playstation"
	"github.com/lepinkainen/crosspass/internal/catalog/xbox"
	"github.com/lepinkainen/crosspass/internal/config"
	"github.com/lepinkainen/crosspass/internal/match"
	"github.com/lepinkainen/crosspass/internal/normalize"
	"github.com/lepinkainen/crosspass/internal/rawg"
)

type gameSearcher interface {
	Search(ctx context.Context, name string, pageSize int) ([]rawg.Game, error)
}

var (
	newCatalogFetcher = func(source catalog.Source) catalog.Fetcher {
		if source == catalog.Xbox {
			return xbox.NewClient()
		}
		return playstation.NewClient()
	}
	newSearcher = func(apiKey string) gameSearcher { return rawg.NewClient(apiKey) }
)

func (c *CatalogCmd) Run(ctx context.Context) error {
	source, err := catalog.ParseSource(c.Source)
	if err != nil {
		return err
	}
	fetcher := newCatalogFetcher(source)

	var titles []string
	if c.Raw {
		titles, err = fetcher.FetchTitles(ctx)
	} else {
		var loaded catalog.Catalog
		loaded, err = catalog.Load(ctx, source, fetcher, normalize.New(config.ExtraDecorations...))
		titles = loaded.Titles
	}
	if err != nil {
		return err
	}

	for _, title := range titles {
		if _, err := fmt.Fprintln(stdout, title); err != nil {
			return err
		}
	}
	return nil
}

func (n *NormalizeCmd) Run() error {
	normalizer := normalize.New(config.ExtraDecorations...)

	if n.Rules {
		for i, rule := range normalizer.Decorations() {
			fmt.Fprintf(stdout, "%2d. %q\n", i+1, rule)
		}
		return nil
	}
	if len(n.Titles) == 0 {
		return fmt.Errorf("at least one title is required (or use --rules)")
	}

	for _, title := range n.Titles {
		fmt.Fprintf(stdout, "%q -> %q\n", title, normalizer.Normalize(title))
	}
	return nil
}

func (s *ScoreCmd) Run() error {
	_, err := fmt.Fprintf(stdout, "%d\n", match.Score(s.A, s.B))
	return err
}

func (l *LookupCmd) Run(ctx context.Context) error {
	if config.RAWGAPIKey == "" {
		return rawg.ErrMissingAPIKey
	}

	games, err := newSearcher(config.RAWGAPIKey).Search(ctx, l.Name, l.Limit)
	if err != nil {
		return fmt.Errorf("failed to search rawg.io: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintf(stdout, "No games found for %q\n", l.Name)
		return nil
	}

	for _, g := range games {
		line := fmt.Sprintf("%d\t%s", g.ID, g.Name)
		if g.Released != "" {
			line += "\t" + g.Released
		}
		if g.Metacritic > 0 {
			line += fmt.Sprintf("\tmetacritic %d", g.Metacritic)
		}
		if len(g.Platforms) > 0 {
			line += "\t" + strings.Join(g.Platforms, ", ")
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}
