// Package compare implements the compare command: load both catalogs,
// match them and print a report.
package compare

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/lepinkainen/crosspass/internal/catalog"
	"github.com/lepinkainen/crosspass/internal/catalog/playstation"
	"github.com/lepinkainen/crosspass/internal/catalog/xbox"
	"github.com/lepinkainen/crosspass/internal/config"
	cperrors "github.com/lepinkainen/crosspass/internal/errors"
	"github.com/lepinkainen/crosspass/internal/match"
	"github.com/lepinkainen/crosspass/internal/normalize"
	"github.com/lepinkainen/crosspass/internal/rawg"
	"github.com/lepinkainen/crosspass/internal/report"
	"golang.org/x/sync/errgroup"
)

// Options for a compare run.
type Options struct {
	Threshold int
	Format    report.Format
	// RAWG enriches every match with the top rawg.io hit.
	RAWG   bool
	Output io.Writer
}

type gameLookup interface {
	Top(ctx context.Context, name string) (rawg.Game, bool, error)
}

var (
	newPlayStation = func() catalog.Fetcher { return playstation.NewClient() }
	newXbox        = func() catalog.Fetcher { return xbox.NewClient() }
	newLookup      = func(apiKey string) gameLookup { return rawg.NewClient(apiKey) }
	newRunID       = uuid.NewString
)

// Run fetches both catalogs concurrently, matches PlayStation titles
// against Xbox titles and renders the report.
func Run(ctx context.Context, opts Options) error {
	if opts.RAWG && config.RAWGAPIKey == "" {
		return rawg.ErrMissingAPIKey
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	runID := newRunID()
	logger := slog.With("run_id", runID)
	logger.Info("Starting comparison", "threshold", opts.Threshold, "format", opts.Format)

	ps, xb, err := loadCatalogs(ctx, normalize.New(config.ExtraDecorations...))
	if err != nil {
		return err
	}

	matcher := match.New(match.WithThreshold(opts.Threshold))
	results := matcher.FindCommon(ps.Titles, xb.Titles)

	r := report.New(ps, xb, results, matcher.Threshold())
	r.RunID = runID

	if opts.RAWG {
		if err := enrich(ctx, logger, newLookup(config.RAWGAPIKey), &r); err != nil {
			return err
		}
	}

	logger.Info("Comparison complete",
		"playstation", ps.Len(),
		"xbox", xb.Len(),
		"matches", len(r.Matches),
		"playstation_only", len(r.Unmatched))

	return report.Render(out, opts.Format, r)
}

func loadCatalogs(ctx context.Context, n *normalize.Normalizer) (catalog.Catalog, catalog.Catalog, error) {
	var ps, xb catalog.Catalog

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ps, err = catalog.Load(gctx, catalog.PlayStation, newPlayStation(), n)
		return err
	})
	g.Go(func() error {
		var err error
		xb, err = catalog.Load(gctx, catalog.Xbox, newXbox(), n)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Catalog{}, catalog.Catalog{}, err
	}
	return ps, xb, nil
}

// enrich attaches RAWG details to each match. A failed lookup only costs
// that match its details; hitting the RAWG rate limit ends enrichment.
func enrich(ctx context.Context, logger *slog.Logger, lookup gameLookup, r *report.Report) error {
	found := 0
	for i := range r.Matches {
		title := r.Matches[i].Source
		game, ok, err := lookup.Top(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if cperrors.IsRateLimitError(err) {
				logger.Warn("RAWG rate limit reached, remaining matches keep no details", "remaining", len(r.Matches)-i)
				break
			}
			logger.Warn("RAWG lookup failed", "title", title, "error", err)
			continue
		}
		if !ok {
			logger.Debug("No RAWG result", "title", title)
			continue
		}
		r.Matches[i].Game = &game
		found++
	}
	logger.Info("RAWG enrichment complete", "matches", len(r.Matches), "found", found)
	return nil
}
