// Package report renders the outcome of a catalog comparison.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lepinkainen/crosspass/internal/catalog"
	"github.com/lepinkainen/crosspass/internal/match"
	"github.com/lepinkainen/crosspass/internal/rawg"
	"github.com/mattn/go-isatty"
)

// Format selects how a Report is written.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatAuto, FormatTable, FormatMarkdown, FormatJSON, FormatText}

// ParseFormat resolves a user supplied format name. "md" is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "md" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q", name)
}

// CatalogSummary describes one side of the comparison.
type CatalogSummary struct {
	Source catalog.Source `json:"source"`
	Label  string         `json:"label"`
	Titles int            `json:"titles"`
}

// Match is an accepted pair, optionally enriched with RAWG details.
type Match struct {
	match.Result
	Game *rawg.Game `json:"rawg,omitempty"`
}

// Report is the outcome of one compare run.
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Threshold   int            `json:"threshold"`
	Primary     CatalogSummary `json:"primary"`
	Secondary   CatalogSummary `json:"secondary"`
	Matches     []Match        `json:"matches"`
	// Unmatched holds the primary titles without a counterpart.
	Unmatched []string `json:"unmatched"`
}

// New assembles a Report for results of matching primary against secondary.
func New(primary, secondary catalog.Catalog, results []match.Result, threshold int) Report {
	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{Result: r})
	}

	unmatched := match.Unmatched(primary.Titles, results)
	if unmatched == nil {
		unmatched = []string{}
	}

	return Report{
		GeneratedAt: time.Now().UTC(),
		Threshold:   threshold,
		Primary:     summarize(primary),
		Secondary:   summarize(secondary),
		Matches:     matches,
		Unmatched:   unmatched,
	}
}

func summarize(c catalog.Catalog) CatalogSummary {
	return CatalogSummary{Source: c.Source, Label: c.Source.Label(), Titles: c.Len()}
}

// Enriched reports whether any match carries RAWG details.
func (r Report) Enriched() bool {
	for _, m := range r.Matches {
		if m.Game != nil {
			return true
		}
	}
	return false
}

// Render writes r to w in the given format.
func Render(w io.Writer, format Format, r Report) error {
	switch Resolve(format, w) {
	case FormatTable:
		return renderTable(w, r)
	case FormatMarkdown:
		return renderMarkdown(w, r)
	case FormatJSON:
		return renderJSON(w, r)
	case FormatText:
		return renderText(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// Resolve turns FormatAuto into a concrete format: a table for terminals,
// plain text for pipes and files. Other formats are returned unchanged.
func Resolve(format Format, w io.Writer) Format {
	if format != FormatAuto && format != "" {
		return format
	}
	if isTerminal(w) {
		return FormatTable
	}
	return FormatText
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok || file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// renderText writes one line per match in the classic format.
func renderText(w io.Writer, r Report) error {
	for _, m := range r.Matches {
		if _, err := fmt.Fprintf(w, "%s Game: '%s' | %s Match: '%s' | Similarity Score: %d\n",
			r.Primary.Label, m.Source, r.Secondary.Label, m.Match, m.Score); err != nil {
			return err
		}
	}
	return nil
}
