// Package normalize strips vendor decoration from game titles so that the
// same game reads the same on both catalogs.
//
// Decoration is removed with an ordered table of literal rules. Combined
// patterns come before the shorter patterns they contain, so that
// "PS4® & PS5®" disappears as a unit instead of leaving a stray "&".
package normalize

import "strings"

// defaultDecorations is applied top to bottom. Keep longer patterns above
// any shorter pattern they contain.
var defaultDecorations = []string{
	"(PS4 & PS5)",
	"PS4® & PS5®",
	"PS4 & PS5",
	"PS4",
	"PS5",
	"PS Plus",
	"(PlayStation Plus)",
	"™",
	"®",
	"()",
	"&",
	"【For 】",
	"(Game Preview)",
	"(Xbox One)",
	"(Xbox Series X|S)",
	"Xbox Series X|S",
	"The Complete Season (Episodes 1-5)",
}

// Normalizer removes a fixed set of decoration literals from titles.
// The zero value is not usable; build one with New.
type Normalizer struct {
	decorations []string
}

var defaultNormalizer = New()

// New returns a Normalizer using the built-in table followed by extra.
// Empty extra entries are ignored.
func New(extra ...string) *Normalizer {
	decorations := make([]string, 0, len(defaultDecorations)+len(extra))
	decorations = append(decorations, defaultDecorations...)
	for _, d := range extra {
		if d != "" {
			decorations = append(decorations, d)
		}
	}
	return &Normalizer{decorations: decorations}
}

// Normalize returns the canonical form of raw using the built-in table.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize removes every decoration from raw and trims surrounding
// whitespace. The result may be empty.
//
// Removing one rule can expose another that an earlier pass already
// checked ("(&)" leaves "()"), so the table is reapplied until a pass
// changes nothing. The output therefore contains no decoration and
// Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(raw string) string {
	title := raw
	for {
		before := title
		for _, d := range n.decorations {
			title = strings.ReplaceAll(title, d, "")
		}
		if title == before {
			break
		}
	}
	return strings.TrimSpace(title)
}

// NormalizeAll normalizes every title, preserving order.
func (n *Normalizer) NormalizeAll(raw []string) []string {
	out := make([]string, len(raw))
	for i, title := range raw {
		out[i] = n.Normalize(title)
	}
	return out
}

// Decorations returns a copy of the rule table in application order.
func (n *Normalizer) Decorations() []string {
	return append([]string(nil), n.decorations...)
}

// Rules returns a copy of the built-in rule table in application order.
func Rules() []string {
	return append([]string(nil), defaultDecorations...)
}
