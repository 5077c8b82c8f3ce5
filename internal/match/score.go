package match

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Scorer rates how alike two titles are on a 0..100 scale.
type Scorer func(a, b string) int

// Score is the default Scorer: a Levenshtein ratio over processed titles.
// Identical titles score 100 and Score(a, b) == Score(b, a).
func Score(a, b string) int {
	pa, pb := process(a), process(b)
	if pa == pb {
		return 100
	}

	longest := max(utf8.RuneCountInString(pa), utf8.RuneCountInString(pb))
	if longest == 0 {
		return 100
	}
	if pa == "" || pb == "" {
		return 0
	}

	d := levenshtein.ComputeDistance(pa, pb)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

// process folds case and collapses every run of non letters/digits into a
// single space.
func process(s string) string {
	folded := cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(folded))
	gap := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}
