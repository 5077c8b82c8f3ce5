// Package match pairs titles from one catalog with their closest
// counterpart in another.
package match

// DefaultThreshold is the minimum score a pair needs to be reported.
const DefaultThreshold = 95

// Result is an accepted pairing of a title from the first catalog with its
// best counterpart in the second.
type Result struct {
	Source string `json:"source" yaml:"source"`
	Match  string `json:"match" yaml:"match"`
	Score  int    `json:"score" yaml:"score"`
}

// Matcher finds the best counterpart for titles using a Scorer and keeps
// only pairs at or above its threshold.
type Matcher struct {
	threshold int
	scorer    Scorer
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold sets the acceptance threshold, clamped to [0, 100].
func WithThreshold(threshold int) Option {
	return func(m *Matcher) {
		m.threshold = clamp(threshold)
	}
}

// WithScorer replaces the default Score function. A nil scorer is ignored.
func WithScorer(scorer Scorer) Option {
	return func(m *Matcher) {
		if scorer != nil {
			m.scorer = scorer
		}
	}
}

// New returns a Matcher with DefaultThreshold and Score unless overridden.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		threshold: DefaultThreshold,
		scorer:    Score,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the effective acceptance threshold.
func (m *Matcher) Threshold() int {
	return m.threshold
}

// FindCommon matches catalogA against catalogB with the default scorer.
func FindCommon(catalogA, catalogB []string, threshold int) []Result {
	return New(WithThreshold(threshold)).FindCommon(catalogA, catalogB)
}

// FindCommon returns at most one Result per title of catalogA, in catalogA
// order, for titles whose BestMatch in catalogB scores at least the
// threshold.
func (m *Matcher) FindCommon(catalogA, catalogB []string) []Result {
	results := []Result{}
	if len(catalogA) == 0 || len(catalogB) == 0 {
		return results
	}

	for _, a := range catalogA {
		best, ok := m.BestMatch(a, catalogB)
		if ok && best.Score >= m.threshold {
			results = append(results, best)
		}
	}
	return results
}

// BestMatch returns the highest scoring choice for query regardless of the
// threshold. A verbatim occurrence of query wins outright; otherwise the
// first choice with the top score wins. ok is false when choices is empty.
func (m *Matcher) BestMatch(query string, choices []string) (Result, bool) {
	if len(choices) == 0 {
		return Result{}, false
	}
	for _, c := range choices {
		if c == query {
			return Result{Source: query, Match: c, Score: m.scorer(query, c)}, true
		}
	}

	best := Result{Source: query, Score: -1}
	for _, c := range choices {
		// strict > keeps the first of equal scores
		if s := m.scorer(query, c); s > best.Score {
			best.Match = c
			best.Score = s
		}
	}
	return best, true
}

// Unmatched returns the titles of catalogA that have no entry in results,
// in catalogA order.
func Unmatched(catalogA []string, results []Result) []string {
	matched := make(map[string]struct{}, len(results))
	for _, r := range results {
		matched[r.Source] = struct{}{}
	}

	var out []string
	for _, a := range catalogA {
		if _, ok := matched[a]; !ok {
			out = append(out, a)
		}
	}
	return out
}

func clamp(threshold int) int {
	return min(max(threshold, 0), 100)
}
