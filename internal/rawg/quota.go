package rawg

import (
	"log/slog"
	"sync/atomic"

	cperrors "github.com/lepinkainen/crosspass/internal/errors"
)

// quota remembers that RAWG answered 429 so the rest of the run stops
// spending requests on it.
type quota struct {
	exhausted atomic.Bool
}

// markExhausted logs a warning on the first call; later calls are no-ops.
func (q *quota) markExhausted() {
	if q.exhausted.CompareAndSwap(false, true) {
		slog.Warn("RAWG API rate limit reached; skipping further RAWG requests for this run")
	}
}

func (q *quota) allowed() bool {
	return !q.exhausted.Load()
}

func (q *quota) check() error {
	if !q.allowed() {
		return cperrors.NewRateLimitError("RAWG API request limit reached")
	}
	return nil
}

func (q *quota) observe(err error) {
	if cperrors.IsRateLimitError(err) {
		q.markExhausted()
	}
}
