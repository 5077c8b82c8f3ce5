package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	cperrors "github.com/lepinkainen/crosspass/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type flakyDoer struct {
	calls    int
	failures int
}

func (f *flakyDoer) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &url.Error{Op: "Get", URL: req.URL.String(), Err: timeoutError{}}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"status":"ok"}`)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestGetJSONRetriesOnTimeout(t *testing.T) {
	doer := &flakyDoer{failures: 1}
	client := New("test", WithHTTPClient(doer), WithRetryAttempts(2))
	client.sleep = noSleep

	var payload map[string]string
	require.NoError(t, client.GetJSON(context.Background(), "http://example.test/", &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, 2, doer.calls)
}

func TestGetJSONGivesUpAfterRetries(t *testing.T) {
	doer := &flakyDoer{failures: 5}
	client := New("test", WithHTTPClient(doer), WithRetryAttempts(3))
	client.sleep = noSleep

	var payload map[string]string
	err := client.GetJSON(context.Background(), "http://example.test/", &payload)
	require.Error(t, err)
	assert.Equal(t, 3, doer.calls)
	assert.Contains(t, err.Error(), "test: GET http://example.test/")
}

func TestGetJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	}))
	defer server.Close()

	client := New("playstation", WithHTTPClient(server.Client()))

	var payload map[string]any
	err := client.GetJSON(context.Background(), server.URL, &payload)
	require.Error(t, err)
	assert.True(t, cperrors.IsStatusError(err))
	assert.Contains(t, err.Error(), "unexpected status 500: oops")
}

func TestGetJSONRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New("rawg", WithHTTPClient(server.Client()))

	var payload map[string]any
	err := client.GetJSON(context.Background(), server.URL, &payload)
	require.Error(t, err)
	require.True(t, cperrors.IsRateLimitError(err))

	var rlErr *cperrors.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 30*time.Second, rlErr.RetryAfter)
}

func TestGetJSONSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "crosspass-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[1,2,3]`))
	}))
	defer server.Close()

	client := New("xbox", WithHTTPClient(server.Client()), WithUserAgent("crosspass-test"))

	var payload []int
	require.NoError(t, client.GetJSON(context.Background(), server.URL, &payload))
	assert.Equal(t, []int{1, 2, 3}, payload)
}

func TestGetJSONInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := New("xbox", WithHTTPClient(server.Client()))

	var payload map[string]any
	err := client.GetJSON(context.Background(), server.URL, &payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse xbox response")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&url.Error{Err: timeoutError{}}))
	assert.True(t, isRetryable(&url.Error{Err: errors.New("connection reset by peer")}))
	assert.False(t, isRetryable(&url.Error{Err: errors.New("bad request")}))
	assert.False(t, isRetryable(cperrors.NewStatusError("xbox", 500, "")))
}

func TestBackoffDelayCaps(t *testing.T) {
	assert.Equal(t, 1*time.Second, backoffDelay(1))
	assert.Equal(t, 2*time.Second, backoffDelay(2))
	assert.Equal(t, 10*time.Second, backoffDelay(5))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, 5*time.Second, parseRetryAfter("5"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("whenever"))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://api.rawg.io/api/games?key=REDACTED&search=hades",
		redact("https://api.rawg.io/api/games?key=secret&search=hades"))
	assert.Equal(t, "https://example.test/list?id=1", redact("https://example.test/list?id=1"))
}
