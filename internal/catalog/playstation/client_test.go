package playstation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/lepinkainen/crosspass/internal/cache"
	cperrors "github.com/lepinkainen/crosspass/internal/errors"
	"github.com/lepinkainen/crosspass/internal/fetch"
	"github.com/lepinkainen/crosspass/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `[
	{"category": "Category 1", "games": [
		{"name": "Game A", "device": "PS5"},
		{"name": "Game B", "device": "PS4"},
		{"name": "Game C", "device": "PS5"}
	]},
	{"category": "Category 2", "games": [
		{"name": "Game D", "device": ["PS4", "PS5"]},
		{"name": "Game E", "device": "PC"},
		{"name": "Game F", "device": ""}
	]},
	{"category": "Category 3", "games": [
		{"name": "Game G", "device": "PS4"},
		{"name": "Game H", "device": "PS4,PS5"}
	]}
]`

func TestExtractPS5Titles(t *testing.T) {
	var categories []Category
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &categories))

	titles, err := ExtractPS5Titles(categories)
	require.NoError(t, err)
	assert.Equal(t, []string{"Game A", "Game C", "Game D", "Game H"}, titles)
}

func TestExtractPS5TitlesMissingGames(t *testing.T) {
	var categories []Category
	require.NoError(t, json.Unmarshal([]byte(`[{"category":"ok","games":[]},{"category":"broken"}]`), &categories))

	_, err := ExtractPS5Titles(categories)
	require.Error(t, err)
	assert.True(t, cperrors.IsPayloadError(err))
	assert.Contains(t, err.Error(), `element 1 is missing "games"`)
}

func TestExtractPS5TitlesEmpty(t *testing.T) {
	titles, err := ExtractPS5Titles(nil)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestDeviceListUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DeviceList
		wantErr bool
	}{
		{"string", `"PS5"`, DeviceList{Devices: []string{"PS5"}, Joined: true}, false},
		{"empty string", `""`, DeviceList{Joined: true}, false},
		{"array", `["PS4","PS5"]`, DeviceList{Devices: []string{"PS4", "PS5"}}, false},
		{"null", `null`, DeviceList{}, false},
		{"number", `5`, DeviceList{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DeviceList
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestDeviceListHas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"joined string", `"PS4,PS5"`, true},
		{"single string", `"PS5"`, true},
		{"array entry", `["PS4","PS5"]`, true},
		{"array entry only contains platform", `["PS5 Remote Play"]`, false},
		{"array without platform", `["PS4"]`, false},
		{"empty string", `""`, false},
		{"null", `null`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DeviceList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.Equal(t, tt.want, d.Has(ps5Device))
		})
	}
}

func TestDeviceListKeepsFormThroughCache(t *testing.T) {
	for _, input := range []string{`"PS4,PS5"`, `["PS4","PS5"]`, `["PS5 Remote Play"]`} {
		var d DeviceList
		require.NoError(t, json.Unmarshal([]byte(input), &d))

		data, err := json.Marshal(d)
		require.NoError(t, err)

		var again DeviceList
		require.NoError(t, json.Unmarshal(data, &again))
		assert.Equal(t, d, again, input)
		assert.Equal(t, d.Has(ps5Device), again.Has(ps5Device), input)
	}
}

func newTestServer(t *testing.T, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientFetchTitlesWithoutCache(t *testing.T) {
	testutil.SetViperValue(t, "cache.disabled", true)

	var hits atomic.Int32
	server := newTestServer(t, samplePayload, &hits)
	client := NewClient(WithURL(server.URL), WithFetchClient(fetch.New("playstation", fetch.WithRetryAttempts(1))))

	titles, err := client.FetchTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Game A", "Game C", "Game D", "Game H"}, titles)

	_, err = client.FetchTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClientFetchTitlesUsesCache(t *testing.T) {
	env := testutil.NewTestEnv(t)
	testutil.SetupTestCache(t, env)
	require.NoError(t, cache.ResetGlobalCache())
	t.Cleanup(func() { _ = cache.ResetGlobalCache() })

	var hits atomic.Int32
	server := newTestServer(t, samplePayload, &hits)
	client := NewClient(WithURL(server.URL), WithFetchClient(fetch.New("playstation", fetch.WithRetryAttempts(1))))

	first, err := client.FetchTitles(context.Background())
	require.NoError(t, err)
	second, err := client.FetchTitles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientFetchTitlesStatusError(t *testing.T) {
	testutil.SetViperValue(t, "cache.disabled", true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(WithURL(server.URL), WithFetchClient(fetch.New("playstation", fetch.WithRetryAttempts(1))))
	_, err := client.FetchTitles(context.Background())
	require.Error(t, err)
	assert.True(t, cperrors.IsStatusError(err))
}

func TestNewClientDefaults(t *testing.T) {
	testutil.ResetConfig(t)

	client := NewClient()
	assert.Contains(t, client.URL(), "plus-games-list")
}
