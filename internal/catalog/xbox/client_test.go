package xbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	cperrors "github.com/lepinkainen/crosspass/internal/errors"
	"github.com/lepinkainen/crosspass/internal/fetch"
	"github.com/lepinkainen/crosspass/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "header then ids",
			input: `[{"siglId":"abc","title":"Game Pass"},{"id":"456ABC"},{"id":"789ABC"}]`,
			want:  []string{"456ABC", "789ABC"},
		},
		{
			name:  "single id",
			input: `[{"non_id_field":"123ABC"},{"id":"456ABC"}]`,
			want:  []string{"456ABC"},
		},
		{
			name:  "header only",
			input: `[{"non_id_field":"123ABC"}]`,
			want:  []string{},
		},
		{
			name:  "empty header",
			input: `[{}]`,
			want:  []string{},
		},
		{
			name:  "entry without id is skipped",
			input: `[{},{"id":"456ABC"},{"non_id_field":"NNN456ABC"}]`,
			want:  []string{"456ABC"},
		},
		{
			name:  "empty list",
			input: `[]`,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []SiglsEntry
			require.NoError(t, json.Unmarshal([]byte(tt.input), &entries))
			assert.Equal(t, tt.want, ExtractIDs(entries))
		})
	}
}

func TestExtractTitles(t *testing.T) {
	payload := `{"Products":[
		{"LocalizedProperties":[{"ProductTitle":"Game One"},{"ProductTitle":"Game Two"}]},
		{"LocalizedProperties":[{"ProductTitle":"Game Three"},{"ProductTitle":"Game Four"}]}
	]}`

	var products ProductsResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &products))

	titles, err := ExtractTitles(products)
	require.NoError(t, err)
	assert.Equal(t, []string{"Game One", "Game Two", "Game Three", "Game Four"}, titles)
}

func TestExtractTitlesMalformed(t *testing.T) {
	_, err := ExtractTitles(ProductsResponse{})
	require.Error(t, err)
	assert.True(t, cperrors.IsPayloadError(err))
	assert.Contains(t, err.Error(), `missing "Products"`)

	_, err = ExtractTitles(ProductsResponse{Products: []Product{{ProductID: "X"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `element 0 is missing "LocalizedProperties"`)

	titles, err := ExtractTitles(ProductsResponse{Products: []Product{}})
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestBuildProductsURL(t *testing.T) {
	got := BuildProductsURL("https://displaycatalog.example/v7.0/products", []string{"9NBLGGH4R315", "C3KLDKZBHNCZ"}, "CA", "en-ca")
	assert.Equal(t, "https://displaycatalog.example/v7.0/products?bigIds=9NBLGGH4R315,C3KLDKZBHNCZ&market=CA&languages=en-ca", got)

	got = BuildProductsURL("https://example/products?MS-CV=abc", []string{"A"}, "US", "en-us")
	assert.Equal(t, "https://example/products?MS-CV=abc&bigIds=A&market=US&languages=en-us", got)
}

func TestBatches(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, Batches(ids, 2))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}}, Batches(ids, 20))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}}, Batches(ids, 0))
	assert.Empty(t, Batches(nil, 20))
}

type fakeCatalog struct {
	mu           sync.Mutex
	productCalls []string
	siglsQuery   string
}

func (f *fakeCatalog) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sigls", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.siglsQuery = r.URL.RawQuery
		f.mu.Unlock()
		_, _ = w.Write([]byte(`[{"siglId":"header"},{"id":"A"},{"id":"B"},{},{"id":"C"}]`))
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("bigIds"), ",")
		f.mu.Lock()
		f.productCalls = append(f.productCalls, r.URL.Query().Get("bigIds"))
		f.mu.Unlock()

		var resp ProductsResponse
		resp.Products = []Product{}
		for _, id := range ids {
			resp.Products = append(resp.Products, Product{
				ProductID:           id,
				LocalizedProperties: []LocalizedProperty{{ProductTitle: fmt.Sprintf("Game %s", id)}},
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeCatalog) *Client {
	t.Helper()
	testutil.SetViperValue(t, "cache.disabled", true)

	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	return NewClient(
		WithSiglsURL(server.URL+"/sigls?id=list"),
		WithProductsURL(server.URL+"/products"),
		WithMarket("CA", "en-ca"),
		WithBatchSize(2),
		WithFetchClient(fetch.New("xbox", fetch.WithRetryAttempts(1))),
	)
}

func TestClientFetchTitles(t *testing.T) {
	fake := &fakeCatalog{}
	client := newTestClient(t, fake)

	titles, err := client.FetchTitles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Game A", "Game B", "Game C"}, titles)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"A,B", "C"}, fake.productCalls)
	assert.Equal(t, "id=list&language=en-ca&market=CA", fake.siglsQuery)
}

func TestClientFetchTitlesNoIDs(t *testing.T) {
	testutil.SetViperValue(t, "cache.disabled", true)

	var productCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/sigls", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"siglId":"header"}]`))
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		productCalls++
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(
		WithSiglsURL(server.URL+"/sigls"),
		WithProductsURL(server.URL+"/products"),
		WithFetchClient(fetch.New("xbox", fetch.WithRetryAttempts(1))),
	)

	titles, err := client.FetchTitles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, titles)
	assert.Zero(t, productCalls)
}

func TestClientFetchTitlesBatchError(t *testing.T) {
	testutil.SetViperValue(t, "cache.disabled", true)

	mux := http.NewServeMux()
	mux.HandleFunc("/sigls", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{},{"id":"A"}]`))
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(
		WithSiglsURL(server.URL+"/sigls"),
		WithProductsURL(server.URL+"/products"),
		WithFetchClient(fetch.New("xbox", fetch.WithRetryAttempts(1))),
	)

	_, err := client.FetchTitles(context.Background())
	require.Error(t, err)
	assert.True(t, cperrors.IsStatusError(err))
	assert.Contains(t, err.Error(), "batch 1")
}

func TestNewClientDefaults(t *testing.T) {
	testutil.ResetConfig(t)

	client := NewClient()
	assert.Equal(t, 20, client.batchSize)
	assert.Equal(t, "https://catalog.gamepass.com/sigls/v2?id=09a72c0d-c466-426a-9580-b78955d8173a&language=en-ca&market=CA", client.SiglsURL())
}
