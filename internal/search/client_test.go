package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptforge/internal/common/config"
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/logger"
)

const searchResponseBody = `{
	"items": [
		{"link": "https://example.com/a", "title": "Battery basics", "snippet": "How batteries work", "mime": ""},
		{"link": "https://energy.gov/report", "title": "Official DOE report", "snippet": "Grid storage outlook", "mime": "text/html"},
		{"link": "https://example.com/a", "title": "Battery basics duplicate", "snippet": "dup", "mime": ""},
		{"link": "https://example.com/file.pdf", "title": "PDF report", "snippet": "skip me", "mime": "application/pdf"}
	]
}`

func newTestClient(t *testing.T, serverURL string, timeoutMs int) *Client {
	t.Helper()
	return NewClient(config.SearchConfig{
		Enabled:  true,
		BaseURL:  serverURL,
		APIKey:   "test-key",
		EngineID: "test-cx",
		Timeout:  timeoutMs,
	}, logger.NewTestLogger(t))
}

func TestSearch(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponseBody))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5000)

	results, err := client.Search(context.Background(), "grid storage", 5)
	require.NoError(t, err)

	// PDF skipped, duplicate URL skipped, .gov boosted to the top.
	require.Len(t, results, 2)
	assert.Equal(t, "https://energy.gov/report", results[0].URL)
	assert.Greater(t, results[0].Relevance, results[1].Relevance)

	assert.Equal(t, []string{"grid storage"}, gotQuery["q"])
	assert.Equal(t, []string{"test-key"}, gotQuery["key"])
	assert.Equal(t, []string{"test-cx"}, gotQuery["cx"])
}

func TestSearchLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponseBody))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5000)

	results, err := client.Search(context.Background(), "grid storage", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "slow query", 5)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeWebSearchTimeout, commonerrors.CodeOf(err))
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5000)

	_, err := client.Search(context.Background(), "denied", 5)
	assert.Error(t, err)
}

func TestSearchEmptyItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5000)

	results, err := client.Search(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
