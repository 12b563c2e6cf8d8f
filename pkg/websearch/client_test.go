package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"choices":[{"message":{"role":"assistant","content":"- Relies on two Taiwanese fabs\n\n- Single distribution center in Ohio"}}],
			"citations":["https://example.com/a","https://example.com/b"]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	snippets, err := client.Research(context.Background(), "Acme Corp supply chain")
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "Relies on two Taiwanese fabs", snippets[0].Text)
	assert.Equal(t, "https://example.com/a", snippets[0].URL)
}

func TestResearch_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Research(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}
