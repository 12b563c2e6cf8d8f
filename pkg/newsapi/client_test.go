package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, `"Acme Corp" lawsuit`, r.URL.Query().Get("q"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Acme sued","url":"https://news.test/1","publishedAt":"2026-08-01T10:00:00Z","source":{"name":"Wire"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	articles, err := client.Search(context.Background(), `"Acme Corp" lawsuit`, 20)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Acme sued", articles[0].Title)
	assert.Equal(t, "Wire", articles[0].Source)
	assert.Equal(t, 2026, articles[0].PublishedAt.Year())
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}
