package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		assert.Equal(t, "UNRATE", r.URL.Query().Get("series_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"observations":[
			{"date":"2026-07-01","value":"4.2"},
			{"date":"2026-06-01","value":"."},
			{"date":"2026-05-01","value":"4.0"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	obs, err := client.Observations(context.Background(), "UNRATE", 3)
	require.NoError(t, err)
	// The "." missing-value marker is dropped, not coerced to zero.
	require.Len(t, obs, 2)
	assert.Equal(t, 4.2, obs[0].Value)
	assert.Equal(t, 4.0, obs[1].Value)
}

func TestObservations_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Observations(context.Background(), "UNRATE", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
