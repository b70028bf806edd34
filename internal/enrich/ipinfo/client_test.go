package ipinfo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBatch_DecodesHeterogeneousValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/batch", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))

		var ips []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ips))
		assert.Equal(t, []string{"8.8.8.8", "1.1.1.1"}, ips)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"8.8.8.8": {"ip": "8.8.8.8", "city": "Mountain View", "region": "California", "postal": "94043"},
			"1.1.1.1": "rate limit exceeded"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	results, err := c.ResolveBatch(context.Background(), []string{"8.8.8.8", "1.1.1.1"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	ok := results["8.8.8.8"]
	assert.Empty(t, ok.Err)
	assert.Equal(t, "Mountain View", ok.Location.City)
	assert.Equal(t, "California", ok.Location.Region)
	assert.Equal(t, "94043", ok.Location.Postal)

	bad := results["1.1.1.1"]
	assert.NotEmpty(t, bad.Err)
}

func TestResolveBatch_NonOKStatusIsBatchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "token quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	_, err := c.ResolveBatch(context.Background(), []string{"8.8.8.8"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestResolveBatch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	results, err := c.ResolveBatch(context.Background(), []string{"8.8.8.8"})
	require.NoError(t, err)
	assert.Empty(t, results)
}
