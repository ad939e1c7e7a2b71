package httpclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(5 * time.Second)

	t.Run("allows plain http", func(t *testing.T) {
		req, err := http.NewRequest("GET", server.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		req, err := http.NewRequest("GET", "ftp://example.com/file", nil)
		require.NoError(t, err)
		_, err = client.Do(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
	})

	t.Run("rejects missing hostname", func(t *testing.T) {
		req, err := http.NewRequest("GET", "http:///path-only", nil)
		require.NoError(t, err)
		_, err = client.Do(req)
		assert.Error(t, err)
	})
}

func TestRedirectCap(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, fmt.Sprintf("%s/again", server.URL), http.StatusFound)
	}))
	defer server.Close()

	client := New(5 * time.Second)
	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirects")
}
