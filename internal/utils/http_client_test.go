package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Independence(t *testing.T) {
	c1 := NewHTTPClient("http://a", time.Second)
	c2 := NewHTTPClient("http://b", time.Second)

	require.NotNil(t, c1.Client)
	assert.NotSame(t, c1.Client, c2.Client)
}

func TestNewHTTPClient_BaseURLAndTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ping", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", 2*time.Second)
	assert.Equal(t, srv.URL, c.BaseURL)
	assert.Equal(t, 2*time.Second, c.GetClient().Timeout)

	resp, err := c.R().Get("/v1/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}
