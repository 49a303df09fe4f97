package helpers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/deliveryscraper/pkg/errors"
)

func TestFetch(t *testing.T) {
	// Create a test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that headers are set
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Ciao, mondo!</body></html>"))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{UserAgent: "test-agent/1.0", Timeout: 5 * time.Second})
	reader, err := Fetch(context.Background(), client, server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Ciao, mondo!")
}

func TestFetchDefaultUserAgentIsBrowserLike(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), NewClient(ClientOptions{}), server.URL)
	assert.NoError(t, err)
}

func TestFetchNonUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		// "Città" in ISO-8859-1
		w.Write([]byte{'C', 'i', 't', 't', 0xe0})
	}))
	defer server.Close()

	reader, err := Fetch(context.Background(), NewClient(ClientOptions{}), server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, "Città", string(body))
}

func TestFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), NewClient(ClientOptions{}), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.True(t, errors.IsRetryable(err))

	// Test with rate limiting
	serverRateLimited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer serverRateLimited.Close()

	_, err = Fetch(context.Background(), NewClient(ClientOptions{}), serverRateLimited.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.True(t, stderrors.Is(err, errors.ErrRateLimit))
	assert.False(t, errors.IsRetryable(err))
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := Fetch(context.Background(), NewClient(ClientOptions{Timeout: time.Second}), "http://invalid.url.that.does.not.exist")
	assert.Error(t, err)
}
