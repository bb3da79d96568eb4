package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDownload verifies the payload lands byte-identical at the destination.
func TestDownload(t *testing.T) {
	t.Parallel()

	payload := []byte("PK\x03\x04 not really a zip, but bytes are bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, NewFetcher().Download(context.Background(), server.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

// TestDownload_BadStatus ensures a non-success status is an error
// and no destination file survives.
func TestDownload_BadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	err := NewFetcher().Download(context.Background(), server.URL, dest)
	require.Error(t, err)
}
