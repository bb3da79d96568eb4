package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLatest_AssetFilter verifies the case-insensitive exact-name filter wins
// over earlier non-matching assets.
func TestLatest_AssetFilter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/YusufOzmen01/desktopmate-custom-avatar-loader/releases/latest", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"tag_name": "v2.3.0",
			"assets": [
				{"name": "Source.tar.gz", "browser_download_url": "https://dl.local/source.tar.gz"},
				{"name": "customavatarloader.ZIP", "browser_download_url": "https://dl.local/mod.zip"}
			]
		}`))
	}))
	defer server.Close()

	resolver := NewResolver(WithBaseURL(server.URL))

	got, err := resolver.Latest(context.Background(), "YusufOzmen01", "desktopmate-custom-avatar-loader", "CustomAvatarLoader.zip")
	require.NoError(t, err)
	require.Equal(t, "v2.3.0", got.Tag)
	require.Equal(t, "https://dl.local/mod.zip", got.AssetURL)
}

// TestLatest_NoFilterPicksFirstZip checks the default ".zip" suffix rule.
func TestLatest_NoFilterPicksFirstZip(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"tag_name": "v1.0.0",
			"assets": [
				{"name": "checksums.txt", "browser_download_url": "https://dl.local/sums.txt"},
				{"name": "bundle.zip", "browser_download_url": "https://dl.local/bundle.zip"},
				{"name": "other.zip", "browser_download_url": "https://dl.local/other.zip"}
			]
		}`))
	}))
	defer server.Close()

	resolver := NewResolver(WithBaseURL(server.URL))

	got, err := resolver.Latest(context.Background(), "owner", "repo", "")
	require.NoError(t, err)
	require.Equal(t, "https://dl.local/bundle.zip", got.AssetURL)
}

// TestLatest_MelonLoaderFallback ensures the hardcoded fallback URL is
// substituted when the MelonLoader release has no matching asset.
func TestLatest_MelonLoaderFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "v0.7.0", "assets": []}`))
	}))
	defer server.Close()

	resolver := NewResolver(WithBaseURL(server.URL))

	got, err := resolver.Latest(context.Background(), "LavaGang", "MelonLoader", "")
	require.NoError(t, err)
	require.Equal(t, "v0.7.0", got.Tag)
	require.Equal(t, melonLoaderFallbackURL, got.AssetURL)
}

// TestLatest_ErrorKinds checks that transport, decode and no-asset failures
// surface as distinct sentinel errors.
func TestLatest_ErrorKinds(t *testing.T) {
	t.Parallel()

	t.Run("bad status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewResolver(WithBaseURL(server.URL)).Latest(context.Background(), "o", "r", "")
		require.ErrorIs(t, err, ErrTransport)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name":`))
		}))
		defer server.Close()

		_, err := NewResolver(WithBaseURL(server.URL)).Latest(context.Background(), "o", "r", "")
		require.ErrorIs(t, err, ErrDecode)
	})

	t.Run("no matching asset", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name": "v1.0.0", "assets": [{"name": "a.tar.gz", "browser_download_url": "https://dl.local/a"}]}`))
		}))
		defer server.Close()

		_, err := NewResolver(WithBaseURL(server.URL)).Latest(context.Background(), "o", "r", "wanted.zip")
		require.ErrorIs(t, err, ErrNoAsset)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		server.Close()

		_, err := NewResolver(WithBaseURL(server.URL)).Latest(context.Background(), "o", "r", "")
		require.ErrorIs(t, err, ErrTransport)
	})
}
