package integration

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nighthawk42/desktopmate-installer/internal/component"
	"github.com/Nighthawk42/desktopmate-installer/internal/fetch"
	"github.com/Nighthawk42/desktopmate-installer/internal/release"
)

// startReleaseServer serves a GitHub-style latest-release document whose
// single asset is a zip archive built from the given files.
func startReleaseServer(t *testing.T, tag string, files map[string]string) *httptest.Server {
	t.Helper()

	archive := buildZip(t, files)

	mux := http.NewServeMux()

	mux.HandleFunc("/asset.zip", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(archive)
	})

	server := httptest.NewServer(mux)

	mux.HandleFunc("/repos/modauthor/sample-mod/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w,
			`{"tag_name":%q,"assets":[{"name":"SampleMod.zip","browser_download_url":%q}]}`,
			tag, server.URL+"/asset.zip")
	})

	t.Cleanup(server.Close)

	return server
}

// buildZip packs the given file map into an in-memory zip archive.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)

		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// sampleComponent describes the mod install unit used by these tests.
func sampleComponent() component.Component {
	return component.Component{
		Name:        "Sample Mod",
		Owner:       "modauthor",
		Repo:        "sample-mod",
		AssetFilter: "SampleMod.zip",
		MarkerFile:  "SampleMod.version",
		PayloadDirs: []string{"Mods"},
	}
}

// TestComponent_InstallThenUpToDate drives one component from a fresh install
// through a repeat run against a live release endpoint.
func TestComponent_InstallThenUpToDate(t *testing.T) {
	t.Parallel()

	server := startReleaseServer(t, "v1.4.0", map[string]string{
		"SampleMod/Mods/SampleMod.dll": "library bytes",
	})

	root := t.TempDir()

	installer := component.NewInstaller(
		root,
		release.NewResolver(release.WithBaseURL(server.URL)),
		fetch.NewFetcher(),
		component.WithStagingRoot(t.TempDir()),
	)

	ctx := context.Background()

	// Fresh install pulls the asset and records the tag.
	result, err := installer.Ensure(ctx, sampleComponent())
	require.NoError(t, err)
	require.Equal(t, component.StatusInstalled, result.Status)
	require.Equal(t, "v1.4.0", result.Tag)

	payload, err := os.ReadFile(filepath.Join(root, "Mods", "SampleMod.dll"))
	require.NoError(t, err)
	require.Equal(t, "library bytes", string(payload))

	marker, err := os.ReadFile(filepath.Join(root, "SampleMod.version"))
	require.NoError(t, err)
	require.Equal(t, "v1.4.0\n", string(marker))

	// A repeat run sees the marker match and leaves the tree alone.
	result, err = installer.Ensure(ctx, sampleComponent())
	require.NoError(t, err)
	require.Equal(t, component.StatusUpToDate, result.Status)
}

// TestComponent_UpdateFlow upgrades an already installed component when the
// release endpoint starts announcing a newer tag.
func TestComponent_UpdateFlow(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	oldServer := startReleaseServer(t, "v1.0.0", map[string]string{
		"SampleMod/Mods/SampleMod.dll": "old build",
	})

	ctx := context.Background()

	installer := component.NewInstaller(
		root,
		release.NewResolver(release.WithBaseURL(oldServer.URL)),
		fetch.NewFetcher(),
		component.WithStagingRoot(t.TempDir()),
	)

	result, err := installer.Ensure(ctx, sampleComponent())
	require.NoError(t, err)
	require.Equal(t, component.StatusInstalled, result.Status)

	newServer := startReleaseServer(t, "v2.0.0", map[string]string{
		"SampleMod/Mods/SampleMod.dll": "new build",
	})

	installer = component.NewInstaller(
		root,
		release.NewResolver(release.WithBaseURL(newServer.URL)),
		fetch.NewFetcher(),
		component.WithStagingRoot(t.TempDir()),
	)

	result, err = installer.Ensure(ctx, sampleComponent())
	require.NoError(t, err)
	require.Equal(t, component.StatusUpdated, result.Status)
	require.Equal(t, "v1.0.0", result.Previous)
	require.Equal(t, "v2.0.0", result.Tag)

	payload, err := os.ReadFile(filepath.Join(root, "Mods", "SampleMod.dll"))
	require.NoError(t, err)
	require.Equal(t, "new build", string(payload))
}

// TestComponent_UnreachableEndpointSkips verifies resolution failures leave
// the installed tree untouched instead of aborting the run.
func TestComponent_UnreachableEndpointSkips(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	installer := component.NewInstaller(
		root,
		release.NewResolver(release.WithBaseURL("http://127.0.0.1:1")),
		fetch.NewFetcher(),
		component.WithStagingRoot(t.TempDir()),
	)

	result, err := installer.Ensure(context.Background(), sampleComponent())
	require.NoError(t, err)
	require.Equal(t, component.StatusSkipped, result.Status)

	_, err = os.Stat(filepath.Join(root, "SampleMod.version"))
	require.True(t, os.IsNotExist(err))
}
