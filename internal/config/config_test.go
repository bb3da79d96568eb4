package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks default filling and URL format validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config gets fully defaulted.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultInstallDir, cfg.InstallDir)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultLogFilename, cfg.LogFilename)
	require.NotEmpty(t, cfg.SteamAppID)

	// Bad URL is rejected.
	cfg = &Config{ReleaseAPIURL: "not a url"}
	require.Error(t, Validate(cfg))

	// Nil config is rejected.
	require.Error(t, Validate(nil))
}

// TestLoad_MissingFileYieldsDefaults verifies an absent config file is not an error.
func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		InstallDir: `D:\Games\DesktopMate`,
		Timeout:    90 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.InstallDir, loaded.InstallDir)
	require.Equal(t, cfg.Timeout, loaded.Timeout)

	// Defaults were filled in for everything left empty.
	require.Equal(t, DefaultLogFilename, loaded.LogFilename)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
