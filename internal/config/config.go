package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds installer settings. Every field has a built-in default;
// a config file only needs the fields it overrides.
type Config struct {
	// InstallDir is the default installation root offered at the prompt.
	InstallDir string `yaml:"install_dir"`
	// SteamAppID, SteamDepotID and SteamManifestID pin the exact depot
	// revision fetched through DepotDownloader.
	SteamAppID      string `yaml:"steam_app_id"`
	SteamDepotID    string `yaml:"steam_depot_id"`
	SteamManifestID string `yaml:"steam_manifest_id"`
	// ReleaseAPIURL is the release-hosting API root.
	ReleaseAPIURL string `yaml:"release_api_url"`
	// DepotDownloaderURL is the fixed download for the DepotDownloader helper.
	DepotDownloaderURL string `yaml:"depot_downloader_url"`
	// GoldbergPatchURL is the fixed download for the offline patch archive.
	GoldbergPatchURL string `yaml:"goldberg_patch_url"`
	// Timeout bounds individual network operations.
	Timeout time.Duration `yaml:"timeout"`
	// LogFilename is the install log filename, created next to the installer.
	LogFilename string `yaml:"log_file"`
}

const (
	// DefaultConfigFilename is the optional settings file next to the binary.
	DefaultConfigFilename = "desktopmate-installer.yaml"

	// DefaultInstallDir is offered when the user submits an empty path.
	DefaultInstallDir = `C:\Games\DesktopMate`

	// DefaultLogFilename is the append-only install log.
	DefaultLogFilename = "DesktopMate_Install.log"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Minute

	// DefaultFilePermissions is the file permission for saved config files.
	DefaultFilePermissions = 0o600

	defaultSteamAppID      = "3301060"
	defaultSteamDepotID    = "3301061"
	defaultSteamManifestID = "2467897585300615012"

	defaultReleaseAPIURL      = "https://api.github.com"
	defaultDepotDownloaderURL = "https://github.com/SteamRE/DepotDownloader/releases/latest/download/DepotDownloader-windows-x64.zip"
	defaultGoldbergPatchURL   = "https://gitlab.com/Mr_Goldberg/goldberg_emulator/-/jobs/4247811310/artifacts/download"
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns a Config populated entirely from built-in defaults.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path. A missing file is not
// an error: defaults are returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path with restricted permissions.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for empty fields and checks URL formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	for name, value := range map[string]string{
		"release_api_url":      cfg.ReleaseAPIURL,
		"depot_downloader_url": cfg.DepotDownloaderURL,
		"goldberg_patch_url":   cfg.GoldbergPatchURL,
	} {
		if _, err := url.ParseRequestURI(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// applyDefaults overwrites empty fields with built-in defaults.
func applyDefaults(cfg *Config) {
	if cfg.InstallDir == "" {
		cfg.InstallDir = DefaultInstallDir
	}

	if cfg.SteamAppID == "" {
		cfg.SteamAppID = defaultSteamAppID
	}

	if cfg.SteamDepotID == "" {
		cfg.SteamDepotID = defaultSteamDepotID
	}

	if cfg.SteamManifestID == "" {
		cfg.SteamManifestID = defaultSteamManifestID
	}

	if cfg.ReleaseAPIURL == "" {
		cfg.ReleaseAPIURL = defaultReleaseAPIURL
	}

	if cfg.DepotDownloaderURL == "" {
		cfg.DepotDownloaderURL = defaultDepotDownloaderURL
	}

	if cfg.GoldbergPatchURL == "" {
		cfg.GoldbergPatchURL = defaultGoldbergPatchURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogFilename == "" {
		cfg.LogFilename = DefaultLogFilename
	}
}
