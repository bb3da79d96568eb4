package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	// ErrTransport indicates the release API could not be reached
	// or answered with a non-success status.
	ErrTransport = errors.New("release lookup transport failure")
	// ErrDecode indicates the release API answered with a body
	// that could not be decoded.
	ErrDecode = errors.New("release response is malformed")
	// ErrNoAsset indicates the latest release exists
	// but carries no asset matching the filter.
	ErrNoAsset = errors.New("no matching release asset")
)

const (
	// DefaultAPIBaseURL is the GitHub REST API root.
	DefaultAPIBaseURL = "https://api.github.com"

	// defaultTimeout bounds a single release lookup.
	defaultTimeout = 30 * time.Second

	// userAgent identifies the installer to the release API.
	userAgent = "DesktopMateInstaller"

	// melonLoaderRepo is the one repository with a hardcoded fallback asset URL.
	melonLoaderRepo = "MelonLoader"

	// melonLoaderFallbackURL is used when the MelonLoader release carries
	// no matching asset. MelonLoader's release packaging has changed
	// between versions.
	melonLoaderFallbackURL = "https://github.com/LavaGang/MelonLoader/releases/latest/download/MelonLoader.x64.zip"

	// archiveSuffix selects assets when no explicit filter is given.
	archiveSuffix = ".zip"
)

// Release describes the latest published release of a repository.
// It is resolved transiently per run and never persisted.
type Release struct {
	// Tag is the release tag, e.g. "v0.6.6".
	Tag string
	// AssetURL is the direct download URL of the selected asset.
	AssetURL string
}

// apiRelease mirrors the GitHub "latest release" JSON shape.
type apiRelease struct {
	TagName string     `json:"tag_name"`
	Assets  []apiAsset `json:"assets"`
}

type apiAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Resolver queries a release-hosting API for the latest published version.
type Resolver struct {
	// baseURL is the API root, overridable for tests.
	baseURL string
	// client performs the outbound request.
	client *http.Client
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL overrides the release API root.
func WithBaseURL(u string) Option {
	return func(r *Resolver) {
		r.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for lookups.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// NewResolver creates a Resolver against the GitHub API.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: DefaultAPIBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Latest resolves the latest release of owner/repo and picks a download URL.
//
// When assetFilter is non-empty, the first asset whose name equals the filter
// case-insensitively wins. Otherwise the first asset ending in ".zip" wins.
// When nothing matches and the repository is the known MelonLoader special
// case, the hardcoded fallback URL is substituted instead of failing.
// Exactly one outbound request is made per call.
func (r *Resolver) Latest(ctx context.Context, owner, repo, assetFilter string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", r.baseURL, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	req.Header.Set("User-Agent", userAgent)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrTransport, url, response.Status)
	}

	var payload apiRelease
	if err = json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	assetURL := pickAssetURL(payload.Assets, assetFilter)
	if assetURL == "" {
		if strings.EqualFold(repo, melonLoaderRepo) {
			assetURL = melonLoaderFallbackURL
		} else {
			return nil, fmt.Errorf("%w: %s/%s %s", ErrNoAsset, owner, repo, payload.TagName)
		}
	}

	return &Release{
		Tag:      payload.TagName,
		AssetURL: assetURL,
	}, nil
}

// pickAssetURL selects the download URL per the filter rules, or "".
func pickAssetURL(assets []apiAsset, assetFilter string) string {
	for _, asset := range assets {
		if assetFilter != "" {
			if strings.EqualFold(asset.Name, assetFilter) {
				return asset.BrowserDownloadURL
			}

			continue
		}

		if strings.HasSuffix(strings.ToLower(asset.Name), archiveSuffix) {
			return asset.BrowserDownloadURL
		}
	}

	return ""
}
