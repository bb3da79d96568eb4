// Package fetch downloads release archives over HTTPS to local files.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cavaliergopher/grab/v3"

	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
)

// userAgent identifies the installer to download hosts.
const userAgent = "DesktopMateInstaller"

// Fetcher downloads a URL to a local file via HTTP GET,
// failing on non-success status. No retries are attempted.
type Fetcher struct {
	client *grab.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds a whole download, connection to last byte.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.HTTPClient = &http.Client{Timeout: timeout}
	}
}

// NewFetcher creates a Fetcher with the installer user agent.
func NewFetcher(opts ...Option) *Fetcher {
	client := grab.NewClient()
	client.UserAgent = userAgent

	f := &Fetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Download fetches url into the file at dest, creating it if missing.
// The transfer is synchronous from the caller's point of view.
func (f *Fetcher) Download(ctx context.Context, url, dest string) error {
	req, err := grab.NewRequest(dest, url)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	req = req.WithContext(ctx)
	// Partial files from interrupted runs must not satisfy the download.
	req.NoResume = true

	resp := f.client.Do(req)
	if err = resp.Err(); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}

	logger.InfoKV(ctx, "Downloaded file", "url", url, "path", resp.Filename, "bytes", resp.Size())

	return nil
}
