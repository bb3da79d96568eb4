package component

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Nighthawk42/desktopmate-installer/internal/archive"
	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
	"github.com/Nighthawk42/desktopmate-installer/internal/release"
	"github.com/Nighthawk42/desktopmate-installer/internal/repository/marker"
)

// ErrPayloadMissing indicates a well-formed archive that did not contain
// any of the expected payload folders. It is distinct from generic I/O
// errors so callers can report "archive did not contain expected content".
var ErrPayloadMissing = errors.New("archive did not contain expected content")

// stagingDirPermissions is applied to freshly created staging directories.
const stagingDirPermissions os.FileMode = 0o755

// Status is the outcome of an Ensure run for one component.
type Status int

const (
	// StatusUpToDate means the marker matched the latest tag; nothing was touched.
	StatusUpToDate Status = iota
	// StatusInstalled means the component was installed for the first time.
	StatusInstalled
	// StatusUpdated means an older install was replaced.
	StatusUpdated
	// StatusSkipped means release resolution failed and the component
	// was left alone for this run (best effort, not an error).
	StatusSkipped
	// StatusDeclined means the user rejected the update confirmation.
	StatusDeclined
)

// String renders the status for logs and console output.
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up-to-date"
	case StatusInstalled:
		return "installed"
	case StatusUpdated:
		return "updated"
	case StatusSkipped:
		return "skipped"
	case StatusDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// Component describes one versioned installable unit.
type Component struct {
	// Name is the human-readable component name.
	Name string
	// Owner and Repo locate the release-hosting repository.
	Owner string
	Repo  string
	// AssetFilter selects the release asset by exact case-insensitive name.
	// Empty means "first .zip asset".
	AssetFilter string
	// MarkerFile is the marker filename under the installation root.
	MarkerFile string
	// PayloadDirs are the subfolders relocated from the archive's effective
	// root into the installation root. Ignored when ExtractToRoot is set.
	PayloadDirs []string
	// ExtractToRoot copies the whole effective root into the installation
	// root instead of relocating named subfolders.
	ExtractToRoot bool
	// ConfirmUpdate gates updates (not fresh installs) behind a prompt.
	ConfirmUpdate bool
	// PinnedTag and PinnedURL pin the component to a fixed release,
	// bypassing the release API entirely.
	PinnedTag string
	PinnedURL string
}

// Result reports what Ensure did for one component.
type Result struct {
	// Status is the state machine outcome.
	Status Status
	// Previous is the tag that was installed before the run ("" when absent).
	Previous string
	// Tag is the resolved latest tag ("" when resolution was skipped).
	Tag string
}

// resolver is the release lookup dependency.
type resolver interface {
	Latest(ctx context.Context, owner, repo, assetFilter string) (*release.Release, error)
}

// fetcher is the archive download dependency.
type fetcher interface {
	Download(ctx context.Context, url, dest string) error
}

// Installer applies versioned components into an installation root.
type Installer struct {
	// root is the installation root all payloads land under.
	root string
	// stagingRoot is where archives and extracted trees are staged.
	stagingRoot string
	// resolver looks up the latest release per component.
	resolver resolver
	// fetcher downloads release assets.
	fetcher fetcher
	// confirm asks the user to approve a gated update.
	confirm func(question string) bool
}

// Option configures an Installer.
type Option func(*Installer)

// WithStagingRoot overrides the staging directory parent (defaults to the
// system temp directory).
func WithStagingRoot(dir string) Option {
	return func(i *Installer) {
		i.stagingRoot = dir
	}
}

// WithConfirm overrides the update confirmation prompt.
func WithConfirm(confirm func(question string) bool) Option {
	return func(i *Installer) {
		i.confirm = confirm
	}
}

// NewInstaller creates an Installer for the given installation root.
func NewInstaller(root string, res resolver, f fetcher, opts ...Option) *Installer {
	installer := &Installer{
		root:        root,
		stagingRoot: os.TempDir(),
		resolver:    res,
		fetcher:     f,
		confirm:     func(string) bool { return true },
	}

	for _, opt := range opts {
		opt(installer)
	}

	return installer
}

// Ensure drives one component through its update state machine:
// read marker, resolve latest, compare, and fetch-extract-relocate when
// the marker differs. Release resolution failures skip the component for
// this run; download, extraction and copy failures are fatal and leave
// the marker untouched.
func (i *Installer) Ensure(ctx context.Context, comp Component) (Result, error) {
	ctx = logger.WithKV(ctx, "component", comp.Name)

	markers := marker.NewFileRepository(filepath.Join(i.root, comp.MarkerFile))

	installed, err := markers.Load(ctx)
	if err != nil && !errors.Is(err, marker.ErrNotFound) {
		return Result{Status: StatusSkipped}, fmt.Errorf("read version marker: %w", err)
	}

	result := Result{Previous: installed}

	latest, err := i.resolveLatest(ctx, comp)
	if err != nil {
		logger.WarnKV(ctx, "Release lookup failed, skipping component for this run", "error", err)

		result.Status = StatusSkipped

		return result, nil
	}

	result.Tag = latest.Tag

	if installed == latest.Tag {
		logger.InfoKV(ctx, "Component is up-to-date", "version", installed)

		result.Status = StatusUpToDate

		return result, nil
	}

	isUpdate := installed != ""
	if isUpdate && comp.ConfirmUpdate {
		question := fmt.Sprintf("Do you want to update %s? (installed: %s, latest: %s)",
			comp.Name, installed, latest.Tag)
		if !i.confirm(question) {
			logger.Info(ctx, "User opted to skip the update")

			result.Status = StatusDeclined

			return result, nil
		}
	}

	if err = i.apply(ctx, comp, latest); err != nil {
		result.Status = StatusSkipped

		return result, err
	}

	if err = markers.Save(ctx, latest.Tag); err != nil {
		result.Status = StatusSkipped

		return result, fmt.Errorf("write version marker: %w", err)
	}

	logger.InfoKV(ctx, "Component install finished", "version", latest.Tag, "was_update", isUpdate)

	if isUpdate {
		result.Status = StatusUpdated
	} else {
		result.Status = StatusInstalled
	}

	return result, nil
}

// resolveLatest returns the pinned release or asks the release API.
func (i *Installer) resolveLatest(ctx context.Context, comp Component) (*release.Release, error) {
	if comp.PinnedTag != "" {
		return &release.Release{
			Tag:      comp.PinnedTag,
			AssetURL: comp.PinnedURL,
		}, nil
	}

	return i.resolver.Latest(ctx, comp.Owner, comp.Repo, comp.AssetFilter)
}

// apply downloads, extracts and relocates the release payload.
// The staging archive and directory are removed on every exit path.
func (i *Installer) apply(ctx context.Context, comp Component, latest *release.Release) error {
	slug := componentSlug(comp.Name)

	// A random identifier in the filename tolerates retries and
	// concurrent runs without clobbering.
	stagingZip := filepath.Join(i.stagingRoot, fmt.Sprintf("%s_%s.zip", slug, uuid.NewString()))

	defer func() {
		_ = os.Remove(stagingZip)
	}()

	logger.InfoKV(ctx, "Downloading component archive", "url", latest.AssetURL)

	if err := i.fetcher.Download(ctx, latest.AssetURL, stagingZip); err != nil {
		return fmt.Errorf("download component archive: %w", err)
	}

	// Stale staging state from a previous run is wiped, not merged.
	stagingDir := filepath.Join(i.stagingRoot, slug+"_extracted")
	if _, err := os.Stat(stagingDir); err == nil {
		if err = os.RemoveAll(stagingDir); err != nil {
			return fmt.Errorf("clean stale staging directory: %w", err)
		}
	}

	if err := os.MkdirAll(stagingDir, stagingDirPermissions); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(stagingDir)
	}()

	if err := archive.ExtractZip(stagingZip, stagingDir); err != nil {
		return fmt.Errorf("extract component archive: %w", err)
	}

	payloadRoot, err := archive.EffectiveRoot(stagingDir)
	if err != nil {
		return err
	}

	return i.relocate(ctx, comp, payloadRoot)
}

// relocate moves the payload from the staging tree into the install root.
func (i *Installer) relocate(ctx context.Context, comp Component, payloadRoot string) error {
	if comp.ExtractToRoot {
		if err := archive.CopyDir(payloadRoot, i.root); err != nil {
			return fmt.Errorf("copy payload into installation root: %w", err)
		}

		return nil
	}

	copied := false

	for _, dir := range comp.PayloadDirs {
		source := filepath.Join(payloadRoot, dir)
		if _, err := os.Stat(source); err != nil {
			continue
		}

		if err := archive.CopyDir(source, filepath.Join(i.root, dir)); err != nil {
			return fmt.Errorf("relocate %s: %w", dir, err)
		}

		logger.InfoKV(ctx, "Relocated payload folder", "folder", dir)

		copied = true
	}

	if !copied {
		return fmt.Errorf("%w: expected one of %s", ErrPayloadMissing, strings.Join(comp.PayloadDirs, ", "))
	}

	return nil
}

// componentSlug turns a display name into a filesystem-friendly token.
func componentSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
