package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nighthawk42/desktopmate-installer/internal/component"
	"github.com/Nighthawk42/desktopmate-installer/internal/config"
	"github.com/Nighthawk42/desktopmate-installer/internal/console"
	"github.com/Nighthawk42/desktopmate-installer/internal/fetch"
	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
	"github.com/Nighthawk42/desktopmate-installer/internal/release"
	"github.com/Nighthawk42/desktopmate-installer/internal/shortcut"
)

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// TargetDir skips the installation path prompt when set.
	TargetDir string
	// Yes accepts every confirmation prompt (non-interactive runs).
	Yes bool
}

// runner holds the state for a single installation run.
// It is intentionally unexported; call Run(ctx, Options) from callers.
type runner struct {
	cfg *config.Config // Installer settings with defaults applied.
	// baseDir is where the installer binary lives: DepotDownloader and
	// the install log are kept next to it.
	baseDir string
	// targetDir is the installation root, prompted or passed in.
	targetDir string
	// components applies the versioned install units into targetDir.
	components *component.Installer
	fetcher    *fetch.Fetcher
	shortcuts  *shortcut.Creator
	opts       *Options
}

// Run executes the whole provisioning sequence. Handled failures are
// logged, shown to the user and followed by a wait-for-keypress pause;
// they do not surface as a non-zero process exit.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "desktopmate-installer")

	r, err := newRunner(ctx, opts)
	if err == nil {
		err = r.run(ctx)
	}

	if err != nil {
		logger.ErrorKV(ctx, "Installation aborted", "error", err)
		console.Error("ERROR: " + err.Error())
	} else {
		console.Success("Installation complete.")
	}

	if !opts.Yes {
		console.Pause()
	}

	return nil
}

// newRunner loads settings, wires the log file sink and prepares collaborators.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate installer executable: %w", err)
	}

	baseDir := filepath.Dir(executable)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(baseDir, config.DefaultConfigFilename)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// From here on, everything written through the context logger also
	// lands in the install log next to the binary.
	logger.SetLogger(logger.NewWithFile(nil, filepath.Join(baseDir, cfg.LogFilename)))
	logger.Info(ctx, "------------------------------------------------------------")
	logger.Info(ctx, "Starting "+appTitle)

	console.SetTitle(appTitle)
	console.Banner(appTitle)

	return &runner{
		cfg:       cfg,
		baseDir:   baseDir,
		fetcher:   fetch.NewFetcher(fetch.WithTimeout(cfg.Timeout)),
		shortcuts: shortcut.NewCreator(),
		opts:      opts,
	}, nil
}

// run drives the fixed step sequence.
func (r *runner) run(ctx context.Context) error {
	if err := r.resolveTargetDir(ctx); err != nil {
		return err
	}

	r.components = component.NewInstaller(
		r.targetDir,
		release.NewResolver(release.WithBaseURL(r.cfg.ReleaseAPIURL)),
		r.fetcher,
		component.WithConfirm(r.confirm),
	)

	if err := r.checkRunningGame(ctx); err != nil {
		return err
	}

	if err := r.ensureDepotDownloader(ctx); err != nil {
		return err
	}

	if err := r.fetchDepot(ctx); err != nil {
		return err
	}

	if err := r.applyOfflinePatch(ctx); err != nil {
		return err
	}

	if err := r.installComponent(ctx, melonLoaderComponent()); err != nil {
		return err
	}

	if err := r.installComponent(ctx, avatarLoaderComponent()); err != nil {
		return err
	}

	return r.createShortcuts(ctx)
}

// resolveTargetDir prompts for the installation path and creates it.
func (r *runner) resolveTargetDir(ctx context.Context) error {
	targetDir := r.opts.TargetDir
	if targetDir == "" && !r.opts.Yes {
		prompt := fmt.Sprintf("Enter installation path (default: %s)", r.cfg.InstallDir)

		answer, err := console.PromptLine(prompt, r.cfg.InstallDir)
		if err != nil {
			return err
		}

		targetDir = answer
	}

	if targetDir == "" {
		targetDir = r.cfg.InstallDir
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("create installation directory: %w", err)
	}

	r.targetDir = targetDir

	console.Success("Installation directory: " + targetDir)
	logger.InfoKV(ctx, "Installation directory set", "path", targetDir)

	return nil
}

// installComponent runs one versioned component through the update state
// machine and reports the outcome on the console.
func (r *runner) installComponent(ctx context.Context, comp component.Component) error {
	console.Info(fmt.Sprintf("Checking %s...", comp.Name))

	result, err := r.components.Ensure(ctx, comp)
	if err != nil {
		if errors.Is(err, component.ErrPayloadMissing) {
			return fmt.Errorf("%s archive did not contain the expected folders: %w", comp.Name, err)
		}

		return fmt.Errorf("install %s: %w", comp.Name, err)
	}

	switch result.Status {
	case component.StatusUpToDate:
		console.Success(fmt.Sprintf("%s is up-to-date (version %s).", comp.Name, result.Tag))
	case component.StatusInstalled:
		console.Success(fmt.Sprintf("%s %s installed successfully.", comp.Name, result.Tag))
	case component.StatusUpdated:
		console.Success(fmt.Sprintf("%s updated: %s -> %s.", comp.Name, result.Previous, result.Tag))
	case component.StatusDeclined:
		console.Warn(fmt.Sprintf("Skipping %s update.", comp.Name))
	case component.StatusSkipped:
		console.Warn(fmt.Sprintf("Could not retrieve latest %s release info. Skipping update check.", comp.Name))
	}

	return nil
}

// confirm routes update confirmations through the console,
// auto-accepting in non-interactive runs.
func (r *runner) confirm(question string) bool {
	if r.opts.Yes {
		return true
	}

	return console.Confirm(question)
}
