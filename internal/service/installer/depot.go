package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Nighthawk42/desktopmate-installer/internal/archive"
	"github.com/Nighthawk42/desktopmate-installer/internal/console"
	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
	"github.com/Nighthawk42/desktopmate-installer/internal/procrun"
)

// ensureDepotDownloader downloads and extracts the DepotDownloader helper
// next to the installer when it is not already present.
func (r *runner) ensureDepotDownloader(ctx context.Context) error {
	exePath := r.depotDownloaderPath()
	if _, err := os.Stat(exePath); err == nil {
		return nil
	}

	console.Warn(depotDownloaderExe + " not found! Downloading now...")
	logger.Info(ctx, "DepotDownloader not found, initiating download")

	stagingZip := filepath.Join(os.TempDir(), fmt.Sprintf("DepotDownloader_%s.zip", uuid.NewString()))

	defer func() {
		_ = os.Remove(stagingZip)
	}()

	if err := r.fetcher.Download(ctx, r.cfg.DepotDownloaderURL, stagingZip); err != nil {
		return fmt.Errorf("download DepotDownloader: %w", err)
	}

	console.Success("Extracting DepotDownloader...")

	if err := archive.ExtractZip(stagingZip, filepath.Join(r.baseDir, depotDownloaderDir)); err != nil {
		return fmt.Errorf("extract DepotDownloader: %w", err)
	}

	if _, err := os.Stat(exePath); err != nil {
		return fmt.Errorf("%s still not found after extraction", depotDownloaderExe)
	}

	console.Success("DepotDownloader downloaded and extracted successfully.")
	logger.Info(ctx, "DepotDownloader ready")

	return nil
}

// fetchDepot downloads the game depot through DepotDownloader, streaming
// its output to the console and the install log. The step is skipped when
// the game data folder already exists.
func (r *runner) fetchDepot(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(r.targetDir, gameDataDir)); err == nil {
		console.Warn("DesktopMate files already exist. Skipping depot download.")
		logger.Info(ctx, "DesktopMate files already exist, skipping download")

		return nil
	}

	username, err := console.PromptRequired("Enter your Steam username")
	if err != nil {
		return err
	}

	password, err := console.PromptSecret("Enter your Steam password")
	if err != nil {
		return err
	}

	logger.Info(ctx, "Steam credentials collected")

	args := []string{
		"-app", r.cfg.SteamAppID,
		"-depot", r.cfg.SteamDepotID,
		"-manifest", r.cfg.SteamManifestID,
		"-username", username,
		"-password", password,
		"-dir", r.targetDir,
	}

	console.Info("Downloading DesktopMate depot (via DepotDownloader)...")

	exitCode, err := procrun.Run(ctx, r.depotDownloaderPath(), args, &procrun.Options{
		LogTag:   depotLogTag,
		MaskArgs: []string{password},
	})
	if err != nil {
		return fmt.Errorf("run DepotDownloader: %w", err)
	}

	if exitCode != 0 {
		return fmt.Errorf("DepotDownloader encountered an error, exit code = %d", exitCode)
	}

	console.Success("Depot download complete.")
	logger.Info(ctx, "Depot download complete")

	return nil
}

// depotDownloaderPath is the helper executable next to the installer.
func (r *runner) depotDownloaderPath() string {
	return filepath.Join(r.baseDir, depotDownloaderDir, depotDownloaderExe)
}
