package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/google/uuid"

	"github.com/Nighthawk42/desktopmate-installer/internal/archive"
	"github.com/Nighthawk42/desktopmate-installer/internal/console"
	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
)

// errPatchMissing signals a well-formed patch archive without the expected DLL.
var errPatchMissing = errors.New(patchDLLName + " not found in the patch archive")

// patchFileMode is applied to the replaced game DLL.
const patchFileMode os.FileMode = 0o755

// applyOfflinePatch downloads the Goldberg emulator archive and replaces
// the game's Steam API DLL with the patched build.
func (r *runner) applyOfflinePatch(ctx context.Context) error {
	console.Info("Downloading Goldberg patch...")
	logger.Info(ctx, "Downloading Goldberg emulator patch")

	stagingZip := filepath.Join(os.TempDir(), fmt.Sprintf("goldberg_%s.zip", uuid.NewString()))

	defer func() {
		_ = os.Remove(stagingZip)
	}()

	if err := r.fetcher.Download(ctx, r.cfg.GoldbergPatchURL, stagingZip); err != nil {
		return fmt.Errorf("download Goldberg patch: %w", err)
	}

	// Stale staging state from a previous run is wiped, not merged.
	stagingDir := filepath.Join(os.TempDir(), "goldberg_extracted")
	if _, err := os.Stat(stagingDir); err == nil {
		if err = os.RemoveAll(stagingDir); err != nil {
			return fmt.Errorf("clean stale staging directory: %w", err)
		}
	}

	defer func() {
		_ = os.RemoveAll(stagingDir)
	}()

	if err := archive.ExtractZip(stagingZip, stagingDir); err != nil {
		return fmt.Errorf("extract Goldberg patch: %w", err)
	}

	patchDLL := filepath.Join(stagingDir, patchArchiveSubdir, patchDLLName)
	if _, err := os.Stat(patchDLL); err != nil {
		return errPatchMissing
	}

	targetDLL := filepath.Join(r.targetDir, gameDataDir, "Plugins", "x86_64", patchDLLName)
	if err := applyPatchDLL(patchDLL, targetDLL); err != nil {
		return err
	}

	console.Success("Goldberg patch applied successfully.")
	logger.InfoKV(ctx, "Goldberg patch applied", "target", targetDLL)

	return nil
}

// applyPatchDLL replaces targetDLL with the contents of patchDLL,
// creating the parent directory when the depot layout is not there yet.
func applyPatchDLL(patchDLL, targetDLL string) error {
	if err := os.MkdirAll(filepath.Dir(targetDLL), 0o755); err != nil {
		return fmt.Errorf("create patch target directory: %w", err)
	}

	data, err := os.Open(patchDLL)
	if err != nil {
		return fmt.Errorf("open patch DLL: %w", err)
	}

	defer func() {
		_ = data.Close()
	}()

	options := goupdate.Options{
		TargetPath: targetDLL,
		TargetMode: patchFileMode,
	}

	if err = goupdate.Apply(data, options); err != nil {
		return fmt.Errorf("apply patch DLL: %w", err)
	}

	// go-update leaves the previous file behind as .old; drop it.
	oldDLL := targetDLL + ".old"
	if _, err = os.Stat(oldDLL); err == nil {
		_ = os.Remove(oldDLL)
	}

	return nil
}
