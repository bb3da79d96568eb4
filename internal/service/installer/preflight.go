package installer

import (
	"context"
	"errors"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/Nighthawk42/desktopmate-installer/internal/console"
	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
)

// errGameRunning aborts the run when the user refuses to continue while
// the game is still open.
var errGameRunning = errors.New("DesktopMate is running, close it and run the installer again")

// checkRunningGame refuses to patch files that the running game holds open.
// The user may choose to continue anyway after a warning.
func (r *runner) checkRunningGame(ctx context.Context) error {
	running, err := isProcessRunning(gameExecutable)
	if err != nil {
		// Process inspection is best effort: some environments restrict it.
		logger.WarnKV(ctx, "Could not inspect running processes", "error", err)
		return nil
	}

	if !running {
		return nil
	}

	console.Warn("DesktopMate appears to be running. Installing while the game is open may fail.")
	logger.Warn(ctx, "DesktopMate process detected before install")

	if !r.confirm("Continue anyway?") {
		return errGameRunning
	}

	return nil
}

// isProcessRunning reports whether a process with the given executable
// name exists.
func isProcessRunning(executable string) (bool, error) {
	processes, err := ps.Processes()
	if err != nil {
		return false, err
	}

	for _, process := range processes {
		if strings.EqualFold(process.Executable(), executable) {
			return true, nil
		}
	}

	return false, nil
}
