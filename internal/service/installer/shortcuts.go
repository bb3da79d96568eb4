package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Nighthawk42/desktopmate-installer/internal/console"
	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
	"github.com/Nighthawk42/desktopmate-installer/internal/shortcut"
)

// createShortcuts places the console and no-console launch shortcuts
// on the user's desktop. Both point at the game executable; the
// no-console variant passes the MelonLoader flag that hides its window.
func (r *runner) createShortcuts(ctx context.Context) error {
	console.Info("Creating desktop shortcuts...")

	desktop, err := shortcut.DesktopDir()
	if err != nil {
		return fmt.Errorf("locate desktop directory: %w", err)
	}

	target := filepath.Join(r.targetDir, gameExecutable)

	links := []struct {
		name      string
		arguments string
	}{
		{name: shortcutConsole},
		{name: shortcutNoConsole, arguments: hideConsoleArgument},
	}

	for _, link := range links {
		linkPath := filepath.Join(desktop, link.name)

		if err = r.shortcuts.Create(ctx, linkPath, target, r.targetDir, link.arguments); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Shortcut created", "path", linkPath)
	}

	console.Success("Desktop shortcuts created.")

	return nil
}
