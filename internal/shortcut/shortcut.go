// Package shortcut creates Windows desktop shortcuts by driving the
// WScript.Shell scripting host through PowerShell.
package shortcut

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// errNoDesktopDir indicates the user's desktop directory could not be located.
var errNoDesktopDir = fmt.Errorf("cannot determine desktop directory")

// commandRunner executes the shortcut script; injectable for tests.
type commandRunner func(ctx context.Context, name string, args ...string) error

// Creator builds desktop shortcuts.
type Creator struct {
	run commandRunner
}

// NewCreator returns a Creator that shells out to PowerShell.
func NewCreator() *Creator {
	return &Creator{
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// NewCreatorWithRunner returns a Creator with a custom command runner.
func NewCreatorWithRunner(run commandRunner) *Creator {
	return &Creator{run: run}
}

// DesktopDir resolves the user's desktop directory from the home directory.
func DesktopDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errNoDesktopDir
	}

	return filepath.Join(home, "Desktop"), nil
}

// Create writes a .lnk shortcut at linkPath pointing at target, with the
// given working directory and optional argument string.
func (c *Creator) Create(ctx context.Context, linkPath, target, workingDir, arguments string) error {
	script := buildScript(linkPath, target, workingDir, arguments)

	if err := c.run(ctx, "powershell", "-NoProfile", "-Command", script); err != nil {
		return fmt.Errorf("create shortcut %s: %w", filepath.Base(linkPath), err)
	}

	return nil
}

// buildScript renders the WScript.Shell snippet for one shortcut.
func buildScript(linkPath, target, workingDir, arguments string) string {
	var b strings.Builder

	b.WriteString("$WshShell = New-Object -ComObject WScript.Shell; ")
	fmt.Fprintf(&b, "$Shortcut = $WshShell.CreateShortcut(%q); ", linkPath)
	fmt.Fprintf(&b, "$Shortcut.TargetPath = %q; ", target)
	fmt.Fprintf(&b, "$Shortcut.WorkingDirectory = %q; ", workingDir)

	if strings.TrimSpace(arguments) != "" {
		fmt.Fprintf(&b, "$Shortcut.Arguments = %q; ", arguments)
	}

	b.WriteString("$Shortcut.Save();")

	return b.String()
}
