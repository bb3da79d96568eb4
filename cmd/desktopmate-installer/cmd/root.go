package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nighthawk42/desktopmate-installer/internal/config"
	"github.com/Nighthawk42/desktopmate-installer/internal/service/installer"
	"github.com/Nighthawk42/desktopmate-installer/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// targetDir skips the installation path prompt when set.
	targetDir string

	// assumeYes accepts every confirmation prompt.
	assumeYes bool

	// rootCmd represents the base command for provisioning the game.
	rootCmd = &cobra.Command{
		Use:   "desktopmate-installer",
		Short: "Download, patch and mod the DesktopMate game",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &installer.Options{
				ConfigPath: configPath,
				TargetDir:  targetDir,
				Yes:        assumeYes,
			}

			return installer.Run(ctx, options)
		},
	}
)

// Execute runs the desktopmate-installer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&targetDir, "dir", "d", "", "installation directory (skips the prompt)")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "accept all confirmation prompts")
}
