package installer

import (
	"github.com/Nighthawk42/desktopmate-installer/internal/component"
)

const (
	// appTitle names the console window and the startup banner.
	appTitle = "DesktopMate Installer"

	// gameExecutable is the installed game binary.
	gameExecutable = "DesktopMate.exe"

	// gameDataDir is the depot payload folder whose presence marks a
	// completed depot fetch.
	gameDataDir = "DesktopMate_Data"

	// depotDownloaderDir and depotDownloaderExe locate the helper
	// next to the installer binary.
	depotDownloaderDir = "DepotDownloader"
	depotDownloaderExe = "DepotDownloader.exe"

	// depotLogTag labels DepotDownloader output lines in the install log.
	depotLogTag = "DD"

	// patchDLLName is the offline patch library.
	patchDLLName = "steam_api64.dll"

	// patchArchiveSubdir is where the patch archive keeps the x64 build.
	patchArchiveSubdir = "experimental"

	// melonLoaderTag and melonLoaderURL pin the mod-loader release.
	// Newer MelonLoader builds are not validated against the game.
	melonLoaderTag = "v0.6.6"
	melonLoaderURL = "https://github.com/LavaGang/MelonLoader/releases/download/v0.6.6/MelonLoader.x64.zip"

	// Shortcut filenames created on the desktop.
	shortcutConsole   = "DesktopMate_Console.lnk"
	shortcutNoConsole = "DesktopMate_NoConsole.lnk"

	// hideConsoleArgument suppresses the MelonLoader console window.
	hideConsoleArgument = "melonloader.hideconsole"
)

// melonLoaderComponent is the pinned mod-loader install unit. Its archive
// is extracted straight into the installation root.
func melonLoaderComponent() component.Component {
	return component.Component{
		Name:          "MelonLoader",
		MarkerFile:    "MelonLoader.version",
		ExtractToRoot: true,
		PinnedTag:     melonLoaderTag,
		PinnedURL:     melonLoaderURL,
	}
}

// avatarLoaderComponent is the Custom Avatar Loader mod install unit,
// tracked against its latest GitHub release and update-gated by a prompt.
func avatarLoaderComponent() component.Component {
	return component.Component{
		Name:          "Custom Avatar Loader",
		Owner:         "YusufOzmen01",
		Repo:          "desktopmate-custom-avatar-loader",
		AssetFilter:   "CustomAvatarLoader.zip",
		MarkerFile:    "CustomAvatarLoader.version",
		PayloadDirs:   []string{"Mods", "UserLibs"},
		ConfirmUpdate: true,
	}
}
