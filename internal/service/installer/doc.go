// Package installer sequences the full DesktopMate provisioning flow:
// prompt for the installation path, fetch the game depot through
// DepotDownloader, apply the offline patch, install the MelonLoader
// mod-loader and the Custom Avatar Loader mod, and create desktop
// shortcuts.
//
// Every step runs once, in a fixed order. Existence checks and version
// markers are the only idempotence guards. All fatal conditions funnel
// through a single log-display-pause terminal action; the process exit
// code stays zero on handled-error paths.
package installer
