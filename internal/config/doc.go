// Package config defines installer settings and provides helpers to load,
// validate and save them in YAML format.
//
// Settings cover the default installation directory, the Steam depot
// coordinates of the game, and the URLs the installer downloads from.
// The config file is optional: when it is absent, built-in defaults apply.
package config
