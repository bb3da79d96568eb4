// Package marker persists version markers for installed components.
//
// A marker is a single-line text token (a release tag) stored at a fixed
// filename under the installation root. An absent marker means the
// component is not installed. The marker is the sole source of truth for
// "up to date": file contents are never checksummed or inspected.
package marker
