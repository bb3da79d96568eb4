// Package component implements the idempotent fetch-and-apply update
// routine for versioned installer components.
//
// A component's on-disk state is considered up to date iff its persisted
// version marker equals the latest resolved release tag. The installer
// trusts the marker exclusively; it never checksums installed files.
package component
