// Package archive expands zip archives and relocates their payload.
//
// Extraction recreates every entry's relative path under the destination
// root. Entries whose path would escape the destination are rejected with
// ErrInsecurePath; this is a correctness requirement, not hardening.
package archive
