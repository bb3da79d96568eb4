// Package release resolves the latest published release of a GitHub
// repository to a tag and a downloadable asset URL.
//
// Failures are classified by sentinel errors so callers can distinguish a
// network problem (ErrTransport), a malformed response (ErrDecode) and a
// release that simply does not carry a matching asset (ErrNoAsset).
package release
