package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInsecurePath indicates an archive entry whose path would resolve
// outside the extraction destination.
var ErrInsecurePath = errors.New("archive entry escapes destination")

const (
	// dirPermissions is applied to directories created during extraction.
	dirPermissions os.FileMode = 0o755

	// filePermissions is applied to extracted files.
	filePermissions os.FileMode = 0o644
)

// ExtractZip expands the archive at src into the directory dest,
// creating parent directories as needed. Directory entries become empty
// directories, file entries become files with identical byte content.
func ExtractZip(src, dest string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = reader.Close()
	}()

	if err = os.MkdirAll(dest, dirPermissions); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	for _, entry := range reader.File {
		if err = extractEntry(entry, dest); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry writes a single archive entry under dest.
func extractEntry(entry *zip.File, dest string) error {
	target, err := secureJoin(dest, entry.Name)
	if err != nil {
		return err
	}

	if entry.FileInfo().IsDir() {
		if err = os.MkdirAll(target, dirPermissions); err != nil {
			return fmt.Errorf("create directory %s: %w", entry.Name, err)
		}

		return nil
	}

	if err = os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
		return fmt.Errorf("create parent of %s: %w", entry.Name, err)
	}

	source, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}

	defer func() {
		_ = source.Close()
	}()

	output, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions)
	if err != nil {
		return fmt.Errorf("create file %s: %w", entry.Name, err)
	}

	if _, err = io.Copy(output, source); err != nil {
		_ = output.Close()

		return fmt.Errorf("write file %s: %w", entry.Name, err)
	}

	if err = output.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", entry.Name, err)
	}

	return nil
}

// secureJoin resolves an archive entry name under dest,
// rejecting absolute paths and parent-directory escapes.
func secureJoin(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrInsecurePath, name)
	}

	return filepath.Join(dest, cleaned), nil
}

// EffectiveRoot returns the payload root of an extracted tree.
// Archives often wrap their contents in a single top-level folder;
// when dir holds exactly one entry and it is a directory, that directory
// is the effective root, otherwise dir itself is.
func EffectiveRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read extracted tree: %w", err)
	}

	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}

	return dir, nil
}

// CopyDir recursively copies src into dst, merging into any existing
// directory of the same name and overwriting conflicting files.
func CopyDir(src, dst string) error {
	if err := os.MkdirAll(dst, dirPermissions); err != nil {
		return fmt.Errorf("create directory %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", src, err)
	}

	for _, entry := range entries {
		sourcePath := filepath.Join(src, entry.Name())
		targetPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err = CopyDir(sourcePath, targetPath); err != nil {
				return err
			}

			continue
		}

		if err = copyFile(sourcePath, targetPath); err != nil {
			return err
		}
	}

	return nil
}

// copyFile copies a single regular file, replacing any existing target.
func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	defer func() {
		_ = source.Close()
	}()

	target, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()

		return fmt.Errorf("copy %s: %w", dst, err)
	}

	return target.Close()
}
