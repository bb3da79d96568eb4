package marker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Repository defines persistence operations for a component's version marker.
type Repository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, tag string) error
}

// ErrNotFound is returned when the marker file does not exist yet.
var ErrNotFound = errors.New("version marker not found")

// filePermissions is applied to marker files on save.
const filePermissions os.FileMode = 0o644

// FileRepository persists a version marker to a one-line text file on disk.
type FileRepository struct {
	// path is the filesystem location of the marker file.
	path string
	// mu protects concurrent access to the marker file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes the marker at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the persisted tag, trimming surrounding whitespace.
func (r *FileRepository) Load(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("read marker file: %w", err)
	}

	return strings.TrimSpace(string(contents)), nil
}

// Save writes the tag as the marker, overwriting any previous value.
func (r *FileRepository) Save(_ context.Context, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.WriteFile(r.path, []byte(tag+"\n"), filePermissions); err != nil {
		return fmt.Errorf("write marker file: %w", err)
	}

	return nil
}
