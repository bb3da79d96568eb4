package marker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing marker.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "MelonLoader.version"))

	tag, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, tag)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns the tag.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "CustomAvatarLoader.version")
	repo := NewFileRepository(file)

	require.NoError(t, repo.Save(context.Background(), "v2.3.0"))

	tag, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v2.3.0", tag)

	// Overwrite on update.
	require.NoError(t, repo.Save(context.Background(), "v2.4.0"))

	tag, err = repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v2.4.0", tag)

	_, err = os.Stat(file)
	require.NoError(t, err)
}

// TestFileRepository_TrimsWhitespace checks tolerance for markers written by hand.
func TestFileRepository_TrimsWhitespace(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "MelonLoader.version")
	require.NoError(t, os.WriteFile(file, []byte("  v0.6.6\r\n"), 0o644))

	tag, err := NewFileRepository(file).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v0.6.6", tag)
}
