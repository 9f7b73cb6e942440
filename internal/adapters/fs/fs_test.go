package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/scout/internal/adapters/fs"
	"go.trai.ch/scout/internal/core/domain"
)

func TestStat(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o600))

	t.Run("existing file", func(t *testing.T) {
		meta, err := fs.Stat(file)
		require.NoError(t, err)
		assert.True(t, meta.Exists)
		assert.False(t, meta.IsDirectory)
		assert.Equal(t, int64(5), meta.SizeBytes)
	})

	t.Run("existing directory", func(t *testing.T) {
		meta, err := fs.Stat(root)
		require.NoError(t, err)
		assert.True(t, meta.Exists)
		assert.True(t, meta.IsDirectory)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := fs.Stat(filepath.Join(root, "nope"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReadable(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o600))

	assert.NoError(t, fs.Readable(file))
	assert.ErrorIs(t, fs.Readable(filepath.Join(root, "nope")), domain.ErrNotFound)
}

func TestIssueCode(t *testing.T) {
	root := t.TempDir()

	_, err := fs.Stat(filepath.Join(root, "nope"))
	assert.Equal(t, domain.CodeNotFound, fs.IssueCode(err))

	assert.Equal(t, domain.CodePermissionDenied, fs.IssueCode(domain.ErrPermissionDenied))
	assert.Equal(t, domain.CodeUnknown, fs.IssueCode(domain.ErrUnknownIO))
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	}
	mustWrite("main.go")
	mustWrite("sub/helper.go")
	mustWrite("sub/notes.md")
	mustWrite(".git/config")
	mustWrite("vendor/dep.go")

	collect := func(ignores []string) []string {
		var paths []string
		for path := range fs.NewWalker().WalkFiles(root, ignores) {
			rel, err := filepath.Rel(root, path)
			require.NoError(t, err)
			paths = append(paths, rel)
		}
		return paths
	}

	t.Run("skips version control metadata", func(t *testing.T) {
		paths := collect(nil)
		assert.ElementsMatch(t, []string{"main.go", filepath.Join("sub", "helper.go"), filepath.Join("sub", "notes.md"), filepath.Join("vendor", "dep.go")}, paths)
	})

	t.Run("ignore pattern drops directories", func(t *testing.T) {
		paths := collect([]string{"vendor"})
		assert.NotContains(t, paths, filepath.Join("vendor", "dep.go"))
		assert.Contains(t, paths, "main.go")
	})

	t.Run("ignore pattern drops files without skipping siblings", func(t *testing.T) {
		paths := collect([]string{"*.md"})
		assert.NotContains(t, paths, filepath.Join("sub", "notes.md"))
		assert.Contains(t, paths, filepath.Join("sub", "helper.go"))
	})

	t.Run("early break stops the walk", func(t *testing.T) {
		count := 0
		for range fs.NewWalker().WalkFiles(root, nil) {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}
