package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	}
}

func names(t *testing.T, root string, files []string) []string {
	t.Helper()

	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, rel)
	}
	return out
}

func TestWalkIncludes(t *testing.T) {
	root := t.TempDir()
	populate(t, root, "a.txt", "b.md", "c.pdf", "sub/d.txt")

	w := NewWalker([]string{"**/*.txt", "**/*.md"}, nil)
	files, err := w.Walk(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.md", filepath.Join("sub", "d.txt")}, names(t, root, paths))
}

func TestWalkExcludesDirectories(t *testing.T) {
	root := t.TempDir()
	populate(t, root, "keep.txt", ".git/objects/x.txt", "node_modules/pkg/y.txt")

	w := NewWalker([]string{"**/*.txt"}, []string{"**/.git/**", "**/node_modules/**"})
	files, err := w.Walk(root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "keep.txt", filepath.Base(files[0].Path))
}

func TestWalkSortedOutput(t *testing.T) {
	root := t.TempDir()
	populate(t, root, "z.txt", "a.txt", "m.txt")

	w := NewWalker(nil, nil)
	files, err := w.Walk(root)
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, "a.txt", filepath.Base(files[0].Path))
	assert.Equal(t, "m.txt", filepath.Base(files[1].Path))
	assert.Equal(t, "z.txt", filepath.Base(files[2].Path))
}
