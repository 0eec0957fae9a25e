package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestListFiltersImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.JPG")
	writeFile(t, dir, "a.png")
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "invitation-placeholder.svg")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	c := NewCatalog(dir, nil)
	files, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"/images/a.png", "/images/b.JPG", "/images/invitation-placeholder.svg"}, files)
}

func TestListMissingDirectory(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "missing"), nil)
	files, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NotNil(t, files)
	require.NoError(t, c.Watch(context.Background()))
}

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.jpeg", "a.PNG", "a.gif", "a.webp", "a.svg"} {
		assert.True(t, IsImage(name), name)
	}
	assert.False(t, IsImage("a.bmp"))
	assert.False(t, IsImage("jpg"))
}

func TestWatchPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewCatalog(dir, nil)
	require.NoError(t, c.Watch(ctx))

	files, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"/images/a.png"}, files)

	writeFile(t, dir, "b.webp")
	require.Eventually(t, func() bool {
		files, err := c.List()
		return err == nil && len(files) == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestHas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	c := NewCatalog(dir, nil)
	assert.True(t, c.Has("a.png"))
	assert.False(t, c.Has("missing.png"))
	assert.False(t, c.Has("sub.png"))
	assert.False(t, c.Has("../a.png"))
	assert.False(t, c.Has(""))
}
