package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContentFilesToProcess(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b", "c"), 0777))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0777))
	for _, name := range []string{"tileset.json", "b/c/content.pnts", "b/texture.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte("x"), 0666))
	}

	files, err := NewStandardFileFinder().GetContentFilesToProcess(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"b/c/content.pnts", "b/texture.png", "tileset.json"}, files)
}

func TestGetContentFilesToProcessMissingRoot(t *testing.T) {
	_, err := NewStandardFileFinder().GetContentFilesToProcess(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIsDirectoryEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirectoryEmpty(dir)
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = IsDirectoryEmpty(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), nil, 0666))
	empty, err = IsDirectoryEmpty(dir)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestConvertIntToByteArray(t *testing.T) {
	assert.Equal(t, []byte{0x1c, 0, 0, 0}, ConvertIntToByteArray(28))
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, ConvertIntToByteArray(0x01020304))
}

func TestIsFloatEqual(t *testing.T) {
	assert.True(t, IsFloatEqual(1.0, 1.0000001))
	assert.True(t, IsFloatEqual(1.0000001, 1.0))
	assert.False(t, IsFloatEqual(1.0, 1.1))
	assert.False(t, IsFloatEqual(1.1, 1.0))
}
