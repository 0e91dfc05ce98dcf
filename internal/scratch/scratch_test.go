package scratch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempProviderReleaseDeletes(t *testing.T) {
	root, err := NewTempProvider().Acquire()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(root.Path()), "tiles-pipeline-"))
	require.NoError(t, os.WriteFile(filepath.Join(root.Path(), "f"), []byte("x"), 0666))

	require.NoError(t, root.Release())
	_, err = os.Stat(root.Path())
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, root.Release())
}

func TestDebugProviderKeep(t *testing.T) {
	base := filepath.Join(t.TempDir(), "TEMP")

	kept, err := NewDebugProvider(base, true).Acquire()
	require.NoError(t, err)
	assert.Equal(t, base, filepath.Dir(kept.Path()))
	require.NoError(t, kept.Release())
	_, err = os.Stat(kept.Path())
	assert.NoError(t, err)

	dropped, err := NewDebugProvider(base, false).Acquire()
	require.NoError(t, err)
	require.NoError(t, dropped.Release())
	_, err = os.Stat(dropped.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestConcurrentAcquireNeverCollides(t *testing.T) {
	provider := NewDebugProvider(t.TempDir(), false)

	const runs = 32
	paths := make([]string, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			root, err := provider.Acquire()
			if assert.NoError(t, err) {
				paths[i] = root.Path()
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		assert.False(t, seen[p], "duplicate scratch root %s", p)
		seen[p] = true
	}
}
