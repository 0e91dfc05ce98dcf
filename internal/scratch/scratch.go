// Package scratch allocates the directories holding intermediate tileset
// stage outputs of a pipeline run.
package scratch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Root is an allocated scratch directory. Release must be called exactly
// once the run no longer needs it; further calls are no-ops.
type Root interface {
	Path() string
	Release() error
}

// Provider allocates a fresh scratch root per pipeline run. Two roots handed
// out by a provider never share a path.
type Provider interface {
	Acquire() (Root, error)
}

type DirectoryProvider struct {
	baseDir string
	prefix  string
	keep    bool
}

// NewTempProvider allocates roots in the system temp directory and deletes
// them on release.
func NewTempProvider() *DirectoryProvider {
	return &DirectoryProvider{
		baseDir: os.TempDir(),
		prefix:  "tiles-pipeline-",
	}
}

// NewDebugProvider allocates roots below a fixed directory so intermediate
// outputs are easy to find. With keep set they survive the run.
func NewDebugProvider(baseDir string, keep bool) *DirectoryProvider {
	return &DirectoryProvider{
		baseDir: baseDir,
		prefix:  "run-",
		keep:    keep,
	}
}

func (p *DirectoryProvider) Acquire() (Root, error) {
	if err := os.MkdirAll(p.baseDir, 0777); err != nil {
		return nil, errors.Wrapf(err, "creating scratch base directory %s", p.baseDir)
	}

	path := filepath.Join(p.baseDir, p.prefix+uuid.NewString())
	// Mkdir fails on an existing directory, so a root is never shared
	if err := os.Mkdir(path, 0777); err != nil {
		return nil, errors.Wrapf(err, "creating scratch directory %s", path)
	}
	glog.Infof("Using scratch directory %s", path)

	return &directoryRoot{path: path, keep: p.keep}, nil
}

type directoryRoot struct {
	path string
	keep bool
	once sync.Once
	err  error
}

func (r *directoryRoot) Path() string {
	return r.path
}

func (r *directoryRoot) Release() error {
	r.once.Do(func() {
		if r.keep {
			glog.Infof("Keeping scratch directory %s", r.path)
			return
		}
		if err := os.RemoveAll(r.path); err != nil {
			r.err = errors.Wrapf(err, "removing scratch directory %s", r.path)
		}
	})
	return r.err
}
