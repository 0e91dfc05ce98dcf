package tools

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/golang/glog"
)

const (
	basisuEnv         = "TILES_PIPELINE_BASISU"
	basisuProgramName = "basisu"
)

// GetBasisuProgramLocation resolves the basisu encoder binary: the
// TILES_PIPELINE_BASISU environment variable wins, then a basisu binary next
// to the executable, then whatever is found on the PATH.
func GetBasisuProgramLocation() string {
	if fromEnv := os.Getenv(basisuEnv); fromEnv != "" {
		return fromEnv
	}
	if ex, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(ex), basisuProgramName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	} else {
		glog.Warningf("cannot retrieve executable directory: %v", err)
	}
	if onPath, err := exec.LookPath(basisuProgramName); err == nil {
		return onPath
	}
	return basisuProgramName
}

func CreateDirectoryIfDoesNotExist(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err := os.MkdirAll(directory, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

// IsDirectoryEmpty reports whether the directory has no entries. A missing
// directory counts as empty.
func IsDirectoryEmpty(directory string) (bool, error) {
	dir, err := os.Open(directory)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	defer dir.Close()

	_, err = dir.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}
