package tools

import (
	"io/fs"
	"path/filepath"
)

type FileFinder interface {
	// GetContentFilesToProcess lists every regular file below the input root
	// as a slash separated path relative to the root, in lexical order.
	GetContentFilesToProcess(inputRoot string) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetContentFilesToProcess(inputRoot string) ([]string, error) {
	var contentFiles = make([]string, 0)

	err := filepath.WalkDir(
		inputRoot,
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(inputRoot, path)
			if err != nil {
				return err
			}
			contentFiles = append(contentFiles, filepath.ToSlash(rel))
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return contentFiles, nil
}
