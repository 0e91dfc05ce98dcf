package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/tiles_pipeline/internal/data"
	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/ktx"
	"gopkg.in/yaml.v3"
)

type ContentStageName string

const (
	// Re-encodes PNG, JPEG, GIF, BMP, TIFF and WebP images as KTX2.
	ContentStageImagesToKtx ContentStageName = "imagesToKtx"

	// Rewrites oct-encoded normals and RGB565 colors of PNTS point clouds
	// into plain NORMAL and RGB attributes.
	ContentStagePntsDecodeAttributes ContentStageName = "pntsDecodeAttributes"

	ContentStageGzip   ContentStageName = "gzip"
	ContentStageUngzip ContentStageName = "ungzip"
	ContentStageCopy   ContentStageName = "copy"
)

// Pipeline is an ordered sequence of tileset stages turning the input
// tileset into the output tileset.
type Pipeline struct {
	Input         string         `json:"input" yaml:"input"`
	Output        string         `json:"output" yaml:"output"`
	TilesetStages []TilesetStage `json:"tilesetStages" yaml:"tilesetStages"`
}

// TilesetStage is one named step of a pipeline. Its content stages are
// applied to every content item of the stage input.
type TilesetStage struct {
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	ContentStages []ContentStage `json:"contentStages,omitempty" yaml:"contentStages,omitempty"`
}

type ContentStage struct {
	Name                 ContentStageName `json:"name" yaml:"name"`
	Description          string           `json:"description,omitempty" yaml:"description,omitempty"`
	IncludedContentTypes []string         `json:"includedContentTypes,omitempty" yaml:"includedContentTypes,omitempty"`
	ExcludedContentTypes []string         `json:"excludedContentTypes,omitempty" yaml:"excludedContentTypes,omitempty"`
	Options              *ktx.Options     `json:"options,omitempty" yaml:"options,omitempty"`
}

// Accepts reports whether the content stage applies to items of the given
// type according to its include and exclude lists.
func (s *ContentStage) Accepts(contentType data.ContentType) bool {
	for _, excluded := range s.ExcludedContentTypes {
		if data.ContentType(excluded) == contentType {
			return false
		}
	}
	if len(s.IncludedContentTypes) == 0 {
		return true
	}
	for _, included := range s.IncludedContentTypes {
		if data.ContentType(included) == contentType {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the pipeline.
func (p *Pipeline) Validate() error {
	if p.Input == "" {
		return errors.New("pipeline input is empty")
	}
	if p.Output == "" {
		return errors.New("pipeline output is empty")
	}
	if len(p.TilesetStages) == 0 {
		return errors.WithHint(errors.New("pipeline has no tileset stages"), "add at least one entry to tilesetStages")
	}
	return nil
}

// ReadPipelineFile reads a pipeline descriptor. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func ReadPipelineFile(fileName string) (*Pipeline, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading pipeline %s", fileName)
	}

	var p Pipeline
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &p)
	default:
		err = json.Unmarshal(content, &p)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing pipeline %s", fileName)
	}

	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid pipeline %s", fileName)
	}
	return &p, nil
}
