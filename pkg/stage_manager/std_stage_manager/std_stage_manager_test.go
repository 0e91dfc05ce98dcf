package std_stage_manager

import (
	"testing"

	"github.com/ecopia-map/tiles_pipeline/internal/converters"
	"github.com/ecopia-map/tiles_pipeline/internal/converters/gzip_converter"
	"github.com/ecopia-map/tiles_pipeline/internal/converters/ktx_converter"
	"github.com/ecopia-map/tiles_pipeline/internal/converters/pnts"
	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/ktx"
	"github.com/ecopia-map/tiles_pipeline/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContentConverter(t *testing.T) {
	manager := NewStageManager(ktx.NewBasisuBlockEncoderFactory("basisu"))

	cases := map[pipeline.ContentStageName]interface{}{
		pipeline.ContentStageImagesToKtx:          &ktx_converter.KtxConverter{},
		pipeline.ContentStagePntsDecodeAttributes: &pnts.AttributeDecoder{},
		pipeline.ContentStageGzip:                 &gzip_converter.GzipConverter{},
		pipeline.ContentStageUngzip:               &gzip_converter.UngzipConverter{},
		pipeline.ContentStageCopy:                 &converters.IdentityConverter{},
	}
	for name, expected := range cases {
		converter, err := manager.GetContentConverter(&pipeline.ContentStage{Name: name})
		require.NoError(t, err, name)
		assert.IsType(t, expected, converter, name)
	}
}

func TestGetContentConverterUnknownStage(t *testing.T) {
	manager := NewStageManager(ktx.NewBasisuBlockEncoderFactory("basisu"))

	_, err := manager.GetContentConverter(&pipeline.ContentStage{Name: "b3dmToGlb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b3dmToGlb")
	assert.Contains(t, errors.FlattenHints(err), "imagesToKtx")
}
