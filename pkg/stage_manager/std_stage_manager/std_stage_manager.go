package std_stage_manager

import (
	"github.com/ecopia-map/tiles_pipeline/internal/converters"
	"github.com/ecopia-map/tiles_pipeline/internal/converters/gzip_converter"
	"github.com/ecopia-map/tiles_pipeline/internal/converters/ktx_converter"
	"github.com/ecopia-map/tiles_pipeline/internal/converters/pnts"
	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/ktx"
	"github.com/ecopia-map/tiles_pipeline/internal/pipeline"
	"github.com/ecopia-map/tiles_pipeline/pkg/stage_manager"
	"github.com/klauspost/compress/gzip"
)

type StandardStageManager struct {
	ktxConverter *ktx.Converter
}

func NewStageManager(blockEncoderFactory ktx.BlockEncoderFactory) stage_manager.StageManager {
	return &StandardStageManager{
		ktxConverter: ktx.NewConverter(blockEncoderFactory),
	}
}

func (m *StandardStageManager) GetContentConverter(contentStage *pipeline.ContentStage) (converters.ContentConverter, error) {
	switch contentStage.Name {
	case pipeline.ContentStageImagesToKtx:
		return ktx_converter.NewKtxConverter(m.ktxConverter, contentStage.Options), nil
	case pipeline.ContentStagePntsDecodeAttributes:
		return pnts.NewAttributeDecoder(), nil
	case pipeline.ContentStageGzip:
		return gzip_converter.NewGzipConverter(gzip.DefaultCompression), nil
	case pipeline.ContentStageUngzip:
		return gzip_converter.NewUngzipConverter(), nil
	case pipeline.ContentStageCopy:
		return converters.NewIdentityConverter(), nil
	}
	return nil, errors.WithHintf(
		errors.Newf("unknown content stage %q", contentStage.Name),
		"content stage must be one of [%s|%s|%s|%s|%s]",
		pipeline.ContentStageImagesToKtx, pipeline.ContentStagePntsDecodeAttributes,
		pipeline.ContentStageGzip, pipeline.ContentStageUngzip, pipeline.ContentStageCopy,
	)
}
