package stage_manager

import (
	"github.com/ecopia-map/tiles_pipeline/internal/converters"
	"github.com/ecopia-map/tiles_pipeline/internal/pipeline"
)

type StageManager interface {
	GetContentConverter(contentStage *pipeline.ContentStage) (converters.ContentConverter, error)
}
