package pipeline

// TilesetStageExecutor applies every content stage of a tileset stage to
// every content item below the input root and writes the results below the
// output root.
//
// The output root is created if it does not exist. With overwrite set to
// false an existing, non-empty output root is an error.
type TilesetStageExecutor interface {
	ExecuteTilesetStage(tilesetStage *TilesetStage, inputRoot string, outputRoot string, overwrite bool) error
}

type IPipelineExecutor interface {
	ExecutePipeline(pipeline *Pipeline, overwrite bool) error
}

// ProgressListener is notified before each tileset stage runs.
type ProgressListener func(index int, total int, name string)
