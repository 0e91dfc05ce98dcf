package pkg

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/pipeline"
	"github.com/ecopia-map/tiles_pipeline/internal/scratch"
	"github.com/golang/glog"
)

const stageDirectoryPrefix = "stage-"

var nonWordCharacters = regexp.MustCompile(`[^\w\s]`)

var _ pipeline.IPipelineExecutor = (*PipelineExecutor)(nil)

type PipelineExecutor struct {
	tilesetStageExecutor pipeline.TilesetStageExecutor
	scratchProvider      scratch.Provider
	progressListener     pipeline.ProgressListener
}

func NewPipelineExecutor(tilesetStageExecutor pipeline.TilesetStageExecutor, scratchProvider scratch.Provider) *PipelineExecutor {
	return &PipelineExecutor{
		tilesetStageExecutor: tilesetStageExecutor,
		scratchProvider:      scratchProvider,
	}
}

func (e *PipelineExecutor) SetProgressListener(listener pipeline.ProgressListener) {
	e.progressListener = listener
}

// ExecutePipeline runs the tileset stages in order. Every stage reads the
// output of the previous one; intermediate outputs live in a scratch root
// that is released when the run ends, whether it succeeded or not. Only the
// last stage writes to the pipeline output, with the given overwrite flag.
func (e *PipelineExecutor) ExecutePipeline(p *pipeline.Pipeline, overwrite bool) error {
	glog.Infoln("Executing pipeline")

	tilesetStages := p.TilesetStages
	if len(tilesetStages) == 0 {
		return errors.NewPipelineExecutionError(errors.New("pipeline has no tileset stages"))
	}

	var scratchRoot scratch.Root
	if len(tilesetStages) > 1 {
		var err error
		scratchRoot, err = e.scratchProvider.Acquire()
		if err != nil {
			return errors.NewPipelineExecutionError(err)
		}
		defer func() {
			if err := scratchRoot.Release(); err != nil {
				glog.Warningf("releasing scratch root: %v", err)
			}
		}()
	}

	currentInput := p.Input
	for t := range tilesetStages {
		tilesetStage := &tilesetStages[t]

		glog.Infof("  Executing tilesetStage %d of %d: %s", t, len(tilesetStages), tilesetStage.Name)
		if e.progressListener != nil {
			e.progressListener(t, len(tilesetStages), tilesetStage.Name)
		}

		var currentOutput string
		var currentOverwrite bool
		if t == len(tilesetStages)-1 {
			currentOutput = p.Output
			currentOverwrite = overwrite
		} else {
			currentOutput = IntermediateStagePath(scratchRoot.Path(), t, tilesetStage.Name)
			currentOverwrite = true
		}

		err := e.tilesetStageExecutor.ExecuteTilesetStage(tilesetStage, currentInput, currentOutput, currentOverwrite)
		if err != nil {
			return errors.NewPipelineExecutionError(errors.NewStageExecutionError(t, tilesetStage.Name, err))
		}
		currentInput = currentOutput
	}

	glog.Infoln("Executing pipeline DONE")
	return nil
}

// IntermediateStagePath is the directory receiving the output of the
// tileset stage with the given index. Characters other than word characters
// and whitespace are removed from the stage name; the index keeps stages with
// equal names apart.
func IntermediateStagePath(scratchRoot string, index int, name string) string {
	nameSuffix := nonWordCharacters.ReplaceAllString(name, "")
	return filepath.Join(scratchRoot, fmt.Sprintf("%s%d-%s", stageDirectoryPrefix, index, nameSuffix))
}
