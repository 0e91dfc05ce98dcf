package pkg

import (
	"os"
	"runtime"
	"sync"

	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/io"
	"github.com/ecopia-map/tiles_pipeline/internal/pipeline"
	"github.com/ecopia-map/tiles_pipeline/pkg/stage_manager"
	"github.com/ecopia-map/tiles_pipeline/tools"
	"github.com/golang/glog"
)

type StandardTilesetStageExecutor struct {
	fileFinder   tools.FileFinder
	stageManager stage_manager.StageManager
	numConsumers int
}

// NewTilesetStageExecutor creates a stage executor processing content items
// with numConsumers goroutines, one per CPU if numConsumers is not positive.
func NewTilesetStageExecutor(fileFinder tools.FileFinder, stageManager stage_manager.StageManager, numConsumers int) pipeline.TilesetStageExecutor {
	if numConsumers <= 0 {
		numConsumers = runtime.NumCPU()
	}
	return &StandardTilesetStageExecutor{
		fileFinder:   fileFinder,
		stageManager: stageManager,
		numConsumers: numConsumers,
	}
}

func (e *StandardTilesetStageExecutor) ExecuteTilesetStage(tilesetStage *pipeline.TilesetStage, inputRoot string, outputRoot string, overwrite bool) error {
	glog.Infof("> executing tileset stage %q: %s -> %s (overwrite=%v)", tilesetStage.Name, inputRoot, outputRoot, overwrite)

	stageConverters, err := e.resolveContentStages(tilesetStage)
	if err != nil {
		return err
	}

	info, err := os.Stat(inputRoot)
	if err != nil {
		return errors.Wrapf(err, "reading input %s", inputRoot)
	}
	if !info.IsDir() {
		return errors.Newf("input %s is not a directory", inputRoot)
	}

	if !overwrite {
		empty, err := tools.IsDirectoryEmpty(outputRoot)
		if err != nil {
			return errors.Wrapf(err, "checking output %s", outputRoot)
		}
		if !empty {
			return errors.WithHint(errors.Newf("output %s already exists", outputRoot), "pass -overwrite to replace existing output")
		}
	}
	if err := tools.CreateDirectoryIfDoesNotExist(outputRoot); err != nil {
		return errors.Wrapf(err, "creating output %s", outputRoot)
	}

	contentFiles, err := e.fileFinder.GetContentFilesToProcess(inputRoot)
	if err != nil {
		return errors.Wrapf(err, "listing content of %s", inputRoot)
	}
	glog.Infof("> processing %d content items with %d content stages", len(contentFiles), len(stageConverters))

	return e.processContent(inputRoot, outputRoot, contentFiles, stageConverters)
}

func (e *StandardTilesetStageExecutor) resolveContentStages(tilesetStage *pipeline.TilesetStage) ([]io.StageConverter, error) {
	stageConverters := make([]io.StageConverter, 0, len(tilesetStage.ContentStages))
	for i := range tilesetStage.ContentStages {
		contentStage := tilesetStage.ContentStages[i]
		converter, err := e.stageManager.GetContentConverter(&contentStage)
		if err != nil {
			return nil, err
		}
		stageConverters = append(stageConverters, io.StageConverter{Stage: contentStage, Converter: converter})
	}
	return stageConverters, nil
}

// Runs one producer and numConsumers consumers over the content items and
// returns the first error raised by a consumer.
func (e *StandardTilesetStageExecutor) processContent(inputRoot string, outputRoot string, contentFiles []string, stageConverters []io.StageConverter) error {
	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, e.numConsumers*5)

	// every consumer reports at most one error
	errorChannel := make(chan error, e.numConsumers)

	var waitGroup sync.WaitGroup

	waitGroup.Add(1)
	producer := io.NewStandardProducer(inputRoot, outputRoot, contentFiles)
	go producer.Produce(workChannel, &waitGroup)

	for i := 0; i < e.numConsumers; i++ {
		waitGroup.Add(1)
		consumer := io.NewStandardConsumer(stageConverters)
		go consumer.Consume(workChannel, errorChannel, &waitGroup)
	}

	waitGroup.Wait()
	close(errorChannel)

	var firstErr error
	for err := range errorChannel {
		if firstErr == nil {
			firstErr = err
			continue
		}
		glog.Infoln(err)
	}
	return firstErr
}
