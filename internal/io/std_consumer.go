package io

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ecopia-map/tiles_pipeline/internal/converters"
	"github.com/ecopia-map/tiles_pipeline/internal/data"
	"github.com/ecopia-map/tiles_pipeline/internal/errors"
	"github.com/ecopia-map/tiles_pipeline/internal/pipeline"
	"github.com/ecopia-map/tiles_pipeline/tools"
	"github.com/golang/glog"
)

// StageConverter is a content stage together with the converter
// implementing it.
type StageConverter struct {
	Stage     pipeline.ContentStage
	Converter converters.ContentConverter
}

type StandardConsumer struct {
	stageConverters []StageConverter
}

func NewStandardConsumer(stageConverters []StageConverter) *StandardConsumer {
	return &StandardConsumer{
		stageConverters: stageConverters,
	}
}

// Continually consumes WorkUnits submitted to a work channel, applying every
// content stage to the item and writing the result below the output root.
// After the first error the consumer submits it to the error channel and
// only drains the remaining work so the producer never blocks.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	failed := false
	for work := range workchan {
		if failed {
			continue
		}
		if err := c.doWork(work); err != nil {
			errchan <- err
			failed = true
		}
	}
}

func (c *StandardConsumer) doWork(workUnit *WorkUnit) error {
	inputPath := filepath.Join(workUnit.InputRoot, filepath.FromSlash(workUnit.URI))
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", inputPath)
	}

	item := data.NewContentItem(workUnit.URI, content)
	for _, sc := range c.stageConverters {
		contentType := item.ContentType()
		if !sc.Stage.Accepts(contentType) {
			continue
		}
		glog.V(1).Infof("applying %s to %s (%s)", sc.Stage.Name, item.URI, contentType)
		item, err = sc.Converter.Convert(item)
		if err != nil {
			return errors.Wrapf(err, "content stage %s", sc.Stage.Name)
		}
	}

	outputPath := filepath.Join(workUnit.OutputRoot, filepath.FromSlash(item.URI))
	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(outputPath)); err != nil {
		return errors.Wrapf(err, "creating directory for %s", outputPath)
	}
	if err := os.WriteFile(outputPath, item.Data, 0666); err != nil {
		return errors.Wrapf(err, "writing %s", outputPath)
	}
	return nil
}
