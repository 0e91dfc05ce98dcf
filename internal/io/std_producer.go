package io

import (
	"sync"
)

type StandardProducer struct {
	inputRoot  string
	outputRoot string
	uris       []string
}

func NewStandardProducer(inputRoot string, outputRoot string, uris []string) *StandardProducer {
	return &StandardProducer{
		inputRoot:  inputRoot,
		outputRoot: outputRoot,
		uris:       uris,
	}
}

// Submits a WorkUnit per content item to the provided work channel and
// closes the channel when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup) {
	for _, uri := range p.uris {
		work <- &WorkUnit{
			URI:        uri,
			InputRoot:  p.inputRoot,
			OutputRoot: p.outputRoot,
		}
	}
	close(work)
	wg.Done()
}
