package batch

import (
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/processor"
)

type implRunner struct {
	proc          processor.Processor
	logger        logger.Logger
	maxConcurrent int
}

// New creates a Runner that processes at most maxConcurrent documents at once.
func New(proc processor.Processor, log logger.Logger, maxConcurrent int) Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &implRunner{
		proc:          proc,
		logger:        log,
		maxConcurrent: maxConcurrent,
	}
}
