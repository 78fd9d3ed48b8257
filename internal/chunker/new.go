package chunker

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/boundary"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

// Options bound the planning loop.
type Options struct {
	// MinChunkDuration in seconds. A chunk whose target drops below it and still fails is fatal.
	MinChunkDuration float64
	// SizeReductionFactor is the fraction removed from the target after a budget failure.
	SizeReductionFactor float64
	MaxShrinkAttempts   int
	DelayBetweenChunks  time.Duration
}

type implPlanner struct {
	processor ChunkProcessor
	finder    boundary.Finder
	logger    logger.Logger
	opts      Options
	sleep     func(ctx context.Context, d time.Duration) error
}

// New creates a Planner
func New(processor ChunkProcessor, finder boundary.Finder, log logger.Logger, opts Options) Planner {
	if opts.SizeReductionFactor <= 0 || opts.SizeReductionFactor >= 1 {
		opts.SizeReductionFactor = 0.2
	}
	if opts.MaxShrinkAttempts < 0 {
		opts.MaxShrinkAttempts = 0
	}
	return &implPlanner{
		processor: processor,
		finder:    finder,
		logger:    log,
		opts:      opts,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
