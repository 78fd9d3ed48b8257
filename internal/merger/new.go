package merger

import (
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

type implMerger struct {
	summaries SummaryMerger
	logger    logger.Logger
}

// New creates a Merger
func New(summaries SummaryMerger, log logger.Logger) Merger {
	return &implMerger{
		summaries: summaries,
		logger:    log,
	}
}
