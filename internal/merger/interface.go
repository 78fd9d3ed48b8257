package merger

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// SummaryMerger combines labeled chunk summaries into one narrative.
type SummaryMerger interface {
	MergeSummaries(ctx context.Context, labeled string) (string, error)
}

// Merger stitches per-chunk results into one document result.
type Merger interface {
	Merge(ctx context.Context, results []domain.ChunkResult) (domain.Result, error)
}
