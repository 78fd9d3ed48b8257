package segmenter

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// Segmenter turns a list of sentences into segments.
// full is the whole transcript; sentence indexes are global and timing is resolved against it.
// A budget-exceeded failure is returned as-is so the caller can split the request.
type Segmenter interface {
	Segment(ctx context.Context, sentences, full []domain.Sentence) ([]domain.Segment, error)
}
