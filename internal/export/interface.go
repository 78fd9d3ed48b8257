package export

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// Exporter writes human-readable copies of a document's results.
type Exporter interface {
	// Segments writes one spreadsheet row per segment and returns the file path.
	Segments(ctx context.Context, name string, segments []domain.Segment) (string, error)
	// Summary writes the summary followed by the segment texts and returns the file path.
	Summary(ctx context.Context, name, summary string, segments []domain.Segment) (string, error)
}
