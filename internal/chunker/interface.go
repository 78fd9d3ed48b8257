package chunker

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// ChunkProcessor handles one chunk. A budget-exceeded error makes the planner shrink the chunk.
type ChunkProcessor interface {
	ProcessChunk(ctx context.Context, chunk domain.Chunk, full []domain.Sentence) (domain.ChunkResult, error)
}

// Planner splits a transcript into chunks the service can handle and processes them in order.
type Planner interface {
	// PlanAndRun covers sentences with consecutive chunks. Each chunk starts where the previous
	// one actually ended, so chunks are processed one at a time.
	PlanAndRun(ctx context.Context, sentences []domain.Sentence, duration float64) ([]domain.ChunkResult, error)
}

// Summarizer produces a chunk summary from transcript text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
