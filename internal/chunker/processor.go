package chunker

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/segmenter"
)

type segmentingProcessor struct {
	segmenter  segmenter.Segmenter
	summarizer Summarizer
	logger     logger.Logger
}

// NewSegmentingProcessor returns a ChunkProcessor that segments each chunk and, when
// summarizer is not nil, summarizes its text. A summary failure leaves the summary empty.
func NewSegmentingProcessor(seg segmenter.Segmenter, sum Summarizer, log logger.Logger) ChunkProcessor {
	return &segmentingProcessor{segmenter: seg, summarizer: sum, logger: log}
}

func (p *segmentingProcessor) ProcessChunk(ctx context.Context, chunk domain.Chunk, full []domain.Sentence) (domain.ChunkResult, error) {
	segments, err := p.segmenter.Segment(ctx, chunk.Sentences, full)
	if err != nil {
		return domain.ChunkResult{}, err
	}

	res := domain.ChunkResult{Chunk: chunk, Segments: segments}
	if p.summarizer == nil {
		return res, nil
	}

	summary, err := p.summarizer.Summarize(ctx, domain.TranscriptText(chunk.Sentences))
	if err != nil {
		p.logger.Warn(ctx, "Summary for chunk %d failed, continuing without it: %v", chunk.ChunkID, err)
		return res, nil
	}
	res.Summary = summary
	return res, nil
}
