package merger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// ErrMergeSummaryFailed is returned when no document summary can be produced from the chunks.
// The merged segments are still returned alongside it.
var ErrMergeSummaryFailed = errors.New("merged summary unavailable")

func (m *implMerger) Merge(ctx context.Context, results []domain.ChunkResult) (domain.Result, error) {
	if len(results) == 0 {
		return domain.Result{}, fmt.Errorf("no chunk results to merge")
	}

	segments := mergeSegments(results)
	m.logger.Info(ctx, "Merged %d chunks into %d segments", len(results), len(segments))

	res := domain.Result{Segments: segments, Chunks: len(results)}

	summary, err := m.mergeSummary(ctx, results)
	if err != nil {
		return res, err
	}
	res.Summary = summary
	return res, nil
}

// mergeSegments concatenates segments in chunk order. Each chunk's ids are shifted by one more
// than the largest id already emitted, and every segment is tagged with its chunk.
func mergeSegments(results []domain.ChunkResult) []domain.Segment {
	var (
		out    []domain.Segment
		offset int
	)
	for _, r := range results {
		maxID := 0
		for _, seg := range r.Segments {
			seg.SentenceIndexes = append([]int(nil), seg.SentenceIndexes...)
			seg.SegmentID += offset
			seg.SourceChunk = r.Chunk.ChunkID
			if seg.SegmentID > maxID {
				maxID = seg.SegmentID
			}
			out = append(out, seg)
		}
		if len(r.Segments) > 0 {
			offset = maxID + 1
		}
	}
	return out
}

func (m *implMerger) mergeSummary(ctx context.Context, results []domain.ChunkResult) (string, error) {
	if len(results) == 1 {
		if strings.TrimSpace(results[0].Summary) == "" {
			return "", fmt.Errorf("%w: chunk %d has no summary", ErrMergeSummaryFailed, results[0].Chunk.ChunkID)
		}
		return results[0].Summary, nil
	}

	labeled := Label(results)
	if labeled == "" {
		return "", fmt.Errorf("%w: none of %d chunks has a summary", ErrMergeSummaryFailed, len(results))
	}

	merged, err := m.summaries.MergeSummaries(ctx, labeled)
	if err == nil && strings.TrimSpace(merged) != "" {
		return strings.TrimSpace(merged), nil
	}
	if err == nil {
		err = errors.New("empty response")
	}
	m.logger.Error(ctx, "Summary merge failed, keeping the labeled chunk summaries: %v", err)
	return labeled, nil
}

// Label joins the non-empty chunk summaries, each headed by its chunk number and time range in minutes.
func Label(results []domain.ChunkResult) string {
	var parts []string
	for _, r := range results {
		s := strings.TrimSpace(r.Summary)
		if s == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("CHUNK %d (%.1f-%.1f minutes):\n%s",
			r.Chunk.ChunkID, r.Chunk.StartTime/60, r.Chunk.EndTime/60, s))
	}
	return strings.Join(parts, "\n\n")
}
