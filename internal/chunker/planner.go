package chunker

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
)

// ErrChunkUnserviceable is returned when a chunk keeps exceeding the service budget at every size tried.
var ErrChunkUnserviceable = errors.New("chunk cannot be processed at any size")

const endEpsilon = 1e-6

func (p *implPlanner) PlanAndRun(ctx context.Context, sentences []domain.Sentence, duration float64) ([]domain.ChunkResult, error) {
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences to chunk")
	}
	if duration <= 0 {
		duration = domain.Duration(sentences)
	}

	position := make(map[int]int, len(sentences))
	for i, s := range sentences {
		position[s.Index] = i
	}

	var (
		results []domain.ChunkResult
		pos     int
		cursor  float64
		target  = duration / 2
		chunkID = 1
	)

	p.logger.Info(ctx, "Chunking %.1fs transcript (%d sentences), first target %.1fs", duration, len(sentences), target)

	for pos < len(sentences) {
		chunkCtx := logger.WithFields(ctx, "chunk", chunkID)

		res, end, next, err := p.runChunk(chunkCtx, sentences, position, pos, cursor, duration, target, chunkID)
		if err != nil {
			return nil, err
		}
		results = append(results, res)

		pos = next
		cursor = end
		target = duration - cursor
		chunkID++

		if pos < len(sentences) {
			p.logger.Debug(chunkCtx, "Waiting %s before next chunk", p.opts.DelayBetweenChunks)
			if err := p.sleep(ctx, p.opts.DelayBetweenChunks); err != nil {
				return nil, err
			}
		}
	}

	p.logger.Info(ctx, "Processed %d chunks", len(results))
	return results, nil
}

// runChunk finds a chunk starting at sentence position pos that the processor accepts, shrinking
// the target after each budget failure. It returns the result, the chunk's end time and the
// position of the first sentence after it.
func (p *implPlanner) runChunk(ctx context.Context, sentences []domain.Sentence, position map[int]int,
	pos int, cursor, duration, target float64, chunkID int) (domain.ChunkResult, float64, int, error) {

	remaining := sentences[pos:]
	// failedEnd is the shortest end at this cursor that has exceeded the budget.
	failedEnd := math.Inf(1)
	var lastErr error

	for attempt := 0; ; attempt++ {
		candidateEnd := cursor + target
		if candidateEnd > duration || duration-candidateEnd < endEpsilon {
			candidateEnd = duration
		}
		// The first attempt is raised to the minimum; a shrunk target may go below it.
		if attempt == 0 && candidateEnd < duration && candidateEnd-cursor < p.opts.MinChunkDuration {
			candidateEnd = math.Min(cursor+p.opts.MinChunkDuration, duration)
		}

		last := len(sentences) - 1
		end := duration
		if candidateEnd < duration {
			idx := p.finder.FindBoundary(ctx, remaining, candidateEnd)
			if bp, ok := position[idx]; ok && bp >= pos {
				last = bp
			} else {
				last = pos
			}
			if last < len(sentences)-1 {
				end = sentences[last].EndTime
			}
		}

		if end < failedEnd {
			chunk := domain.Chunk{
				ChunkID:          chunkID,
				StartTime:        cursor,
				EndTime:          end,
				StartSentenceIdx: sentences[pos].Index,
				EndSentenceIdx:   sentences[last].Index,
				Sentences:        sentences[pos : last+1],
			}

			p.logger.Info(ctx, "Attempt %d: chunk %d covers %.1fs - %.1fs (%d sentences, target %.1fs)",
				attempt+1, chunkID, chunk.StartTime, chunk.EndTime, len(chunk.Sentences), target)

			res, err := p.processor.ProcessChunk(ctx, chunk, sentences)
			if err == nil {
				res.Chunk = chunk
				p.logger.Info(ctx, "Chunk %d succeeded on attempt %d with %d segments", chunkID, attempt+1, len(res.Segments))
				return res, end, last + 1, nil
			}

			if !retry.IsBudgetExceeded(err) {
				return domain.ChunkResult{}, 0, 0, fmt.Errorf("chunk %d: %w", chunkID, err)
			}
			failedEnd, lastErr = end, err
		} else {
			p.logger.Debug(ctx, "Attempt %d: target %.1fs snaps to %.1fs, which already failed", attempt+1, target, end)
		}

		if target < p.opts.MinChunkDuration || attempt >= p.opts.MaxShrinkAttempts {
			p.logger.Error(ctx, "Chunk %d exceeded the budget at %.1fs after %d attempts", chunkID, target, attempt+1)
			return domain.ChunkResult{}, 0, 0, fmt.Errorf("%w: chunk %d at %.1fs after %d attempts: %v",
				ErrChunkUnserviceable, chunkID, target, attempt+1, lastErr)
		}

		target *= 1 - p.opts.SizeReductionFactor
		p.logger.Warn(ctx, "Chunk %d exceeded the budget, shrinking target to %.1fs", chunkID, target)
	}
}
