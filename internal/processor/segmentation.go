package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/merger"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
)

func (p *implProcessor) segmentation(ctx context.Context, state *runState) error {
	sentences, err := p.sentences(state)
	if err != nil {
		return err
	}

	res, err := p.segment(ctx, sentences)
	if err != nil {
		return err
	}
	if err := state.store.SaveSegments(res.Segments); err != nil {
		return err
	}

	state.result = &res
	return nil
}

// segment tries the whole document in one request and falls back to chunked
// processing when the request exceeds the service budget.
func (p *implProcessor) segment(ctx context.Context, sentences []domain.Sentence) (domain.Result, error) {
	segments, err := p.deps.Segmenter.Segment(ctx, sentences, sentences)
	if err == nil {
		return domain.Result{Segments: segments}, nil
	}
	if !retry.IsBudgetExceeded(err) {
		return domain.Result{}, err
	}
	if !p.cfg.Chunking.IsEnabled() || p.deps.Planner == nil {
		return domain.Result{}, fmt.Errorf("document exceeds the service budget and chunking is disabled: %w", err)
	}

	p.logger.Warn(ctx, "Document exceeds the service budget, switching to chunked processing: %v", err)

	results, err := p.deps.Planner.PlanAndRun(ctx, sentences, domain.Duration(sentences))
	if err != nil {
		return domain.Result{}, err
	}

	res, err := p.deps.Merger.Merge(ctx, results)
	if err != nil {
		if errors.Is(err, merger.ErrMergeSummaryFailed) && len(res.Segments) > 0 {
			p.logger.Warn(ctx, "No merged summary (%v), the summary stage will summarize the transcript", err)
			return res, nil
		}
		return domain.Result{}, err
	}
	return res, nil
}

func (p *implProcessor) summary(ctx context.Context, state *runState) error {
	if state.result != nil && state.result.Summary != "" {
		state.summary = state.result.Summary
		return state.store.SaveSummary(state.summary)
	}

	sentences, err := p.sentences(state)
	if err != nil {
		return err
	}

	summary, err := p.summarize(ctx, sentences)
	if err != nil {
		return err
	}
	if err := state.store.SaveSummary(summary); err != nil {
		return err
	}

	state.summary = summary
	return nil
}

// summarize summarizes the whole transcript. A transcript over the service budget is split into
// 2, 4, 8... parts until every part fits, and the part summaries are merged like chunk summaries.
func (p *implProcessor) summarize(ctx context.Context, sentences []domain.Sentence) (string, error) {
	summary, err := p.deps.Summarizer.Summarize(ctx, domain.TranscriptText(sentences))
	if err == nil || !retry.IsBudgetExceeded(err) {
		return summary, err
	}
	if !p.cfg.Chunking.IsEnabled() || p.deps.Merger == nil {
		return "", fmt.Errorf("transcript exceeds the service budget and chunking is disabled: %w", err)
	}

	p.logger.Warn(ctx, "Transcript exceeds the service budget for a summary, summarizing it in parts: %v", err)

	for parts := 2; parts <= len(sentences); parts *= 2 {
		var results []domain.ChunkResult
		results, err = p.summarizeParts(ctx, sentences, parts)
		if err == nil {
			res, err := p.deps.Merger.Merge(ctx, results)
			if err != nil {
				return "", err
			}
			return res.Summary, nil
		}
		if !retry.IsBudgetExceeded(err) {
			return "", err
		}
		p.logger.Warn(ctx, "Summary parts of 1/%d still exceed the service budget", parts)
	}
	return "", fmt.Errorf("transcript summary exceeds the service budget at every part size: %w", err)
}

func (p *implProcessor) summarizeParts(ctx context.Context, sentences []domain.Sentence, parts int) ([]domain.ChunkResult, error) {
	results := make([]domain.ChunkResult, 0, parts)
	for i := 0; i < parts; i++ {
		part := sentences[i*len(sentences)/parts : (i+1)*len(sentences)/parts]
		if len(part) == 0 {
			continue
		}
		summary, err := p.deps.Summarizer.Summarize(ctx, domain.TranscriptText(part))
		if err != nil {
			return nil, fmt.Errorf("summary part %d/%d: %w", i+1, parts, err)
		}
		results = append(results, domain.ChunkResult{
			Chunk: domain.Chunk{
				ChunkID:          i + 1,
				StartTime:        part[0].StartTime,
				EndTime:          part[len(part)-1].EndTime,
				StartSentenceIdx: part[0].Index,
				EndSentenceIdx:   part[len(part)-1].Index,
				Sentences:        part,
			},
			Summary: summary,
		})
	}
	return results, nil
}
