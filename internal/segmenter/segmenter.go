package segmenter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/llm"
)

// Segment runs the initial pass, the optional editor pass and resolves timing against full.
func (s *implSegmenter) Segment(ctx context.Context, sentences, full []domain.Sentence) ([]domain.Segment, error) {
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences to segment")
	}

	payload, err := json.Marshal(sentences)
	if err != nil {
		return nil, fmt.Errorf("encode sentences: %w", err)
	}

	first, last := sentences[0], sentences[len(sentences)-1]
	s.logger.Info(ctx, "Segmenting %d sentences (%.1fs - %.1fs)", len(sentences), first.StartTime, last.EndTime)

	raw, err := s.call(ctx, llm.Request{
		Task:        llm.TaskSegment,
		System:      s.prompts.System,
		Messages:    []string{s.prompts.User, string(payload)},
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("initial pass: %w", err)
	}

	chosen, err := parseSegments(raw)
	if err != nil {
		return nil, fmt.Errorf("initial pass: %w", err)
	}
	s.logger.Debug(ctx, "Initial pass returned %d segments", len(chosen))

	if s.opts.EditorPass {
		edited, err := s.edit(ctx, payload, raw)
		switch {
		case err == nil:
			s.logger.Debug(ctx, "Editor pass returned %d segments", len(edited))
			chosen = edited
		case errors.Is(err, ErrMalformedResponse):
			s.logger.Warn(ctx, "Editor output unusable, keeping initial segmentation: %v", err)
		default:
			return nil, fmt.Errorf("editor pass: %w", err)
		}
	}

	groups, repaired := reconcile(chosen, sentences)
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no segment references a requested sentence", ErrMalformedResponse)
	}
	if repaired > 0 {
		s.logger.Warn(ctx, "Reassigned %d sentence indexes missing from or duplicated in the response", repaired)
	}

	segments := enrich(groups, full)
	s.logger.Info(ctx, "Segmentation produced %d segments", len(segments))
	return segments, nil
}

func (s *implSegmenter) edit(ctx context.Context, payload []byte, initial string) ([]rawSegment, error) {
	raw, err := s.call(ctx, llm.Request{
		Task:   llm.TaskEdit,
		System: s.prompts.EditorSys,
		Messages: []string{
			s.prompts.EditorUser,
			"Original transcript:\n" + string(payload),
			"Proposed segmentation:\n" + stripCodeFence(initial),
		},
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return parseSegments(raw)
}

func (s *implSegmenter) call(ctx context.Context, req llm.Request) (string, error) {
	return s.policy.Call(ctx, string(req.Task), func(ctx context.Context) (string, error) {
		return s.client.Complete(ctx, req)
	})
}
