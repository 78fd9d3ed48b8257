package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/llm"
)

// ErrEmptySummary is returned when the service answers with no text.
var ErrEmptySummary = errors.New("empty summary")

func (s *implSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("summarize: no transcript text")
	}

	s.logger.Info(ctx, "Generating summary for %d characters of transcript", len(text))

	summary, err := s.complete(ctx, llm.Request{
		Task:        llm.TaskSummary,
		System:      s.prompts.System,
		Messages:    []string{s.prompts.User, text},
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	s.logger.Info(ctx, "Summary generated (%d characters)", len(summary))
	return summary, nil
}

func (s *implSummarizer) MergeSummaries(ctx context.Context, labeled string) (string, error) {
	labeled = strings.TrimSpace(labeled)
	if labeled == "" {
		return "", fmt.Errorf("merge summaries: nothing to merge")
	}

	s.logger.Info(ctx, "Merging chunk summaries (%d chunks)", strings.Count(labeled, "CHUNK "))

	merged, err := s.complete(ctx, llm.Request{
		Task:        llm.TaskMergeSummaries,
		System:      s.prompts.MergeSystem,
		Messages:    []string{s.prompts.MergeUser, labeled},
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("merge summaries: %w", err)
	}
	return merged, nil
}

// complete sends req through the retry policy and returns the trimmed response text.
func (s *implSummarizer) complete(ctx context.Context, req llm.Request) (string, error) {
	out, err := s.policy.Call(ctx, string(req.Task), func(ctx context.Context) (string, error) {
		return s.client.Complete(ctx, req)
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}
