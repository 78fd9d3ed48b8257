package summarizer

import "context"

// Summarizer produces narrative summaries of transcript text.
type Summarizer interface {
	// Summarize returns a summary of the transcript text.
	Summarize(ctx context.Context, text string) (string, error)
	// MergeSummaries combines labeled chunk summaries into one document summary.
	MergeSummaries(ctx context.Context, labeled string) (string, error)
}
