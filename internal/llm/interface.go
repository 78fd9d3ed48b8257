package llm

import "context"

// Task names the kind of request. It is used for logging and by the mock client.
type Task string

const (
	TaskSegment        Task = "segmentation"
	TaskEdit           Task = "segmentation editor"
	TaskBoundary       Task = "boundary selection"
	TaskSummary        Task = "summary"
	TaskMergeSummaries Task = "summary merge"
)

// Request is a single completion request: one system instruction followed by user messages.
type Request struct {
	Task        Task
	System      string
	Messages    []string
	Temperature float64
	MaxTokens   int
}

// Client sends a request to the text-analysis service and returns the response text.
// Errors carry the service's message text, which the retry classifier inspects.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
