package summarizer

import (
	"github.com/nguyentantai21042004/segment-flow/internal/llm"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
)

// Options tune the summary requests.
type Options struct {
	Temperature float64
	MaxTokens   int
}

type implSummarizer struct {
	client  llm.Client
	policy  *retry.Policy
	logger  logger.Logger
	prompts Prompts
	opts    Options
}

// New creates a Summarizer. Empty prompts fall back to DefaultPrompts.
func New(client llm.Client, policy *retry.Policy, log logger.Logger, prompts Prompts, opts Options) Summarizer {
	return &implSummarizer{
		client:  client,
		policy:  policy,
		logger:  log,
		prompts: prompts.withDefaults(),
		opts:    opts,
	}
}
