package segmenter

import (
	"github.com/nguyentantai21042004/segment-flow/internal/llm"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
)

// Options tune the service requests.
type Options struct {
	Temperature float64
	MaxTokens   int
	EditorPass  bool
}

type implSegmenter struct {
	client  llm.Client
	policy  *retry.Policy
	logger  logger.Logger
	prompts Prompts
	opts    Options
}

// New creates a Segmenter
func New(client llm.Client, policy *retry.Policy, log logger.Logger, prompts Prompts, opts Options) Segmenter {
	return &implSegmenter{
		client:  client,
		policy:  policy,
		logger:  log,
		prompts: prompts,
		opts:    opts,
	}
}
