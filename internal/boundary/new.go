package boundary

import (
	"github.com/nguyentantai21042004/segment-flow/internal/llm"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
)

const (
	defaultWindow    = 60.0
	defaultMaxTokens = 10
)

// DefaultSystemPrompt and DefaultInstruction are used when no prompt file is configured.
const (
	DefaultSystemPrompt = `You find natural stopping points in transcripts of spoken performances.
Answer with a single number and nothing else.`

	DefaultInstruction = `The JSON array below lists candidate sentences near a planned split point.
Pick the candidate whose end best closes a complete topic, story or joke, so that the next
sentence starts something new. Reply with that candidate's "index" value only.`
)

// Options configure the finder.
type Options struct {
	// Window is the full width in seconds of the search window centered on the target.
	Window      float64
	MaxTokens   int
	System      string
	Instruction string
}

type implFinder struct {
	client llm.Client
	policy *retry.Policy
	logger logger.Logger
	opts   Options
}

// New creates a Finder
func New(client llm.Client, policy *retry.Policy, log logger.Logger, opts Options) Finder {
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.System == "" {
		opts.System = DefaultSystemPrompt
	}
	if opts.Instruction == "" {
		opts.Instruction = DefaultInstruction
	}
	return &implFinder{
		client: client,
		policy: policy,
		logger: log,
		opts:   opts,
	}
}
