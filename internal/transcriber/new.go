package transcriber

import (
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/pkg/executor"
)

// Options locate the whisper.cpp and ffprobe tools.
type Options struct {
	Binary      string
	ModelPath   string
	Language    string
	Prompt      string
	Threads     int
	ProbeBinary string
	// TempDir holds whisper's working files; empty means the system default.
	TempDir string
}

type implTranscriber struct {
	exec   executor.Executor
	logger logger.Logger
	opts   Options
}

// New creates a Transcriber backed by whisper.cpp.
func New(exec executor.Executor, log logger.Logger, opts Options) Transcriber {
	if opts.Binary == "" {
		opts.Binary = "whisper-cli"
	}
	if opts.ProbeBinary == "" {
		opts.ProbeBinary = "ffprobe"
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Threads <= 0 {
		opts.Threads = 4
	}
	return &implTranscriber{exec: exec, logger: log, opts: opts}
}
