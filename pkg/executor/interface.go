package executor

import "context"

// Executor runs external tools such as ffmpeg, ffprobe and whisper.
type Executor interface {
	// Execute runs name with args and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// ExecuteInDir is Execute with dir as the working directory.
	ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error)
}
