package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// Processor runs the document pipeline and resumes it from the first missing artifact.
type Processor interface {
	// Process runs the stages of the document at path that have no artifact yet.
	// A failure is returned as *StageError; artifacts of earlier stages are left intact.
	Process(ctx context.Context, path string, opts Options) (Report, error)
	// Status reports which artifacts of the document at path exist.
	Status(path string) Status
}

// Options change how a document run starts.
type Options struct {
	// Overwrite discards every artifact and starts from the first stage.
	Overwrite bool
	// SegmentationOnly skips audio and transcription; the transcript must already exist.
	SegmentationOnly bool
}

// Report describes a finished run.
type Report struct {
	Document   string
	RunID      string
	StartStage domain.Stage
	// Skipped is true when every artifact already existed and nothing ran.
	Skipped  bool
	Chunks   int
	Segments int
	Elapsed  time.Duration
}

// StageStatus is the state of one artifact.
type StageStatus struct {
	Stage   domain.Stage
	Path    string
	Present bool
}

// Status is the state of a document's artifacts.
type Status struct {
	Document string
	Stages   []StageStatus
	// Next is the stage a run would start from; meaningless when Complete.
	Next     domain.Stage
	Complete bool
}
