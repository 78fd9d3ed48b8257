package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/artifact"
	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/journal"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

// runState carries what earlier stages of the same run produced.
type runState struct {
	input     string
	store     *artifact.Store
	sentences []domain.Sentence
	result    *domain.Result
	summary   string
}

// Process orchestrates the document pipeline
func (p *implProcessor) Process(ctx context.Context, path string, opts Options) (Report, error) {
	startTime := time.Now()
	if !IsSupported(path) {
		return Report{}, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}

	store := p.store(path)
	report := Report{Document: store.Name()}
	ctx = logger.WithFields(ctx, "document", store.Name())

	start, pending, err := p.plan(ctx, path, store, opts)
	if err != nil {
		return report, err
	}
	report.StartStage = start

	runID := p.beginRun(ctx, store.Name(), start, pending)
	report.RunID = runID
	if runID != "" {
		ctx = logger.WithFields(ctx, "run", runID)
	}

	if !pending {
		p.logger.Info(ctx, "All artifacts present, nothing to do")
		report.Skipped = true
		p.finishRun(ctx, runID, journal.Outcome{Status: journal.StatusSkipped})
		return report, nil
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting %s from the %s stage", path, start)
	p.logger.Info(ctx, "========================================")

	state := &runState{input: path, store: store}
	for _, stage := range domain.Stages {
		if stage < start {
			continue
		}
		stageStart := time.Now()
		if err := p.runStage(ctx, stage, state); err != nil {
			serr := &StageError{Stage: stage, Err: err}
			p.logger.Error(ctx, "Processing failed: %v", serr)
			report.Chunks, report.Segments = state.counts()
			report.Elapsed = time.Since(startTime)
			p.finishRun(ctx, runID, journal.Outcome{
				Status:      journal.StatusFailed,
				FailedStage: stage.String(),
				Reason:      err.Error(),
				Chunks:      report.Chunks,
			})
			return report, serr
		}
		p.logger.Info(ctx, "Stage %s done in %s: %s", stage, time.Since(stageStart).Round(time.Millisecond), store.Path(stage))
	}

	p.export(ctx, state)

	report.Chunks, report.Segments = state.counts()
	report.Elapsed = time.Since(startTime)
	p.finishRun(ctx, runID, journal.Outcome{
		Status:   journal.StatusSucceeded,
		Chunks:   report.Chunks,
		Segments: report.Segments,
	})

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Segments: %d (chunks: %d)", report.Segments, report.Chunks)
	p.logger.Info(ctx, "Processing time: %s", report.Elapsed)
	p.logger.Info(ctx, "========================================")
	return report, nil
}

// floor is the earliest stage a run of path can execute.
func (p *implProcessor) floor(path string, store *artifact.Store, opts Options) domain.Stage {
	switch {
	case IsTranscript(path) && samePath(path, store.Path(domain.StageTranscript)):
		return domain.StageSegmentation
	case IsTranscript(path):
		return domain.StageTranscript
	case opts.SegmentationOnly:
		return domain.StageSegmentation
	default:
		return domain.StageAudio
	}
}

// plan picks the stage to start from and invalidates the artifacts that will be recomputed.
// pending is false when every artifact is present and nothing needs to run.
func (p *implProcessor) plan(ctx context.Context, path string, store *artifact.Store, opts Options) (domain.Stage, bool, error) {
	floor := p.floor(path, store, opts)

	if floor == domain.StageSegmentation && !store.Exists(domain.StageTranscript) {
		return floor, false, &StageError{Stage: domain.StageTranscript, Err: ErrTranscriptMissing}
	}

	start := floor
	if !opts.Overwrite {
		first, missing := store.FirstMissing(floor)
		if !missing {
			return floor, false, nil
		}
		start = first
	}

	if err := store.RemoveFrom(start); err != nil {
		return start, false, err
	}
	p.logger.Debug(ctx, "Invalidated artifacts from the %s stage on", start)
	return start, true, nil
}

func (p *implProcessor) runStage(ctx context.Context, stage domain.Stage, state *runState) error {
	switch stage {
	case domain.StageAudio:
		return p.extractAudio(ctx, state.input, state.store.Path(domain.StageAudio))
	case domain.StageTranscript:
		return p.transcribe(ctx, state)
	case domain.StageSegmentation:
		return p.segmentation(ctx, state)
	case domain.StageSummary:
		return p.summary(ctx, state)
	default:
		return fmt.Errorf("unknown stage %s", stage)
	}
}

func (p *implProcessor) beginRun(ctx context.Context, document string, start domain.Stage, pending bool) string {
	if p.deps.Journal == nil {
		return ""
	}
	stage := start.String()
	if !pending {
		stage = "none"
	}
	id, err := p.deps.Journal.Begin(ctx, document, stage)
	if err != nil {
		p.logger.Warn(ctx, "Failed to journal run start: %v", err)
		return ""
	}
	return id
}

func (p *implProcessor) finishRun(ctx context.Context, id string, out journal.Outcome) {
	if p.deps.Journal == nil || id == "" {
		return
	}
	if err := p.deps.Journal.Finish(ctx, id, out); err != nil {
		p.logger.Warn(ctx, "Failed to journal run outcome: %v", err)
	}
}

func (s *runState) counts() (chunks, segments int) {
	if s.result == nil {
		return 0, 0
	}
	return s.result.Chunks, len(s.result.Segments)
}

func samePath(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
