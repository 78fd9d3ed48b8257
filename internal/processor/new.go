package processor

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/artifact"
	"github.com/nguyentantai21042004/segment-flow/internal/chunker"
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/export"
	"github.com/nguyentantai21042004/segment-flow/internal/journal"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/merger"
	"github.com/nguyentantai21042004/segment-flow/internal/segmenter"
	"github.com/nguyentantai21042004/segment-flow/internal/summarizer"
	"github.com/nguyentantai21042004/segment-flow/internal/transcriber"
	"github.com/nguyentantai21042004/segment-flow/pkg/executor"
)

// Journal records runs. *journal.Store implements it.
type Journal interface {
	Begin(ctx context.Context, document, startStage string) (string, error)
	Finish(ctx context.Context, id string, out journal.Outcome) error
}

// Deps are the collaborators a Processor drives. Exporter and Journal may be nil.
type Deps struct {
	Executor    executor.Executor
	Transcriber transcriber.Transcriber
	Segmenter   segmenter.Segmenter
	Planner     chunker.Planner
	Merger      merger.Merger
	Summarizer  summarizer.Summarizer
	Exporter    export.Exporter
	Journal     Journal
}

type implProcessor struct {
	cfg    *config.Config
	deps   Deps
	dirs   artifact.Dirs
	logger logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	return &implProcessor{
		cfg:  cfg,
		deps: deps,
		dirs: artifact.Dirs{
			Audio:         cfg.Paths.Audio,
			Transcripts:   cfg.Paths.Transcripts,
			Segmentations: cfg.Paths.Segmentations,
			Summaries:     cfg.Paths.Summaries,
		},
		logger: log,
	}
}

func (p *implProcessor) store(path string) *artifact.Store {
	return artifact.New(p.dirs, DocumentName(path))
}

func (p *implProcessor) Status(path string) Status {
	store := p.store(path)
	st := Status{Document: store.Name()}
	for _, stage := range domain.Stages {
		st.Stages = append(st.Stages, StageStatus{
			Stage:   stage,
			Path:    store.Path(stage),
			Present: store.Exists(stage),
		})
	}

	next, missing := store.FirstMissing(p.floor(path, store, Options{}))
	st.Next = next
	st.Complete = !missing
	return st
}
