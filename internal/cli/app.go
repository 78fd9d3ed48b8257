package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/segment-flow/internal/boundary"
	"github.com/nguyentantai21042004/segment-flow/internal/chunker"
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/export"
	"github.com/nguyentantai21042004/segment-flow/internal/journal"
	"github.com/nguyentantai21042004/segment-flow/internal/llm"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/merger"
	"github.com/nguyentantai21042004/segment-flow/internal/processor"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
	"github.com/nguyentantai21042004/segment-flow/internal/segmenter"
	"github.com/nguyentantai21042004/segment-flow/internal/summarizer"
	"github.com/nguyentantai21042004/segment-flow/internal/transcriber"
	"github.com/nguyentantai21042004/segment-flow/pkg/executor"
)

// app holds the wired pipeline for one command invocation.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	proc    processor.Processor
	journal *journal.Store
}

// loadConfig reads the config named by the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

// newApp wires every pipeline component from the config.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	client, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	policy := retry.New(retry.Config{
		MaxAttempts:        cfg.Retry.MaxAttempts,
		RateLimitBaseDelay: cfg.Retry.RateLimitBaseDelay,
		RateLimitMaxDelay:  cfg.Retry.RateLimitMaxDelay,
		TransientBaseDelay: cfg.Retry.TransientBaseDelay,
		TransientMaxDelay:  cfg.Retry.TransientMaxDelay,
	}, log)

	p, err := loadPrompts(cfg.Prompts)
	if err != nil {
		return nil, err
	}

	seg := segmenter.New(client, policy, log, p.segmentation, segmenter.Options{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		EditorPass:  cfg.Segmentation.EditorEnabled(),
	})
	sum := summarizer.New(client, policy, log, p.summary, summarizer.Options{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	finder := boundary.New(client, policy, log, boundary.Options{
		Window:      cfg.Chunking.BoundarySearchWindow,
		MaxTokens:   cfg.Chunking.BoundaryMaxTokens,
		System:      p.boundarySystem,
		Instruction: p.boundaryInstruction,
	})
	planner := chunker.New(chunker.NewSegmentingProcessor(seg, sum, log), finder, log, chunker.Options{
		MinChunkDuration:    cfg.Chunking.MinChunkDuration,
		SizeReductionFactor: cfg.Chunking.SizeReductionFactor,
		MaxShrinkAttempts:   cfg.Chunking.ShrinkAttempts(),
		DelayBetweenChunks:  cfg.Chunking.DelayBetweenChunks,
	})

	exec := executor.New()
	tr := transcriber.New(exec, log, transcriber.Options{
		Binary:      cfg.Whisper.BinaryPath,
		ModelPath:   cfg.Whisper.ModelPath,
		Language:    cfg.Whisper.Language,
		Prompt:      cfg.Whisper.Prompt,
		Threads:     cfg.Whisper.Threads,
		ProbeBinary: cfg.FFmpeg.ProbeBinary,
		TempDir:     cfg.Paths.Temp,
	})

	jr, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}

	proc := processor.New(cfg, processor.Deps{
		Executor:    exec,
		Transcriber: tr,
		Segmenter:   seg,
		Planner:     planner,
		Merger:      merger.New(sum, log),
		Summarizer:  sum,
		Exporter:    export.New(cfg.Paths.Exports, log),
		Journal:     jr,
	}, log)

	return &app{cfg: cfg, log: log, proc: proc, journal: jr}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.journal.Close(); err != nil {
		a.log.Warn(ctx, "Failed to close journal: %v", err)
	}
}

type prompts struct {
	segmentation        segmenter.Prompts
	summary             summarizer.Prompts
	boundarySystem      string
	boundaryInstruction string
}

// loadPrompts reads the prompt override files, keeping the built-in text for any that is not set.
func loadPrompts(pc config.PromptsConfig) (prompts, error) {
	var (
		p   prompts
		err error
	)

	read := func(path, fallback string) string {
		if err != nil {
			return ""
		}
		var s string
		s, err = config.ReadPrompt(path, fallback)
		return s
	}

	p.segmentation = segmenter.Prompts{
		System:     read(pc.SegmentationSystem, segmenter.DefaultPrompts.System),
		User:       read(pc.SegmentationUser, segmenter.DefaultPrompts.User),
		EditorSys:  read(pc.EditorSystem, segmenter.DefaultPrompts.EditorSys),
		EditorUser: read(pc.EditorUser, segmenter.DefaultPrompts.EditorUser),
	}
	p.summary = summarizer.Prompts{
		System:      read(pc.SummarySystem, summarizer.DefaultPrompts.System),
		User:        read(pc.SummaryUser, summarizer.DefaultPrompts.User),
		MergeSystem: read(pc.SummaryMergeSystem, summarizer.DefaultPrompts.MergeSystem),
		MergeUser:   read(pc.SummaryMergeUser, summarizer.DefaultPrompts.MergeUser),
	}
	p.boundarySystem = read(pc.BoundarySystem, boundary.DefaultSystemPrompt)
	p.boundaryInstruction = read(pc.BoundaryUser, boundary.DefaultInstruction)

	return p, err
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	for _, dir := range cfg.Dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
