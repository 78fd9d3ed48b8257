package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/segment-flow/internal/processor"
	"github.com/nguyentantai21042004/segment-flow/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process new files as they appear in the input folder",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	cmd.Flags().Bool("segmentation-only", false, "Skip audio and transcription; reuse the existing transcript")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	segOnly, _ := cmd.Flags().GetBool("segmentation-only")

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	opts := processor.Options{SegmentationOnly: segOnly}
	handler := func(ctx context.Context, path string) error {
		_, err := a.proc.Process(ctx, path, opts)
		return err
	}

	w, err := watcher.New(a.cfg.Paths.Input, handler, a.log, watcher.Options{
		MaxConcurrent: a.cfg.Performance.MaxConcurrent,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Segment pipeline is ready!")
	a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
	a.log.Info(ctx, "LLM: %s (%s)", a.cfg.LLM.Provider, a.cfg.LLM.Model)
	a.log.Info(ctx, "Concurrent: %d documents at once", a.cfg.Performance.MaxConcurrent)
	a.log.Info(ctx, "Press Ctrl+C to stop")
	a.log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.log.Info(ctx, "Segment pipeline stopped")
	return nil
}
