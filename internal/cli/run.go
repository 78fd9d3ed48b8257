package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/segment-flow/internal/batch"
	"github.com/nguyentantai21042004/segment-flow/internal/processor"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Process media files, transcripts or folders of them",
		Long: `Process every given file, and every supported file in the given folders. With no paths the
configured input folder is processed. Stages whose artifacts already exist are skipped.`,
		RunE: runRun,
	}

	cmd.Flags().Bool("overwrite", false, "Discard existing artifacts and reprocess from the first stage")
	cmd.Flags().Bool("segmentation-only", false, "Skip audio and transcription; reuse the existing transcript")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	segOnly, _ := cmd.Flags().GetBool("segmentation-only")

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	paths := args
	if len(paths) == 0 {
		paths = []string{a.cfg.Paths.Input}
	}

	start := time.Now()
	runner := batch.New(a.proc, a.log, a.cfg.Performance.MaxConcurrent)
	results, err := runner.Run(ctx, paths, processor.Options{
		Overwrite:        overwrite,
		SegmentationOnly: segOnly,
	})
	printResults(cmd, results)

	s := batch.Summarize(results, time.Since(start))
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d processed, %d skipped, %d failed in %s\n",
		s.Processed, s.Skipped, s.Failed, s.Elapsed.Round(time.Second))

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("interrupted: %w", context.Cause(ctx))
		}
		return err
	}
	if s.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", s.Failed, len(results))
	}
	return nil
}

func printResults(cmd *cobra.Command, results []batch.Result) {
	out := cmd.OutOrStdout()
	for _, res := range results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(out, "FAIL  %s: %v\n", res.Path, res.Err)
		case res.Report.Skipped:
			fmt.Fprintf(out, "SKIP  %s: all artifacts present\n", res.Path)
		default:
			r := res.Report
			fmt.Fprintf(out, "OK    %s: %d segments", res.Path, r.Segments)
			if r.Chunks > 0 {
				fmt.Fprintf(out, " from %d chunks", r.Chunks)
			}
			fmt.Fprintf(out, ", started at %s, %s\n", r.StartStage, r.Elapsed.Round(time.Millisecond))
		}
	}
}
