package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Main runs the segmentflow command line.
func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "segmentflow",
		Short: "Transcribe recorded performances and split them into self-contained segments",
		Long: `segmentflow turns a media file into a transcript, groups the transcript into segments with a
language model and summarizes it. Every stage writes an artifact, and a run resumes from the
first artifact that is missing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().String("config", "config.yaml", "Path to the YAML config file")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(newRunCmd(), newWatchCmd(), newStatusCmd())
	return root
}
