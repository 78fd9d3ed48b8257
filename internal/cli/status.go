package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/segment-flow/internal/journal"
	"github.com/nguyentantai21042004/segment-flow/internal/processor"
)

const recentRuns = 5

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <path>",
		Short: "Show which artifacts of a document exist and its recent runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	proc := processor.New(cfg, processor.Deps{}, log)
	st := proc.Status(args[0])

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document: %s\n", st.Document)
	for _, s := range st.Stages {
		mark := "missing"
		if s.Present {
			mark = "present"
		}
		fmt.Fprintf(out, "  %-13s %-8s %s\n", s.Stage, mark, s.Path)
	}
	if st.Complete {
		fmt.Fprintln(out, "Complete")
	} else {
		fmt.Fprintf(out, "Next stage: %s\n", st.Next)
	}

	jr, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer jr.Close()

	runs, err := jr.Recent(cmd.Context(), st.Document, recentRuns)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Fprintln(out, "Recent runs:")
	for _, r := range runs {
		fmt.Fprintf(out, "  %s  %s  from %-12s %-9s", r.StartedAt.Format(time.DateTime), r.ID[:8], r.StartStage, r.Status)
		if r.FailedStage != "" {
			fmt.Fprintf(out, " at %s: %s", r.FailedStage, r.Reason)
		}
		fmt.Fprintln(out)
	}
	return nil
}
