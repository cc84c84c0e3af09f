package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/efinstitute/sitegate/internal/storage"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	var clearHistory bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent release gate runs",
		Long:  "Display recorded release gate runs, most recent first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.history()
			if clearHistory {
				if err := store.Clear(); err != nil {
					return err
				}
				a.ui.Success("Gate history cleared.")
				return nil
			}

			runs, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				a.ui.Info("No gate runs recorded yet. Run `sitegate gate` to record one.")
				return nil
			}

			a.ui.Header("Gate History")

			// Table header
			fmt.Fprintf(a.out, "  %-20s %-8s %-6s %8s %-9s %s\n", "Started", "Result", "Exit", "Duration", "Trigger", "Failed step")
			fmt.Fprintf(a.out, "  %s\n", strings.Repeat("-", 78))

			var passed int
			for _, run := range runs {
				result := "failed"
				if run.Passed {
					result = "passed"
					passed++
				}
				fmt.Fprintf(a.out, "  %-20s %-8s %-6d %8s %-9s %s\n",
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					result,
					run.ExitCode,
					storage.FormatDuration(run.Duration),
					run.Trigger,
					run.FailedStep,
				)
			}

			fmt.Fprintf(a.out, "  %s\n", strings.Repeat("-", 78))
			fmt.Fprintf(a.out, "  %d of %d runs passed\n", passed, len(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Delete the recorded history")
	return cmd
}
