package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
)

var statusAll bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline progress across chapters",
	Long: `Status prints every chapter/stage pair currently running or failed, read
from the SQLite status index rather than each chapter's manifest.json.
Pass --all to also list stages that completed successfully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}
		defer svc.Store.Close()
		defer svc.Index.Close()
		defer svc.Metrics.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CHAPTER\tSTAGE\tSTATUS\tUPDATED")

		statuses := []artifact.RunStatus{artifact.RunFailed, artifact.RunRunning}
		if statusAll {
			statuses = append(statuses, artifact.RunComplete, artifact.RunPending)
		}

		var total int
		for _, status := range statuses {
			rows, err := svc.Index.ListByStatus(status)
			if err != nil {
				return fmt.Errorf("query status index: %w", err)
			}
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.ChapterID, row.Stage, row.Status, row.UpdatedAt.Format("2006-01-02 15:04:05"))
				total++
			}
		}
		w.Flush()

		if total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no stages found (pass --all to include completed/pending)")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusAll, "all", false, "also list completed and pending stages")
}
