// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chapter-binder/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List past bind runs from the run ledger",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().String("report-dir", "report", "directory holding the run ledger")
	reportCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	dir := stringSetting(cmd, "report-dir", "report_dir")
	limit, _ := cmd.Flags().GetInt("limit")

	l, err := report.OpenLedger(dir)
	if err != nil {
		return err
	}
	defer l.Close()

	runs, err := l.Runs(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("run %d  %s  %s  %d merged, %d aborted, %d empty, %d skipped chapter(s)\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.InputRoot,
			r.Merged, r.Aborted, r.Empty, r.SkippedChapters)
	}
	return nil
}
