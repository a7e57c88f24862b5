// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chapter-binder/internal/bind"
	"github.com/pdiddy/chapter-binder/internal/header"
	"github.com/pdiddy/chapter-binder/internal/locate"
	"github.com/pdiddy/chapter-binder/internal/report"
	"github.com/pdiddy/chapter-binder/pkg/types"
)

const defaultAssetPath = "asset/index-header.png"

var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "Compile all groupings under the input root into combined PDFs",
	Long: `Bind runs the full pipeline: discover chapter pairs, read each chapter's
ordering index from its first page, merge Questions and Explanations pages
in chapter order, prepend the index page, and write one compiled PDF per
grouping. Failures in one grouping never abort another; a summary is
printed at the end.`,
	RunE: runBind,
}

func init() {
	bindCmd.Flags().String("input", "data", "input root directory")
	bindCmd.Flags().String("output", "output", "output root directory")
	bindCmd.Flags().String("asset", defaultAssetPath, "index page header image")
	bindCmd.Flags().String("on-missing-header", "skip", "policy for headers without a chapter number: skip, default, or abort")
	bindCmd.Flags().String("on-unreadable", "skip", "policy for unreadable or encrypted PDFs: skip or abort")
	bindCmd.Flags().String("report-dir", "", "directory for the YAML run report and run ledger (empty disables)")
	bindCmd.Flags().Int("parallel", 1, "number of groupings processed concurrently")
	bindCmd.Flags().Bool("filename-index", false, "order chapters by the number in the chapter filename instead of first-page text")

	rootCmd.AddCommand(bindCmd)
}

func bindConfig(cmd *cobra.Command) (types.BindConfig, error) {
	headerPolicy, ok := types.ParseHeaderPolicy(stringSetting(cmd, "on-missing-header", "on_missing_header"))
	if !ok {
		return types.BindConfig{}, fmt.Errorf("invalid --on-missing-header value (want skip, default, or abort)")
	}
	unreadablePolicy, ok := types.ParseUnreadablePolicy(stringSetting(cmd, "on-unreadable", "on_unreadable"))
	if !ok {
		return types.BindConfig{}, fmt.Errorf("invalid --on-unreadable value (want skip or abort)")
	}

	return types.BindConfig{
		Locate:  types.LocateConfig{InputRoot: stringSetting(cmd, "input", "input_root")},
		Extract: types.ExtractConfig{OnMissingHeader: headerPolicy},
		Assemble: types.AssembleConfig{
			OnUnreadable: unreadablePolicy,
			AssetPath:    stringSetting(cmd, "asset", "asset_path"),
		},
		Output:   types.OutputConfig{OutputRoot: stringSetting(cmd, "output", "output_root")},
		Report:   types.ReportConfig{ReportDir: stringSetting(cmd, "report-dir", "report_dir")},
		Parallel: intSetting(cmd, "parallel", "parallel"),
	}, nil
}

func runBind(cmd *cobra.Command, args []string) error {
	cfg, err := bindConfig(cmd)
	if err != nil {
		return err
	}

	groupings, err := locate.Scan(cfg.Locate.InputRoot)
	if err != nil {
		return err
	}
	if len(groupings) == 0 {
		fmt.Fprintln(os.Stdout, "no grouping directories found")
		return nil
	}

	var ex header.KeyExtractor = header.FirstLineExtractor{}
	if useFilename, _ := cmd.Flags().GetBool("filename-index"); useFilename {
		ex = header.FilenameExtractor{}
	}

	r := bind.Run(cfg, groupings, ex, os.Stdout)
	report.Render(r, os.Stdout)

	if cfg.Report.ReportDir != "" {
		if err := persistReport(cfg.Report.ReportDir, r); err != nil {
			return err
		}
	}

	if r.HasFailures() {
		_, aborted, _ := r.Counts()
		return fmt.Errorf("%d grouping(s) aborted", aborted)
	}
	return nil
}

// persistReport writes the YAML run report and records the run in the
// ledger.
func persistReport(dir string, r report.RunReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	name := fmt.Sprintf("run-%s.yaml", r.StartedAt.UTC().Format("20060102-150405"))
	if err := report.WriteFile(filepath.Join(dir, name), r); err != nil {
		return err
	}

	l, err := report.OpenLedger(dir)
	if err != nil {
		return err
	}
	defer l.Close()

	id, err := l.Record(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Recorded run %d in %s\n", id, dir)
	return nil
}
