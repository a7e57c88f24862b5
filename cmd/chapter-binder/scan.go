// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chapter-binder/internal/header"
	"github.com/pdiddy/chapter-binder/internal/locate"
	"github.com/pdiddy/chapter-binder/internal/plan"
	"github.com/pdiddy/chapter-binder/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List discovered groupings and chapter pairs without binding",
	Long: `Scan walks the input root and prints every grouping directory, its valid
chapter pairs, and any unmatched singletons. With --plan it also reads each
chapter's header and prints the resulting merge order, which is what bind
would use.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("input", "data", "input root directory")
	scanCmd.Flags().Bool("plan", false, "extract headers and show the merge order per grouping")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root := stringSetting(cmd, "input", "input_root")
	showPlan, _ := cmd.Flags().GetBool("plan")

	groupings, err := locate.Scan(root)
	if err != nil {
		return err
	}
	if len(groupings) == 0 {
		fmt.Println("no grouping directories found")
		return nil
	}

	for _, g := range groupings {
		fmt.Printf("%s (%s): %d pair(s)\n", g.Name(), g.Year, len(g.Pairs))
		for _, p := range g.Pairs {
			fmt.Printf("  %s\n", p.ChapterName)
		}
		for _, warn := range g.Warnings {
			fmt.Printf("  warning: %s\n", warn)
		}

		if showPlan {
			printPlan(g)
		}
	}
	return nil
}

// printPlan extracts headers for one grouping and prints the merge order.
// Unparseable headers are listed separately; scan never applies a policy.
func printPlan(g types.Grouping) {
	ex := header.FirstLineExtractor{}
	var records []types.ChapterRecord
	for _, pair := range g.Pairs {
		rec, err := ex.Extract(pair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  unparsed: %s (%v)\n", pair.ChapterName, err)
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return
	}
	fmt.Print(plan.RenderTOC(plan.Build(records)))
}
