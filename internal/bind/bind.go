// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bind runs the full pipeline for each grouping: header extraction,
// merge planning, assembly, and output. Groupings are independent; a
// failure in one never aborts another.
package bind

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/pdiddy/chapter-binder/internal/assemble"
	"github.com/pdiddy/chapter-binder/internal/header"
	"github.com/pdiddy/chapter-binder/internal/plan"
	"github.com/pdiddy/chapter-binder/internal/report"
	"github.com/pdiddy/chapter-binder/pkg/types"
)

// Run executes one pipeline per grouping and returns the aggregated run
// report. With cfg.Parallel > 1 groupings run on a bounded worker pool;
// pipelines share no mutable state and status output is flushed per
// grouping in input order so runs stay deterministic.
func Run(cfg types.BindConfig, groupings []types.Grouping, ex header.KeyExtractor, w io.Writer) report.RunReport {
	started := time.Now()

	reports := make([]report.GroupingReport, len(groupings))
	logs := make([]bytes.Buffer, len(groupings))

	workers := cfg.Parallel
	if workers < 1 {
		workers = 1
	}
	if workers > len(groupings) {
		workers = len(groupings)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = runGrouping(cfg, groupings[i], ex, &logs[i])
			}
		}()
	}
	for i := range groupings {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i := range logs {
		io.Copy(w, &logs[i])
	}

	return report.RunReport{
		StartedAt:  started,
		FinishedAt: time.Now(),
		InputRoot:  cfg.Locate.InputRoot,
		Groupings:  reports,
	}
}

// OutputPath returns the compiled book path for a grouping under root.
func OutputPath(root string, g types.Grouping) string {
	return filepath.Join(root, fmt.Sprintf("Class %s - %s - Compiled.pdf", g.Class, g.Subject))
}

// runGrouping runs the sequential pipeline for one grouping. Each stage
// completes fully before the next begins.
func runGrouping(cfg types.BindConfig, g types.Grouping, ex header.KeyExtractor, w io.Writer) report.GroupingReport {
	gr := report.GroupingReport{
		Name:     g.Name(),
		Class:    g.Class,
		Subject:  g.Subject,
		Year:     g.Year,
		Warnings: g.Warnings,
	}
	fmt.Fprintf(w, "binding: %s (%d pairs)\n", g.Name(), len(g.Pairs))

	records, aborted := extractRecords(cfg, g, ex, &gr, w)
	if aborted {
		gr.Status = types.GroupingAborted
		return gr
	}

	p := plan.Build(records)
	outPath := OutputPath(cfg.Output.OutputRoot, g)

	res, err := assemble.Grouping(g, p, cfg.Assemble, outPath, w)
	for _, sk := range res.Skipped {
		gr.Chapters = append(gr.Chapters, report.ChapterReport{
			ChapterName: sk.Record.Pair.ChapterName,
			Status:      types.ChapterSkipped,
			Reason:      sk.Reason,
		})
	}
	if err != nil {
		fmt.Fprintf(w, "aborted: %s (%v)\n", g.Name(), err)
		gr.Status = types.GroupingAborted
		gr.Err = err.Error()
		return gr
	}
	for _, ch := range res.Merged {
		gr.Chapters = append(gr.Chapters, report.ChapterReport{
			ChapterName: ch.Record.Pair.ChapterName,
			Status:      types.ChapterMerged,
			Pages:       ch.Pages(),
		})
	}
	if !res.AssetUsed && cfg.Assemble.AssetPath != "" && len(res.Merged) > 0 {
		gr.Warnings = append(gr.Warnings,
			fmt.Sprintf("index asset %s not found; rendered text-only index page", cfg.Assemble.AssetPath))
	}

	if len(res.Merged) == 0 {
		gr.Status = types.GroupingEmpty
		return gr
	}
	gr.Status = types.GroupingMerged
	gr.OutputPath = outPath
	gr.TotalPages = res.TotalPages
	return gr
}

// extractRecords applies the header extractor to every pair, handling
// parse failures per the missing-header policy and read failures per the
// unreadable-document policy.
func extractRecords(cfg types.BindConfig, g types.Grouping, ex header.KeyExtractor, gr *report.GroupingReport, w io.Writer) (records []types.ChapterRecord, aborted bool) {
	for _, pair := range g.Pairs {
		rec, err := ex.Extract(pair)
		if err == nil {
			records = append(records, rec)
			continue
		}

		var parseErr *header.HeaderParseError
		if errors.As(err, &parseErr) {
			switch cfg.Extract.OnMissingHeader {
			case types.HeaderAbort:
				fmt.Fprintf(w, "aborted: %s (%v)\n", g.Name(), err)
				gr.Err = err.Error()
				return records, true
			case types.HeaderDefault:
				records = append(records, types.ChapterRecord{
					Pair:          pair,
					RawHeaderLine: parseErr.RawLine,
					ChapterIndex:  types.DefaultChapterIndex,
					Flagged:       true,
				})
			default:
				gr.Chapters = append(gr.Chapters, report.ChapterReport{
					ChapterName: pair.ChapterName,
					Status:      types.ChapterSkipped,
					Reason:      err.Error(),
				})
				fmt.Fprintf(w, "skipped: %s (%v)\n", pair.ChapterName, err)
			}
			continue
		}

		// Not a parse failure: the Questions document itself could not be
		// read. Same policy as an unreadable document at assembly time.
		if cfg.Assemble.OnUnreadable == types.UnreadableAbort {
			fmt.Fprintf(w, "aborted: %s (%v)\n", g.Name(), err)
			gr.Err = err.Error()
			return records, true
		}
		gr.Chapters = append(gr.Chapters, report.ChapterReport{
			ChapterName: pair.ChapterName,
			Status:      types.ChapterSkipped,
			Reason:      err.Error(),
		})
		fmt.Fprintf(w, "skipped: %s (%v)\n", pair.ChapterName, err)
	}
	return records, false
}
