// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan orders extracted chapter records into a merge plan and
// produces the table of contents for the index page.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

// Build sorts records ascending by chapter index and derives the TOC.
// The sort is stable: records with equal indices keep their discovery
// order. Colliding indices are kept as-is, without deduplication.
func Build(records []types.ChapterRecord) types.MergePlan {
	sorted := make([]types.ChapterRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChapterIndex < sorted[j].ChapterIndex
	})

	toc := make([]types.TOCEntry, len(sorted))
	for i, rec := range sorted {
		toc[i] = types.TOCEntry{
			ChapterIndex: rec.ChapterIndex,
			ChapterName:  rec.Pair.ChapterName,
		}
	}
	return types.MergePlan{Records: sorted, TOC: toc}
}

// RenderTOC formats the table of contents for terminal output, one chapter
// per line. Defaulted chapters render a dash instead of the sentinel index.
func RenderTOC(p types.MergePlan) string {
	var sb strings.Builder
	for i, e := range p.TOC {
		label := fmt.Sprintf("%d", e.ChapterIndex)
		if p.Records[i].Flagged {
			label = "-"
		}
		fmt.Fprintf(&sb, "%4s  %s\n", label, e.ChapterName)
	}
	return sb.String()
}
