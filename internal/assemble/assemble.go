// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble merges each chapter's Questions and Explanations pages
// in merge-plan order into one output PDF, prepending a rendered index
// page. Merging happens at the PDF object level so page content, size, and
// orientation pass through untouched.
package assemble

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

// PageMergeError reports a source document that cannot contribute pages:
// unreadable, corrupt, or encrypted.
type PageMergeError struct {
	Path string
	Err  error
}

func (e *PageMergeError) Error() string {
	return fmt.Sprintf("cannot merge pages from %s: %v", e.Path, e.Err)
}

func (e *PageMergeError) Unwrap() error { return e.Err }

// MergedChapter is one chapter that made it into the output, with its page
// counts recorded so the result is checkable against the sources.
type MergedChapter struct {
	Record           types.ChapterRecord
	QuestionPages    int
	ExplanationPages int
}

// Pages returns the chapter's total page contribution.
func (c MergedChapter) Pages() int {
	return c.QuestionPages + c.ExplanationPages
}

// SkippedChapter is a chapter excluded during assembly, with the reason.
type SkippedChapter struct {
	Record types.ChapterRecord
	Reason string
}

// Result holds the outcome of assembling one grouping.
type Result struct {
	Merged     []MergedChapter
	Skipped    []SkippedChapter
	OutputPath string

	// AssetUsed reports whether the index asset image was found and placed.
	AssetUsed bool

	// TotalPages is the output page count: one index page plus the sum of
	// all merged chapter pages.
	TotalPages int
}

// Grouping assembles one grouping's merge plan into outPath. Chapters whose
// sources fail validation are skipped or abort the grouping per
// cfg.OnUnreadable. When no chapter survives, no output file is written and
// the result records every skip. Per-chapter status lines go to w.
func Grouping(g types.Grouping, p types.MergePlan, cfg types.AssembleConfig, outPath string, w io.Writer) (Result, error) {
	res := Result{OutputPath: outPath}
	conf := model.NewDefaultConfiguration()

	for _, rec := range p.Records {
		qPages, err := chapterPages(rec.Pair.QuestionsPath, conf)
		if err == nil {
			var ePages int
			ePages, err = chapterPages(rec.Pair.ExplanationsPath, conf)
			if err == nil {
				res.Merged = append(res.Merged, MergedChapter{
					Record:           rec,
					QuestionPages:    qPages,
					ExplanationPages: ePages,
				})
				continue
			}
		}

		if cfg.OnUnreadable == types.UnreadableAbort {
			return res, err
		}
		res.Skipped = append(res.Skipped, SkippedChapter{Record: rec, Reason: err.Error()})
		fmt.Fprintf(w, "skipped: %s (%v)\n", rec.Pair.ChapterName, err)
	}

	if len(res.Merged) == 0 {
		return res, nil
	}

	indexPath, err := composeIndex(g, res.Merged, cfg.AssetPath, &res)
	if err != nil {
		return res, err
	}
	defer os.Remove(indexPath)

	files := make([]string, 0, 1+2*len(res.Merged))
	files = append(files, indexPath)
	for _, ch := range res.Merged {
		files = append(files, ch.Record.Pair.QuestionsPath, ch.Record.Pair.ExplanationsPath)
		res.TotalPages += ch.Pages()
	}
	res.TotalPages++ // index page

	if err := writeAtomic(files, outPath, conf); err != nil {
		return res, err
	}
	fmt.Fprintf(w, "merged: %s (%d chapters, %d pages)\n", g.Name(), len(res.Merged), res.TotalPages)
	return res, nil
}

// chapterPages validates one source PDF and returns its page count.
// Validation catches corrupt and encrypted documents before merge.
func chapterPages(path string, conf *model.Configuration) (int, error) {
	if err := api.ValidateFile(path, conf); err != nil {
		return 0, &PageMergeError{Path: path, Err: err}
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, &PageMergeError{Path: path, Err: err}
	}
	return n, nil
}

// composeIndex renders the index page into a temp file and returns its
// path. The caller removes the file when done.
func composeIndex(g types.Grouping, merged []MergedChapter, assetPath string, res *Result) (string, error) {
	tmp, err := os.CreateTemp("", "chapter-binder-index-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating index page temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	lines := make([]string, len(merged))
	for i, ch := range merged {
		if ch.Record.Flagged {
			lines[i] = ch.Record.Pair.ChapterName
		} else {
			lines[i] = fmt.Sprintf("%d. %s", ch.Record.ChapterIndex, ch.Record.Pair.ChapterName)
		}
	}

	assetUsed, err := ComposeIndexPage(tmpPath, g.Name(), lines, assetPath)
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rendering index page: %w", err)
	}
	res.AssetUsed = assetUsed
	return tmpPath, nil
}
