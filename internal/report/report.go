// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report aggregates per-grouping outcomes into the end-of-run
// summary, persists it as a YAML report file, and records runs in a SQLite
// ledger so past runs can be listed.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

// ChapterReport records the outcome for one chapter of a grouping.
type ChapterReport struct {
	ChapterName string              `yaml:"chapter"`
	Status      types.ChapterStatus `yaml:"status"`

	// Reason explains a skip (missing header, unreadable source).
	Reason string `yaml:"reason,omitempty"`

	// Pages is the chapter's page contribution when merged.
	Pages int `yaml:"pages,omitempty"`
}

// GroupingReport records the outcome for one class/subject grouping.
type GroupingReport struct {
	Name       string               `yaml:"name"`
	Class      string               `yaml:"class"`
	Subject    string               `yaml:"subject"`
	Year       string               `yaml:"year"`
	Status     types.GroupingStatus `yaml:"status"`
	OutputPath string               `yaml:"output_path,omitempty"`
	TotalPages int                  `yaml:"total_pages,omitempty"`
	Chapters   []ChapterReport      `yaml:"chapters,omitempty"`
	Warnings   []string             `yaml:"warnings,omitempty"`

	// Err holds the abort reason for an aborted grouping.
	Err string `yaml:"error,omitempty"`
}

// SkippedChapters counts the grouping's skipped chapters.
func (g GroupingReport) SkippedChapters() int {
	n := 0
	for _, c := range g.Chapters {
		if c.Status == types.ChapterSkipped {
			n++
		}
	}
	return n
}

// RunReport is the complete outcome of one run across all groupings.
type RunReport struct {
	StartedAt  time.Time        `yaml:"started_at"`
	FinishedAt time.Time        `yaml:"finished_at"`
	InputRoot  string           `yaml:"input_root"`
	Groupings  []GroupingReport `yaml:"groupings"`
}

// Counts returns the number of merged, aborted, and empty groupings.
func (r RunReport) Counts() (merged, aborted, empty int) {
	for _, g := range r.Groupings {
		switch g.Status {
		case types.GroupingMerged:
			merged++
		case types.GroupingAborted:
			aborted++
		case types.GroupingEmpty:
			empty++
		}
	}
	return merged, aborted, empty
}

// HasFailures reports whether any grouping aborted.
func (r RunReport) HasFailures() bool {
	_, aborted, _ := r.Counts()
	return aborted > 0
}

// WriteFile saves the run report as YAML.
func WriteFile(path string, r RunReport) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a previously saved run report.
func ReadFile(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run report: %w", err)
	}
	var r RunReport
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing run report: %w", err)
	}
	return &r, nil
}

// Render prints the end-of-run summary: merged groupings, skipped chapters
// with reasons, and aborted groupings.
func Render(r RunReport, w io.Writer) {
	merged, aborted, empty := r.Counts()
	fmt.Fprintf(w, "\nRun summary: %d merged, %d aborted, %d empty (total: %d)\n",
		merged, aborted, empty, len(r.Groupings))

	for _, g := range r.Groupings {
		switch g.Status {
		case types.GroupingMerged:
			fmt.Fprintf(w, "  merged:  %s -> %s (%d pages)\n", g.Name, g.OutputPath, g.TotalPages)
		case types.GroupingAborted:
			fmt.Fprintf(w, "  aborted: %s (%s)\n", g.Name, g.Err)
		case types.GroupingEmpty:
			fmt.Fprintf(w, "  empty:   %s\n", g.Name)
		}
		for _, c := range g.Chapters {
			if c.Status == types.ChapterSkipped {
				fmt.Fprintf(w, "    skipped chapter: %s (%s)\n", c.ChapterName, c.Reason)
			}
		}
		for _, warn := range g.Warnings {
			fmt.Fprintf(w, "    warning: %s\n", warn)
		}
	}
}
