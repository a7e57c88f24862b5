// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the chapter-binder
// pipeline: discovered chapter pairs, extracted chapter records, merge
// plans, and per-run status values.
package types

// PairRole identifies which half of a chapter pair a file is.
type PairRole string

const (
	RoleQuestions    PairRole = "Questions"
	RoleExplanations PairRole = "Explanations"
)

// ChapterPair is one chapter's Questions PDF and its matching Explanations
// PDF. A pair is only constructed when both files exist on disk; it is
// immutable once built.
type ChapterPair struct {
	// Class is the class label from the directory name (e.g. "3").
	Class string `json:"class" yaml:"class"`

	// Subject is the subject name (e.g. "Maths").
	Subject string `json:"subject" yaml:"subject"`

	// ChapterName is the chapter title segment of the filename.
	ChapterName string `json:"chapter_name" yaml:"chapter_name"`

	// QuestionsPath is the absolute path to the Questions PDF.
	QuestionsPath string `json:"questions_path" yaml:"questions_path"`

	// ExplanationsPath is the absolute path to the Explanations PDF.
	ExplanationsPath string `json:"explanations_path" yaml:"explanations_path"`
}

// DefaultChapterIndex is the sort key assigned to a chapter whose header
// yields no numeric index under the "default" policy. It sorts after every
// real chapter index; ties among defaulted chapters keep discovery order.
const DefaultChapterIndex = 1<<31 - 1

// ChapterRecord is a ChapterPair plus the ordering key recovered from its
// first page. ChapterIndex is non-negative; a record that could not be
// parsed is either excluded or carries DefaultChapterIndex with Flagged set.
type ChapterRecord struct {
	Pair ChapterPair `json:"pair" yaml:"pair"`

	// RawHeaderLine is the first line of text read from the Questions PDF.
	RawHeaderLine string `json:"raw_header_line" yaml:"raw_header_line"`

	// ChapterIndex is the numeric ordering key parsed from RawHeaderLine.
	ChapterIndex int `json:"chapter_index" yaml:"chapter_index"`

	// Flagged marks a record that received DefaultChapterIndex because no
	// numeric token was found in its header.
	Flagged bool `json:"flagged,omitempty" yaml:"flagged,omitempty"`
}

// TOCEntry is one line of the index page's table of contents.
type TOCEntry struct {
	ChapterIndex int    `json:"chapter_index" yaml:"chapter_index"`
	ChapterName  string `json:"chapter_name" yaml:"chapter_name"`
}

// MergePlan is the ordered sequence of chapters for one grouping, sorted
// ascending by ChapterIndex with ties kept in discovery order. It is built
// once per run and read-only afterward.
type MergePlan struct {
	Records []ChapterRecord `json:"records" yaml:"records"`
	TOC     []TOCEntry      `json:"toc" yaml:"toc"`
}

// Grouping is one class/subject input directory and the chapter pairs
// discovered under it. Groupings are independent of each other.
type Grouping struct {
	// Class, Subject, Year come from the directory name
	// "Class <class> <subject> <year>".
	Class   string `json:"class" yaml:"class"`
	Subject string `json:"subject" yaml:"subject"`
	Year    string `json:"year" yaml:"year"`

	// Dir is the absolute path of the grouping directory.
	Dir string `json:"dir" yaml:"dir"`

	// Pairs lists valid chapter pairs in deterministic discovery order.
	Pairs []ChapterPair `json:"pairs" yaml:"pairs"`

	// Warnings records unmatched singletons and other non-fatal findings.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Name returns the grouping's display name, e.g. "Class 3 Maths".
func (g Grouping) Name() string {
	return "Class " + g.Class + " " + g.Subject
}

// ChapterStatus records the outcome for one chapter within a grouping run.
type ChapterStatus string

const (
	ChapterMerged  ChapterStatus = "merged"
	ChapterSkipped ChapterStatus = "skipped"
)

// GroupingStatus records the outcome for one grouping run.
type GroupingStatus string

const (
	GroupingMerged  GroupingStatus = "merged"
	GroupingAborted GroupingStatus = "aborted"
	GroupingEmpty   GroupingStatus = "empty"
)
