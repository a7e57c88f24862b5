// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// HeaderPolicy selects what happens when a chapter header yields no numeric
// index.
type HeaderPolicy string

const (
	// HeaderSkip excludes the chapter from the merge plan.
	HeaderSkip HeaderPolicy = "skip"
	// HeaderDefault keeps the chapter with DefaultChapterIndex so it sorts
	// after every parsed chapter.
	HeaderDefault HeaderPolicy = "default"
	// HeaderAbort fails the whole grouping.
	HeaderAbort HeaderPolicy = "abort"
)

// ParseHeaderPolicy converts a string to a HeaderPolicy.
func ParseHeaderPolicy(s string) (HeaderPolicy, bool) {
	switch HeaderPolicy(s) {
	case HeaderSkip, HeaderDefault, HeaderAbort:
		return HeaderPolicy(s), true
	}
	return "", false
}

// UnreadablePolicy selects what happens when a source PDF cannot be read or
// is encrypted.
type UnreadablePolicy string

const (
	// UnreadableSkip excludes the chapter and records a warning.
	UnreadableSkip UnreadablePolicy = "skip"
	// UnreadableAbort fails the whole grouping.
	UnreadableAbort UnreadablePolicy = "abort"
)

// ParseUnreadablePolicy converts a string to an UnreadablePolicy.
func ParseUnreadablePolicy(s string) (UnreadablePolicy, bool) {
	switch UnreadablePolicy(s) {
	case UnreadableSkip, UnreadableAbort:
		return UnreadablePolicy(s), true
	}
	return "", false
}

// LocateConfig holds settings for pair discovery.
type LocateConfig struct {
	// InputRoot is the directory scanned for "Class <class> <subject> <year>"
	// grouping directories. A missing root aborts the entire run.
	InputRoot string `json:"input_root" yaml:"input_root"`
}

// ExtractConfig holds settings for chapter header extraction.
type ExtractConfig struct {
	// OnMissingHeader selects the policy for headers without a numeric
	// chapter token (default: skip).
	OnMissingHeader HeaderPolicy `json:"on_missing_header" yaml:"on_missing_header"`
}

// AssembleConfig holds settings for document assembly and the index page.
type AssembleConfig struct {
	// OnUnreadable selects the policy for unreadable or encrypted source
	// PDFs (default: skip).
	OnUnreadable UnreadablePolicy `json:"on_unreadable" yaml:"on_unreadable"`

	// AssetPath is the index page header image. When the file is missing
	// the index page is rendered text-only and a warning is recorded.
	AssetPath string `json:"asset_path" yaml:"asset_path"`
}

// OutputConfig holds settings for writing assembled documents.
type OutputConfig struct {
	// OutputRoot is the directory receiving one compiled PDF per grouping.
	OutputRoot string `json:"output_root" yaml:"output_root"`
}

// ReportConfig holds settings for run reporting.
type ReportConfig struct {
	// ReportDir receives the YAML run report and the run ledger database.
	// Empty disables persisted reports; the terminal summary is always
	// printed.
	ReportDir string `json:"report_dir" yaml:"report_dir"`
}

// BindConfig groups all stage configurations for one run.
type BindConfig struct {
	Locate   LocateConfig   `json:"locate" yaml:"locate"`
	Extract  ExtractConfig  `json:"extract" yaml:"extract"`
	Assemble AssembleConfig `json:"assemble" yaml:"assemble"`
	Output   OutputConfig   `json:"output" yaml:"output"`
	Report   ReportConfig   `json:"report" yaml:"report"`

	// Parallel is the number of groupings processed concurrently.
	// Values below 1 mean sequential.
	Parallel int `json:"parallel" yaml:"parallel"`
}
