// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

func sampleReport() RunReport {
	return RunReport{
		StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 1, 10, 2, 0, 0, time.UTC),
		InputRoot:  "/data/books",
		Groupings: []GroupingReport{
			{
				Name:       "Class 3 Maths",
				Class:      "3",
				Subject:    "Maths",
				Year:       "2025",
				Status:     types.GroupingMerged,
				OutputPath: "/out/Class 3 - Maths - Compiled.pdf",
				TotalPages: 42,
				Chapters: []ChapterReport{
					{ChapterName: "Algebra", Status: types.ChapterMerged, Pages: 20},
					{ChapterName: "Fractions", Status: types.ChapterSkipped, Reason: "no numeric chapter token"},
				},
			},
			{
				Name:    "Class 4 Science",
				Class:   "4",
				Subject: "Science",
				Year:    "2025",
				Status:  types.GroupingAborted,
				Err:     "cannot merge pages from waves-q.pdf",
			},
		},
	}
}

func TestReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	r := sampleReport()

	require.NoError(t, WriteFile(path, r))
	got, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, r.InputRoot, got.InputRoot)
	require.Len(t, got.Groupings, 2)
	assert.Equal(t, types.GroupingMerged, got.Groupings[0].Status)
	assert.Equal(t, 1, got.Groupings[0].SkippedChapters())
	assert.Equal(t, "cannot merge pages from waves-q.pdf", got.Groupings[1].Err)
}

func TestCounts(t *testing.T) {
	r := sampleReport()
	merged, aborted, empty := r.Counts()
	assert.Equal(t, 1, merged)
	assert.Equal(t, 1, aborted)
	assert.Equal(t, 0, empty)
	assert.True(t, r.HasFailures())
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(sampleReport(), &buf)
	out := buf.String()

	assert.Contains(t, out, "Run summary: 1 merged, 1 aborted, 0 empty")
	assert.Contains(t, out, "merged:  Class 3 Maths")
	assert.Contains(t, out, "skipped chapter: Fractions (no numeric chapter token)")
	assert.Contains(t, out, "aborted: Class 4 Science")
}

func TestLedgerRecordAndList(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenLedger(dir)
	require.NoError(t, err)
	defer l.Close()

	id, err := l.Record(sampleReport())
	require.NoError(t, err)
	assert.Positive(t, id)

	second := sampleReport()
	second.Groupings = second.Groupings[:1]
	_, err = l.Record(second)
	require.NoError(t, err)

	runs, err := l.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, 1, runs[0].Merged)
	assert.Equal(t, 0, runs[0].Aborted)
	assert.Equal(t, 1, runs[1].Merged)
	assert.Equal(t, 1, runs[1].Aborted)
	assert.Equal(t, 1, runs[1].SkippedChapters)
	assert.Equal(t, "/data/books", runs[0].InputRoot)
}

func TestLedgerReopen(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenLedger(dir)
	require.NoError(t, err)
	_, err = l.Record(sampleReport())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	// Schema creation is idempotent; previous rows survive.
	l2, err := OpenLedger(dir)
	require.NoError(t, err)
	defer l2.Close()

	runs, err := l2.Runs(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
