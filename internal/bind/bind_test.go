// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bind

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/chapter-binder/internal/header"
	"github.com/pdiddy/chapter-binder/pkg/types"
)

// mapExtractor resolves chapter indices from a fixed table, standing in for
// first-page text extraction. Chapters absent from the table produce a
// HeaderParseError, like a header without a numeric token.
type mapExtractor struct {
	idx map[string]int
}

func (m mapExtractor) Extract(pair types.ChapterPair) (types.ChapterRecord, error) {
	i, ok := m.idx[pair.ChapterName]
	if !ok {
		return types.ChapterRecord{}, &header.HeaderParseError{Pair: pair, RawLine: pair.ChapterName}
	}
	return types.ChapterRecord{
		Pair:          pair,
		RawHeaderLine: fmt.Sprintf("Chapter %d: %s", i, pair.ChapterName),
		ChapterIndex:  i,
	}, nil
}

func writePDF(t *testing.T, path string, pages int, label string) {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 14)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.SetXY(20, 30)
		doc.Cell(0, 10, fmt.Sprintf("%s page %d", label, i))
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatal(err)
	}
}

// fixtureGrouping creates a grouping directory with real chapter pairs.
// chapters maps chapter name to (questions pages, explanations pages).
func fixtureGrouping(t *testing.T, root, class, subject string, chapters map[string][2]int) types.Grouping {
	t.Helper()
	dir := filepath.Join(root, fmt.Sprintf("Class %s %s 2025", class, subject))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	g := types.Grouping{Class: class, Subject: subject, Year: "2025", Dir: dir}
	for name, pages := range chapters {
		q := filepath.Join(dir, fmt.Sprintf("Class %s - %s - %s - Questions.pdf", class, subject, name))
		e := filepath.Join(dir, fmt.Sprintf("Class %s - %s - %s - Explanations.pdf", class, subject, name))
		writePDF(t, q, pages[0], name+" questions")
		writePDF(t, e, pages[1], name+" explanations")
		g.Pairs = append(g.Pairs, types.ChapterPair{
			Class:            class,
			Subject:          subject,
			ChapterName:      name,
			QuestionsPath:    q,
			ExplanationsPath: e,
		})
	}
	return g
}

func testConfig(root, out string) types.BindConfig {
	return types.BindConfig{
		Locate:   types.LocateConfig{InputRoot: root},
		Extract:  types.ExtractConfig{OnMissingHeader: types.HeaderSkip},
		Assemble: types.AssembleConfig{OnUnreadable: types.UnreadableSkip},
		Output:   types.OutputConfig{OutputRoot: out},
	}
}

func TestRunSingleGrouping(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	g := fixtureGrouping(t, root, "3", "Maths", map[string][2]int{
		"Algebra":  {2, 2},
		"Geometry": {1, 1},
	})
	cfg := testConfig(root, out)
	ex := mapExtractor{idx: map[string]int{"Algebra": 1, "Geometry": 2}}
	var log bytes.Buffer

	r := Run(cfg, []types.Grouping{g}, ex, &log)

	if len(r.Groupings) != 1 {
		t.Fatalf("got %d grouping reports, want 1", len(r.Groupings))
	}
	gr := r.Groupings[0]
	if gr.Status != types.GroupingMerged {
		t.Fatalf("status = %s, want merged (err: %s)", gr.Status, gr.Err)
	}
	if want := 1 + 2 + 2 + 1 + 1; gr.TotalPages != want {
		t.Errorf("TotalPages = %d, want %d", gr.TotalPages, want)
	}

	outPath := OutputPath(out, g)
	n, err := api.PageCountFile(outPath)
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	if n != gr.TotalPages {
		t.Errorf("output pages = %d, report says %d", n, gr.TotalPages)
	}

	// The index page is page 1 of the final output.
	first, err := header.FirstLine(outPath)
	if err != nil {
		t.Fatalf("reading first page of output: %v", err)
	}
	if !strings.Contains(first, "Class 3 Maths") {
		t.Errorf("page 1 first line = %q, want index page title", first)
	}
}

func TestRunHeaderPolicies(t *testing.T) {
	tests := []struct {
		name        string
		policy      types.HeaderPolicy
		wantStatus  types.GroupingStatus
		wantMerged  int
		wantSkipped int
	}{
		{"skip excludes the chapter", types.HeaderSkip, types.GroupingMerged, 1, 1},
		{"default keeps the chapter last", types.HeaderDefault, types.GroupingMerged, 2, 0},
		{"abort fails the grouping", types.HeaderAbort, types.GroupingAborted, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			out := filepath.Join(root, "out")
			g := fixtureGrouping(t, root, "3", "Maths", map[string][2]int{
				"Algebra": {1, 1},
				"Mystery": {1, 1}, // no index known for this chapter
			})
			cfg := testConfig(root, out)
			cfg.Extract.OnMissingHeader = tt.policy
			ex := mapExtractor{idx: map[string]int{"Algebra": 1}}

			r := Run(cfg, []types.Grouping{g}, ex, new(bytes.Buffer))
			gr := r.Groupings[0]

			if gr.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", gr.Status, tt.wantStatus)
			}
			var merged, skipped int
			for _, c := range gr.Chapters {
				switch c.Status {
				case types.ChapterMerged:
					merged++
				case types.ChapterSkipped:
					skipped++
				}
			}
			if merged != tt.wantMerged || skipped != tt.wantSkipped {
				t.Errorf("merged=%d skipped=%d, want %d/%d", merged, skipped, tt.wantMerged, tt.wantSkipped)
			}

			if tt.policy == types.HeaderDefault && gr.Status == types.GroupingMerged {
				// Defaulted chapter sorts last: Mystery is the final merged chapter.
				last := gr.Chapters[len(gr.Chapters)-1]
				if last.ChapterName != "Mystery" {
					t.Errorf("last chapter = %s, want Mystery", last.ChapterName)
				}
			}
			if tt.policy == types.HeaderAbort {
				if _, err := os.Stat(OutputPath(out, g)); !os.IsNotExist(err) {
					t.Error("aborted grouping must not write output")
				}
			}
		})
	}
}

func TestRunGroupingsAreIndependent(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")

	good := fixtureGrouping(t, root, "3", "Maths", map[string][2]int{"Algebra": {1, 1}})

	// Second grouping's only chapter has an unreadable Questions file and
	// the abort policy, so the grouping fails.
	bad := fixtureGrouping(t, root, "4", "Science", map[string][2]int{"Waves": {1, 1}})
	if err := os.WriteFile(bad.Pairs[0].QuestionsPath, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(root, out)
	cfg.Assemble.OnUnreadable = types.UnreadableAbort
	ex := mapExtractor{idx: map[string]int{"Algebra": 1, "Waves": 1}}
	var log bytes.Buffer

	r := Run(cfg, []types.Grouping{good, bad}, ex, &log)

	if r.Groupings[0].Status != types.GroupingMerged {
		t.Errorf("good grouping status = %s, want merged", r.Groupings[0].Status)
	}
	if r.Groupings[1].Status != types.GroupingAborted {
		t.Errorf("bad grouping status = %s, want aborted", r.Groupings[1].Status)
	}
	if _, err := os.Stat(OutputPath(out, good)); err != nil {
		t.Errorf("good grouping output missing: %v", err)
	}
}

func TestRunParallel(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")

	groupings := []types.Grouping{
		fixtureGrouping(t, root, "3", "Maths", map[string][2]int{"Algebra": {1, 1}}),
		fixtureGrouping(t, root, "4", "Science", map[string][2]int{"Waves": {2, 1}}),
		fixtureGrouping(t, root, "5", "English", map[string][2]int{"Poetry": {1, 2}}),
	}
	cfg := testConfig(root, out)
	cfg.Parallel = 3
	ex := mapExtractor{idx: map[string]int{"Algebra": 1, "Waves": 1, "Poetry": 1}}
	var log bytes.Buffer

	r := Run(cfg, groupings, ex, &log)

	if len(r.Groupings) != 3 {
		t.Fatalf("got %d grouping reports, want 3", len(r.Groupings))
	}
	// Reports come back in input order regardless of scheduling.
	wantNames := []string{"Class 3 Maths", "Class 4 Science", "Class 5 English"}
	for i, want := range wantNames {
		if r.Groupings[i].Name != want {
			t.Errorf("groupings[%d] = %s, want %s", i, r.Groupings[i].Name, want)
		}
		if r.Groupings[i].Status != types.GroupingMerged {
			t.Errorf("%s status = %s, want merged", want, r.Groupings[i].Status)
		}
	}
	// Status output is flushed per grouping in input order.
	mathsAt := strings.Index(log.String(), "Class 3 Maths")
	englishAt := strings.Index(log.String(), "Class 5 English")
	if mathsAt == -1 || englishAt == -1 || mathsAt > englishAt {
		t.Errorf("status output not in input order:\n%s", log.String())
	}
}
