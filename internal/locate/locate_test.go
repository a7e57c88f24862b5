// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile creates an empty placeholder file for discovery tests.
// Discovery never opens the files, so content does not matter here.
func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()

	mathsDir := filepath.Join(root, "Class 3 Maths 2025")
	if err := os.MkdirAll(mathsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, mathsDir, "Class 3 - Maths - Algebra - Questions.pdf")
	writeFile(t, mathsDir, "Class 3 - Maths - Algebra - Explanations.pdf")
	writeFile(t, mathsDir, "Class 3 - Maths - Geometry - Questions.pdf")
	writeFile(t, mathsDir, "Class 3 - Maths - Geometry - Explanations.pdf")
	// Singleton: Explanations file missing.
	writeFile(t, mathsDir, "Class 3 - Maths - Fractions - Questions.pdf")
	// Wrong part count: silently ignored.
	writeFile(t, mathsDir, "Class 3 - Maths - Notes.pdf")
	writeFile(t, mathsDir, "README.txt")

	// Directory not matching the naming convention: ignored entirely.
	if err := os.MkdirAll(filepath.Join(root, "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}

	groupings, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(groupings) != 1 {
		t.Fatalf("got %d groupings, want 1", len(groupings))
	}

	g := groupings[0]
	if g.Class != "3" || g.Subject != "Maths" || g.Year != "2025" {
		t.Errorf("grouping = %s/%s/%s, want 3/Maths/2025", g.Class, g.Subject, g.Year)
	}
	if len(g.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(g.Pairs))
	}
	if g.Pairs[0].ChapterName != "Algebra" || g.Pairs[1].ChapterName != "Geometry" {
		t.Errorf("pair order = [%s, %s], want [Algebra, Geometry]",
			g.Pairs[0].ChapterName, g.Pairs[1].ChapterName)
	}
	for _, p := range g.Pairs {
		if _, err := os.Stat(p.QuestionsPath); err != nil {
			t.Errorf("questions path %s: %v", p.QuestionsPath, err)
		}
		if _, err := os.Stat(p.ExplanationsPath); err != nil {
			t.Errorf("explanations path %s: %v", p.ExplanationsPath, err)
		}
	}

	if len(g.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(g.Warnings), g.Warnings)
	}
	if !strings.Contains(g.Warnings[0], "Fractions") || !strings.Contains(g.Warnings[0], "Explanations") {
		t.Errorf("warning %q does not name the Fractions singleton", g.Warnings[0])
	}
}

func TestScanMultiWordSubject(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Class 10 Social Science 2024")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "Class 10 - Social Science - History - Questions.pdf")
	writeFile(t, dir, "Class 10 - Social Science - History - Explanations.pdf")

	groupings, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(groupings) != 1 {
		t.Fatalf("got %d groupings, want 1", len(groupings))
	}
	if got := groupings[0].Subject; got != "Social Science" {
		t.Errorf("subject = %q, want %q", got, "Social Science")
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Scan() on missing root: want error, got nil")
	}
}

func TestScanDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Class 5 Science 2025")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, ch := range []string{"Waves", "Atoms", "Motion"} {
		writeFile(t, dir, "Class 5 - Science - "+ch+" - Questions.pdf")
		writeFile(t, dir, "Class 5 - Science - "+ch+" - Explanations.pdf")
	}

	first, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first[0].Pairs {
		if first[0].Pairs[i] != second[0].Pairs[i] {
			t.Fatalf("discovery order differs between runs at %d", i)
		}
	}
	// Lexicographic discovery order.
	want := []string{"Atoms", "Motion", "Waves"}
	for i, p := range first[0].Pairs {
		if p.ChapterName != want[i] {
			t.Errorf("pair[%d] = %s, want %s", i, p.ChapterName, want[i])
		}
	}
}
