// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate discovers chapter pairs on disk. It walks the input root
// for grouping directories named "Class <class> <subject> <year>" and pairs
// each chapter's Questions PDF with its Explanations PDF.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

// groupingDirRe matches "Class <class> <subject> <year>". Subject may
// contain spaces; class and year may not.
var groupingDirRe = regexp.MustCompile(`^Class (\S+) (.+) (\d{4})$`)

const pdfExt = ".pdf"

// MissingPairError reports a chapter file whose counterpart is absent.
// It is recorded as a grouping warning, never a fatal error.
type MissingPairError struct {
	Class   string
	Subject string
	Chapter string
	// Missing is the absent role (Questions or Explanations).
	Missing types.PairRole
}

func (e *MissingPairError) Error() string {
	return fmt.Sprintf("chapter %q (Class %s %s): missing %s file",
		e.Chapter, e.Class, e.Subject, e.Missing)
}

// Scan walks root and returns one Grouping per matching subdirectory, each
// holding its valid chapter pairs in deterministic discovery order
// (lexicographic by chapter filename). A missing or unreadable root is the
// only fatal condition.
func Scan(root string) ([]types.Grouping, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading input root %s: %w", root, err)
	}

	var groupings []types.Grouping
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := groupingDirRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		g, err := scanGrouping(filepath.Join(root, entry.Name()), m[1], m[2], m[3])
		if err != nil {
			return nil, err
		}
		groupings = append(groupings, g)
	}

	sort.Slice(groupings, func(i, j int) bool {
		return groupings[i].Dir < groupings[j].Dir
	})
	return groupings, nil
}

// pairFiles holds the two halves of a chapter while scanning.
type pairFiles struct {
	questions    string
	explanations string
}

// scanGrouping collects chapter pairs inside one grouping directory.
// Filenames must split on " - " into exactly four parts:
// "Class <class> - <subject> - <chapterName> - <role>.pdf". Files not
// matching the convention are ignored.
func scanGrouping(dir, class, subject, year string) (types.Grouping, error) {
	g := types.Grouping{
		Class:   class,
		Subject: subject,
		Year:    year,
		Dir:     dir,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return g, fmt.Errorf("reading grouping directory %s: %w", dir, err)
	}

	chapters := make(map[string]*pairFiles)
	var order []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), pdfExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		parts := strings.Split(name, " - ")
		if len(parts) != 4 {
			continue
		}
		chapter := strings.TrimSpace(parts[2])
		role := strings.TrimSpace(parts[3])

		pf, ok := chapters[chapter]
		if !ok {
			pf = &pairFiles{}
			chapters[chapter] = pf
			order = append(order, chapter)
		}
		full := filepath.Join(dir, entry.Name())
		switch {
		case strings.Contains(role, "Question"):
			pf.questions = full
		case strings.Contains(role, "Explanation"):
			pf.explanations = full
		}
	}

	// ReadDir returns entries sorted by name, so order is already the
	// deterministic discovery order.
	for _, chapter := range order {
		pf := chapters[chapter]
		if pf.questions == "" || pf.explanations == "" {
			missing := types.RoleQuestions
			if pf.questions != "" {
				missing = types.RoleExplanations
			}
			warn := &MissingPairError{
				Class:   class,
				Subject: subject,
				Chapter: chapter,
				Missing: missing,
			}
			g.Warnings = append(g.Warnings, warn.Error())
			continue
		}
		g.Pairs = append(g.Pairs, types.ChapterPair{
			Class:            class,
			Subject:          subject,
			ChapterName:      chapter,
			QuestionsPath:    pf.questions,
			ExplanationsPath: pf.explanations,
		})
	}

	return g, nil
}
