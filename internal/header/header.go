// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package header recovers each chapter's ordering key. The primary strategy
// reads the first line of text from the Questions PDF; an alternate strategy
// parses the chapter name from the filename. Both sit behind KeyExtractor so
// assembly logic never depends on where the key came from.
package header

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

// KeyExtractor derives a ChapterRecord (ordering key plus raw header text)
// from a chapter pair. Extraction is read-only with respect to the sources.
type KeyExtractor interface {
	Extract(pair types.ChapterPair) (types.ChapterRecord, error)
}

// HeaderParseError reports a header with no recognizable numeric chapter
// token. The caller applies the configured policy (skip, default, abort).
type HeaderParseError struct {
	Pair    types.ChapterPair
	RawLine string
}

func (e *HeaderParseError) Error() string {
	return fmt.Sprintf("chapter %q: no numeric chapter token in header %q",
		e.Pair.ChapterName, e.RawLine)
}

var (
	// chapterTokenRe matches a "Chapter N" token anywhere in the line.
	chapterTokenRe = regexp.MustCompile(`(?i)\bchapter\s*(\d+)\b`)
	// leadingDigitsRe matches a line that starts with digits, e.g. "3. Geometry".
	leadingDigitsRe = regexp.MustCompile(`^\s*(\d+)`)
)

// ParseChapterIndex extracts a non-negative chapter index from a header
// line. A "Chapter N" token wins over leading digits so headers like
// "1.2 Chapter 7 Review" resolve to 7.
func ParseChapterIndex(line string) (int, bool) {
	for _, re := range []*regexp.Regexp{chapterTokenRe, leadingDigitsRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 0 {
				continue
			}
			return n, true
		}
	}
	return 0, false
}

// FilenameExtractor is the alternate strategy: it parses the ordering key
// from the chapter name segment of the filename instead of the document
// text. Useful when source PDFs carry no extractable text.
type FilenameExtractor struct{}

// Extract parses a numeric token from pair.ChapterName.
func (FilenameExtractor) Extract(pair types.ChapterPair) (types.ChapterRecord, error) {
	name := strings.TrimSpace(pair.ChapterName)
	idx, ok := ParseChapterIndex(name)
	if !ok {
		return types.ChapterRecord{}, &HeaderParseError{Pair: pair, RawLine: name}
	}
	return types.ChapterRecord{
		Pair:          pair,
		RawHeaderLine: name,
		ChapterIndex:  idx,
	}, nil
}
