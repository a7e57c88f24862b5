// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package header

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

// FirstLineExtractor is the primary strategy: it opens the Questions PDF and
// takes the topmost row of text on the first page as the chapter header.
type FirstLineExtractor struct{}

// Extract reads the first line of the Questions document and parses its
// numeric chapter token. The source file is opened read-only and closed on
// every path.
func (FirstLineExtractor) Extract(pair types.ChapterPair) (types.ChapterRecord, error) {
	line, err := FirstLine(pair.QuestionsPath)
	if err != nil {
		return types.ChapterRecord{}, fmt.Errorf("reading header of %s: %w", pair.QuestionsPath, err)
	}

	idx, ok := ParseChapterIndex(line)
	if !ok {
		return types.ChapterRecord{}, &HeaderParseError{Pair: pair, RawLine: line}
	}
	return types.ChapterRecord{
		Pair:          pair,
		RawHeaderLine: line,
		ChapterIndex:  idx,
	}, nil
}

// FirstLine returns the first non-empty text row of the first page of the
// PDF at path. Rows come back top-first from the reader, so the first row
// with content is the header line.
func FirstLine(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return "", fmt.Errorf("document has no pages")
	}
	page := reader.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("first page is empty")
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("extracting text rows: %w", err)
	}

	for _, row := range rows {
		var sb strings.Builder
		for _, word := range row.Content {
			sb.WriteString(word.S)
		}
		line := strings.TrimSpace(sb.String())
		if line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("no text content on first page")
}
