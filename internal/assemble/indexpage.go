// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"os"

	gofpdf "github.com/lvillar/gofpdf"
)

// Index page layout, A4 portrait in millimeters. Placement is fixed;
// TOC text overflowing the page bottom is a documented limitation.
const (
	indexMarginX = 20.0
	assetY       = 15.0
	assetWidth   = 170.0
	titleY       = 95.0
	titleHeight  = 12.0
	tocStartY    = 115.0
	tocLineH     = 8.0
)

// ComposeIndexPage renders a single-page PDF at path: the index asset image
// in its fixed box, the grouping title, and one TOC line per chapter. When
// the asset file does not exist the page is rendered text-only and the
// returned flag is false.
func ComposeIndexPage(path, title string, tocLines []string, assetPath string) (assetUsed bool, err error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	if assetPath != "" {
		if _, statErr := os.Stat(assetPath); statErr == nil {
			doc.ImageOptions(assetPath, indexMarginX, assetY, assetWidth, 0, false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			assetUsed = true
		}
	}

	doc.SetFont("Helvetica", "B", 22)
	doc.SetXY(indexMarginX, titleY)
	doc.Cell(0, titleHeight, title)

	doc.SetFont("Helvetica", "", 13)
	y := tocStartY
	for _, line := range tocLines {
		doc.SetXY(indexMarginX, y)
		doc.Cell(0, tocLineH, line)
		y += tocLineH
	}

	if err := doc.OutputFileAndClose(path); err != nil {
		return assetUsed, fmt.Errorf("writing index page: %w", err)
	}
	return assetUsed, nil
}
