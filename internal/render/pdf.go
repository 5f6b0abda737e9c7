// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

// FileSuffix is appended to the sanitized title to form the output name.
const FileSuffix = "_Annotations.pdf"

// Page geometry and table layout, in millimeters on Letter paper.
const (
	pageMargin = 25.4
	lineHeight = 5.0
	cellPad    = 1.5

	pageColWidth = 22.0
	textColWidth = 71.5
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// SanitizeTitle derives a filesystem-safe base name from a book title:
// whitespace runs become single underscores, characters outside the
// letter/digit/underscore/hyphen allow-list are stripped, and the result
// is capped at 200 bytes.
func SanitizeTitle(title string) string {
	s := whitespaceRuns.ReplaceAllString(strings.TrimSpace(title), "_")
	s = unsafeChars.ReplaceAllString(s, "")
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		s = "Untitled"
	}
	return s
}

// BatchSummary holds counts from a document-mode run.
type BatchSummary struct {
	Written int
	Failed  int
}

// Total returns the number of books processed.
func (s BatchSummary) Total() int {
	return s.Written + s.Failed
}

// HasFailures reports whether any book failed to render.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// PDFAll renders one PDF per group into cfg.OutputDir, reporting progress
// to w. A failure on one book is reported with its title and does not
// stop the remaining books.
func PDFAll(groups []types.BookGroup, cfg types.RenderConfig, w io.Writer) BatchSummary {
	cfg.ApplyDefaults()

	var summary BatchSummary
	for _, g := range groups {
		path, err := PDFBook(g, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", g.Title, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "wrote %s (%d annotations)\n", path, len(g.Records))
		summary.Written++
	}
	return summary
}

// PDFBook writes one book's annotation table to a PDF named after the
// sanitized title and returns the output path. An existing file of the
// same name is overwritten.
func PDFBook(group types.BookGroup, cfg types.RenderConfig) (string, error) {
	cfg.ApplyDefaults()
	path := filepath.Join(cfg.OutputDir, SanitizeTitle(group.Title)+FileSuffix)

	doc := newBookDoc(group.Title)
	for i, rec := range group.Records {
		doc.row([3]string{rec.Page, rec.Quote, rec.Note}, i%2 == 1)
	}

	if err := doc.pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// bookDoc builds the heading-plus-table layout for one book.
type bookDoc struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	widths [3]float64
	aligns [3]string
	limit  float64 // y past which a new page is needed
}

func newBookDoc(title string) *bookDoc {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)

	_, pageH := pdf.GetPageSize()

	d := &bookDoc{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		widths: [3]float64{pageColWidth, textColWidth, textColWidth},
		aligns: [3]string{"C", "L", "L"},
		limit:  pageH - pageMargin,
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	d.headerRow()

	return d
}

// headerRow draws the shaded table header. Called again after each page
// break so every page carries column labels.
func (d *bookDoc) headerRow() {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(255, 255, 255)
	d.drawCells([3]string{"Page No.", "Quote", "Annotation"}, [3]int{128, 128, 128})
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(0, 0, 0)
}

// row draws one annotation row, shading alternate rows.
func (d *bookDoc) row(cells [3]string, shaded bool) {
	fill := [3]int{255, 255, 255}
	if shaded {
		fill = [3]int{245, 245, 220}
	}
	d.drawCells(cells, fill)
}

// drawCells renders one table row: bordered, filled cells with wrapped,
// top-aligned text, breaking to a fresh page (with a repeated header)
// when the row would not fit.
func (d *bookDoc) drawCells(cells [3]string, fill [3]int) {
	var lines [3][]string
	height := lineHeight + 2*cellPad
	for i, cell := range cells {
		lines[i] = d.pdf.SplitText(d.tr(cell), d.widths[i]-2*cellPad)
		if h := float64(len(lines[i]))*lineHeight + 2*cellPad; h > height {
			height = h
		}
	}

	if d.pdf.GetY()+height > d.limit {
		d.pdf.AddPage()
		d.headerRow()
	}
	d.pdf.SetFillColor(fill[0], fill[1], fill[2])

	x := pageMargin
	y := d.pdf.GetY()
	for i := range cells {
		d.pdf.Rect(x, y, d.widths[i], height, "FD")
		d.pdf.SetXY(x+cellPad, y+cellPad)
		for _, line := range lines[i] {
			d.pdf.CellFormat(d.widths[i]-2*cellPad, lineHeight, line, "", 2, d.aligns[i], false, 0, "")
		}
		x += d.widths[i]
	}
	d.pdf.SetXY(pageMargin, y+height)
}
