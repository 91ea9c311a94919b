package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfHeader       = "Lecture Notes"
	pdfChapterTitle = "Generated Lecture Notes"
)

// PDFOptions controls how notes are fitted to the PDF core fonts.
type PDFOptions struct {
	// Substitute replaces common typographic characters with Latin-1
	// equivalents instead of rejecting them.
	Substitute bool
}

// PDF lays the notes out on A4 pages: a centred bold header on every page,
// a bold chapter title, then the notes word-wrapped in 12pt Arial.
func PDF(notes string, opts PDFOptions) (Artifact, error) {
	body, err := encodeLatin1(notes, opts.Substitute)
	if err != nil {
		return Artifact{}, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(pdfChapterTitle, false)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, pdfHeader, "", 1, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, pdfChapterTitle, "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, body, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("render pdf: %w", err)
	}

	return Artifact{
		Name: "lecture_notes.pdf",
		MIME: MIMEPDF,
		Data: buf.Bytes(),
	}, nil
}
