package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In Docker runtime fonts are copied to /app/ttf next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	for _, p := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (mf *PDFFormatter) Format(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	fontName := "Arial"
	// Core fonts are cp1252; translate so accented Latin text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 18)
	pdf.MultiCell(0, 9, tr(doc.Title), "", "", false)
	pdf.Ln(2)

	pdf.SetFont(fontName, "", 10)
	for _, m := range doc.Meta {
		pdf.MultiCell(0, 5, tr(m), "", "", false)
	}
	pdf.Ln(4)

	if doc.Summary != "" {
		pdf.SetFont(fontName, "B", 13)
		pdf.Cell(0, 8, "Summary")
		pdf.Ln(9)
		pdf.SetFont(fontName, "", 11)
		pdf.MultiCell(0, 6, tr(doc.Summary), "", "", false)
		pdf.Ln(4)
	}

	pdf.SetFont(fontName, "B", 13)
	pdf.Cell(0, 8, "Conversation")
	pdf.Ln(9)

	for _, l := range doc.Lines {
		pdf.SetFont(fontName, "B", 11)
		pdf.MultiCell(0, 6, tr(l.Speaker+" ("+l.At+")"), "", "", false)
		pdf.SetFont(fontName, "", 11)
		pdf.MultiCell(0, 6, tr(l.Text), "", "", false)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
