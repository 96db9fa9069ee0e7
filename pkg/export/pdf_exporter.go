package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is a label/value line printed above or below a table.
type Field struct {
	Label string
	Value string
}

// Section is one titled table, e.g. a single term of a transcript.
type Section struct {
	Heading string
	Table   Table
	Summary []Field
}

// Document describes a printable report.
type Document struct {
	Title    string
	Fields   []Field
	Sections []Section
	Footer   []Field
}

// PDFExporter lays a Document out on A4 portrait pages.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const (
	pageWidth   = 190.0
	labelWidth  = 45.0
	rowHeight   = 7.0
	headerHeight = 8.0
)

func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	writeFields(pdf, tr, doc.Fields)

	for _, section := range doc.Sections {
		if len(section.Table.Headers) == 0 {
			return nil, fmt.Errorf("section %q has no columns", section.Heading)
		}
		pdf.Ln(4)
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, headerHeight, tr(section.Heading), "", 1, "L", false, 0, "")
		}

		colWidth := pageWidth / float64(len(section.Table.Headers))
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range section.Table.Headers {
			pdf.CellFormat(colWidth, headerHeight, tr(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range section.Table.Rows {
			for i := range section.Table.Headers {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				pdf.CellFormat(colWidth, rowHeight, tr(value), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		writeFields(pdf, tr, section.Summary)
	}

	if len(doc.Footer) > 0 {
		pdf.Ln(4)
		writeFields(pdf, tr, doc.Footer)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFields(pdf *gofpdf.Fpdf, tr func(string) string, fields []Field) {
	for _, f := range fields {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(labelWidth, rowHeight, tr(f.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(pageWidth-labelWidth, rowHeight, tr(f.Value), "", 1, "L", false, 0, "")
	}
}
