package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// Column widths in millimetres; they add up to the printable width of A4.
var pdfWidths = []float64{30, 25, 30, 25, 80}

// rowHeight keeps a full page of rows, with the summary above it, inside
// the A4 auto page break margin.
const rowHeight = 5

// WritePDF renders doc as an A4 PDF, one PDF page per document page.
func WritePDF(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor("finance-tracker", true)
	// Core fonts are cp1252; translate UTF-8 input.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Transaction Summary", "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Total Income: "+doc.Summary.Income.String(), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, "Total Expenses: "+doc.Summary.Expense.String(), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, "Balance: "+doc.Summary.Balance.String(), "", 1, "", false, 0, "")
	pdf.Ln(4)

	if doc.Empty() {
		pdf.CellFormat(0, 6, "No transactions found.", "", 1, "", false, 0, "")
	}

	for i, page := range doc.Pages {
		if i > 0 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, doc.pageHeading(i), "", 1, "", false, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		for j, c := range columns {
			pdf.CellFormat(pdfWidths[j], 6, c, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		for _, r := range page {
			for j, c := range r.cells() {
				pdf.CellFormat(pdfWidths[j], rowHeight, fit(pdf, tr(c), pdfWidths[j]-2), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	return pdf.Output(w)
}

// fit cuts s to the first line that fits in width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	lines := pdf.SplitLines([]byte(s), width)
	if len(lines) == 0 {
		return ""
	}
	return string(lines[0])
}
