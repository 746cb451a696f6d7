// Package report builds the exportable transaction report and renders it
// as Markdown, HTML or PDF.
package report

import (
	"fmt"
	"io"
	"strings"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/summary"
)

// DefaultPageSize is the number of transaction rows per page.
const DefaultPageSize = 40

// Row is one transaction line in the report.
type Row struct {
	Date        models.Date
	Amount      money.Amount
	Category    string
	Type        models.TxType
	Description string
}

// Summary holds the report's headline figures.
type Summary struct {
	Income  money.Amount
	Expense money.Amount
	Balance money.Amount
}

// Document is a report independent of its output format.
type Document struct {
	Title   string
	Summary Summary
	Pages   [][]Row
}

// Build assembles a report for username. Rows keep the order of txs and are
// split into pages of pageSize rows; a non-positive pageSize means
// DefaultPageSize. No transactions yields a document with zero pages.
func Build(username string, totals summary.Totals, txs []models.Transaction, pageSize int) *Document {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	doc := &Document{
		Title: "Financial Report for " + username,
		Summary: Summary{
			Income:  totals.Income,
			Expense: totals.Expense,
			Balance: totals.Balance(),
		},
	}

	var page []Row
	for _, t := range txs {
		page = append(page, Row{
			Date:        t.Date,
			Amount:      t.Amount,
			Category:    t.Category,
			Type:        t.Type,
			Description: t.Description,
		})
		if len(page) == pageSize {
			doc.Pages = append(doc.Pages, page)
			page = nil
		}
	}
	if len(page) > 0 {
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}

// Empty reports whether the document has no transaction rows.
func (d *Document) Empty() bool { return len(d.Pages) == 0 }

// Rows returns the number of transaction rows across all pages.
func (d *Document) Rows() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p)
	}
	return n
}

func (d *Document) pageHeading(i int) string {
	if len(d.Pages) == 1 {
		return "Transaction Details"
	}
	return fmt.Sprintf("Transaction Details (page %d of %d)", i+1, len(d.Pages))
}

var columns = []string{"Date", "Amount", "Category", "Type", "Description"}

func (r Row) cells() []string {
	return []string{r.Date.String(), r.Amount.String(), r.Category, string(r.Type), r.Description}
}

// Format is an output format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts pdf, md (or markdown) and html, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/pdf"
}

// Extension returns the file name extension, with the leading dot.
func (f Format) Extension() string { return "." + string(f) }

// FileName is the suggested file name of username's report in format f.
// Anything but letters, digits, dashes and underscores becomes '_'.
func FileName(username string, f Format) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, username)
	return "financial_report_" + safe + f.Extension()
}

// Write renders doc to w in format f.
func Write(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatMarkdown:
		return WriteMarkdown(w, doc)
	case FormatHTML:
		return WriteHTML(w, doc)
	case FormatPDF:
		return WritePDF(w, doc)
	}
	return fmt.Errorf("unknown report format %q", f)
}
