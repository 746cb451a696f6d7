package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// WriteMarkdown renders doc as Markdown with one table per page.
func WriteMarkdown(w io.Writer, doc *Document) error {
	m := md.NewMarkdown(w)
	m.H1(doc.Title)
	m.H2("Transaction Summary")
	m.BulletList(
		"Total Income: "+doc.Summary.Income.String(),
		"Total Expenses: "+doc.Summary.Expense.String(),
		"Balance: "+doc.Summary.Balance.String(),
	)

	if doc.Empty() {
		m.PlainText("No transactions found.")
	}
	for i, page := range doc.Pages {
		m.H2(doc.pageHeading(i))
		table := md.TableSet{Header: columns}
		for _, r := range page {
			cells := r.cells()
			for j := range cells {
				cells[j] = cellEscaper.Replace(cells[j])
			}
			table.Rows = append(table.Rows, cells)
		}
		m.Table(table)
	}
	return m.Build()
}

// WriteHTML renders the Markdown form of doc to a standalone HTML page.
// Raw HTML in descriptions is dropped by the converter.
func WriteHTML(w io.Writer, doc *Document) error {
	var src bytes.Buffer
	if err := WriteMarkdown(&src, doc); err != nil {
		return err
	}

	var body bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := conv.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to convert markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
</style>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(doc.Title), body.Bytes())
	return err
}
