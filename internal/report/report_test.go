package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTxs(n int) []models.Transaction {
	txs := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, models.Transaction{
			ID:          int64(n - i),
			Amount:      money.FromCents(int64(1000 + i)),
			Category:    "Dining Out",
			Type:        models.Expense,
			Date:        models.NewDate(2024, time.March, 1).AddDays(i % 28),
			Description: "lunch",
		})
	}
	return txs
}

func TestBuild(t *testing.T) {
	totals := summary.Totals{Income: money.FromCents(500000), Expense: money.FromCents(123456)}
	doc := Build("alice", totals, sampleTxs(85), 0)

	assert.Equal(t, "Financial Report for alice", doc.Title)
	assert.Equal(t, money.FromCents(376544), doc.Summary.Balance)
	require.Len(t, doc.Pages, 3)
	assert.Len(t, doc.Pages[0], DefaultPageSize)
	assert.Len(t, doc.Pages[2], 5)
	assert.Equal(t, 85, doc.Rows())
	assert.Equal(t, money.FromCents(1000), doc.Pages[0][0].Amount, "rows keep input order")
}

func TestBuildEmpty(t *testing.T) {
	doc := Build("alice", summary.Totals{}, nil, 10)
	assert.True(t, doc.Empty())
	assert.Empty(t, doc.Pages)
	assert.Equal(t, money.Amount(0), doc.Summary.Balance)
}

func TestBuildExactPage(t *testing.T) {
	doc := Build("alice", summary.Totals{}, sampleTxs(10), 10)
	assert.Len(t, doc.Pages, 1)
}

func TestWriteMarkdown(t *testing.T) {
	totals := summary.Totals{Income: money.FromCents(500000), Expense: money.FromCents(4500)}
	doc := Build("alice", totals, sampleTxs(3), 2)

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	out := buf.String()

	assert.Contains(t, out, "# Financial Report for alice")
	assert.Contains(t, out, "Total Income: $5,000.00")
	assert.Contains(t, out, "Total Expenses: $45.00")
	assert.Contains(t, out, "Balance: $4,955.00")
	assert.Contains(t, out, "page 1 of 2")
	assert.Contains(t, out, "page 2 of 2")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "$10.00")
	assert.Contains(t, out, "Dining Out")
}

func TestWriteMarkdownEscapesPipes(t *testing.T) {
	txs := sampleTxs(1)
	txs[0].Description = "a|b"
	doc := Build("alice", summary.Totals{}, txs, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	assert.Contains(t, buf.String(), `a\|b`)
}

func TestWriteMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, Build("alice", summary.Totals{}, nil, 0)))
	assert.Contains(t, buf.String(), "No transactions found.")
	assert.NotContains(t, buf.String(), "Transaction Details")
}

func TestWriteHTML(t *testing.T) {
	txs := sampleTxs(2)
	txs[1].Description = "<script>x</script>"
	doc := Build("<alice>", summary.Totals{Income: money.FromCents(100)}, txs, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Financial Report for &lt;alice&gt;</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "$10.00")
	assert.NotContains(t, out, "<script>")
}

func TestWritePDF(t *testing.T) {
	doc := Build("alice", summary.Totals{Income: money.FromCents(100)}, sampleTxs(45), 0)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWritePDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, Build("alice", summary.Totals{}, nil, 0)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"pdf", FormatPDF},
		{"", FormatPDF},
		{"MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"html", FormatHTML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("docx")
	assert.Error(t, err)
}

func TestWriteDispatch(t *testing.T) {
	doc := Build("alice", summary.Totals{}, sampleTxs(1), 0)
	for _, f := range []Format{FormatPDF, FormatMarkdown, FormatHTML} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, doc, f), f)
		assert.NotZero(t, buf.Len())
	}
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, ".md", FormatMarkdown.Extension())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "financial_report_alice.pdf", FileName("alice", FormatPDF))
	assert.Equal(t, "financial_report_a_b_c.md", FileName("a b/c", FormatMarkdown))
	assert.Equal(t, "financial_report_j_r_me.html", FileName("jérôme", FormatHTML))
}
