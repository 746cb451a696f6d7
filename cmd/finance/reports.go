package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/report"
	"finance-tracker/internal/summary"

	"github.com/google/subcommands"
)

type summaryCmd struct {
	app *app

	month string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "Print monthly totals, balance and budget status." }
func (*summaryCmd) Usage() string {
	return `finance [-user name] summary [-month YYYY-MM]

Prints income, expenses, balance and the remaining budget for a month.
The month defaults to the current one.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month in YYYY-MM format (default current month)")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer s.Close()

	period, err := c.app.month(s.summary, c.month)
	if err != nil {
		return c.app.fail(err)
	}
	totals, err := s.summary.PeriodTotals(ctx, s.userID, period)
	if err != nil {
		return c.app.fail(err)
	}
	budget, err := s.summary.BudgetStatus(ctx, s.userID, period)
	if err != nil {
		return c.app.fail(err)
	}

	w := c.app.table()
	fmt.Fprintf(w, "Period:\t%s\n", period)
	fmt.Fprintf(w, "Total Income:\t%s\n", totals.Income)
	fmt.Fprintf(w, "Total Expenses:\t%s\n", totals.Expense)
	fmt.Fprintf(w, "Balance:\t%s\n", totals.Balance())
	fmt.Fprintf(w, "Total Budget:\t%s\n", budget.Total)
	fmt.Fprintf(w, "Remaining Budget:\t%s\n", budget.Remaining)
	fmt.Fprintf(w, "Budget Used:\t%.1f%% of %s\n", budget.PercentUsed, budget.Cap)
	if err := w.Flush(); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

type breakdownCmd struct {
	app *app

	month  string
	txType string
	ytd    bool
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "Print per-category totals for a month or year to date." }
func (*breakdownCmd) Usage() string {
	return `finance [-user name] breakdown [-type Expense|Income] [-month YYYY-MM | -ytd]

Prints category totals, largest first, with their share of the period.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month in YYYY-MM format (default current month)")
	f.StringVar(&c.txType, "type", string(models.Expense), "Transaction type: Expense or Income")
	f.BoolVar(&c.ytd, "ytd", false, "Break down January 1 through today instead of one month")
}

func (c *breakdownCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ytd && c.month != "" {
		fmt.Fprintln(c.app.stderr, "Error: -month and -ytd are mutually exclusive")
		return subcommands.ExitUsageError
	}
	txType, err := models.ParseTxType(c.txType)
	if err != nil {
		return c.app.fail(err)
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer s.Close()

	period := models.YearToDate(s.summary.Now())
	if !c.ytd {
		if period, err = c.app.month(s.summary, c.month); err != nil {
			return c.app.fail(err)
		}
	}
	shares, err := s.summary.CategoryShares(ctx, s.userID, txType, period)
	if err != nil {
		return c.app.fail(err)
	}
	if len(shares) == 0 {
		fmt.Fprintf(c.app.stdout, "No %s transactions in %s.\n", txType, period)
		return subcommands.ExitSuccess
	}

	w := c.app.table()
	fmt.Fprintln(w, "CATEGORY\tTOTAL\tCOUNT\tSHARE")
	for _, sh := range shares {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\n", sh.Category, sh.Total, sh.Count, sh.Percent)
	}
	if err := w.Flush(); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	app *app

	format   string
	output   string
	from, to string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "Export transactions as a PDF, Markdown or HTML report." }
func (*exportCmd) Usage() string {
	return `finance [-user name] export [-format pdf|md|html] [-o file] [-from YYYY-MM-DD -to YYYY-MM-DD]

Writes a report with a summary and every transaction. The file defaults to
financial_report_<user>.<format>; use -o - for standard output.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(report.FormatPDF), "Report format: pdf, md or html")
	f.StringVar(&c.output, "o", "", "Output file, or - for standard output")
	f.StringVar(&c.from, "from", "", "First date of the period, inclusive")
	f.StringVar(&c.to, "to", "", "Last date of the period, inclusive")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := report.ParseFormat(c.format)
	if err != nil {
		return c.app.fail(err)
	}
	period, err := parsePeriod(c.from, c.to)
	if err != nil {
		return c.app.fail(err)
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer s.Close()

	txs, err := s.ledger.ListTransactions(ctx, s.userID, period)
	if err != nil {
		return c.app.fail(err)
	}
	if len(txs) == 0 {
		fmt.Fprintln(c.app.stderr, "No transactions found to export.")
		return subcommands.ExitFailure
	}
	doc := report.Build(s.username, summary.TotalsOf(txs), txs, report.DefaultPageSize)

	path := c.output
	if path == "" {
		path = report.FileName(s.username, format)
	}
	if path == "-" {
		if err := report.Write(c.app.stdout, doc, format); err != nil {
			return c.app.fail(err)
		}
		return subcommands.ExitSuccess
	}

	if err := writeFile(path, doc, format); err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.stdout, "Report with %d transaction(s) saved to %s\n", doc.Rows(), path)
	return subcommands.ExitSuccess
}

func writeFile(path string, doc *report.Document, format report.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := report.Write(file, doc, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// month resolves a YYYY-MM flag, defaulting to the engine's current month.
func (a *app) month(e *summary.Engine, value string) (models.DateRange, error) {
	if value == "" {
		return e.CurrentMonth(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: month %q must be YYYY-MM", models.ErrInvalidDate, value)
	}
	return summary.Month(t.Year(), t.Month())
}
