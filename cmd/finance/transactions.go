package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"finance-tracker/internal/models"

	"github.com/google/subcommands"
)

type addCmd struct {
	app *app

	amount      string
	category    string
	txType      string
	date        string
	description string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "Record an income or expense transaction." }
func (*addCmd) Usage() string {
	return `finance [-user name] add -amount <amount> -category <category> [-type Expense|Income] [-date YYYY-MM-DD] [-desc text]

Records a transaction. The date defaults to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Positive amount, e.g. 12.50")
	f.StringVar(&c.category, "category", "", "Category valid for the transaction type")
	f.StringVar(&c.txType, "type", string(models.Expense), "Transaction type: Expense or Income")
	f.StringVar(&c.date, "date", "", "Date in YYYY-MM-DD format (default today)")
	f.StringVar(&c.description, "desc", "", "Optional description")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" || c.category == "" {
		fmt.Fprintln(c.app.stderr, "Error: -amount and -category are required")
		f.Usage()
		return subcommands.ExitUsageError
	}
	amount, err := models.ParseAmount(c.amount)
	if err != nil {
		return c.app.fail(err)
	}
	txType, err := models.ParseTxType(c.txType)
	if err != nil {
		return c.app.fail(err)
	}
	date := models.DateOf(c.app.now())
	if c.date != "" {
		if date, err = models.ParseDate(c.date); err != nil {
			return c.app.fail(err)
		}
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer s.Close()

	id, err := s.ledger.AddTransaction(ctx, s.userID, models.NewTransaction{
		Amount:      amount,
		Category:    c.category,
		Type:        txType,
		Date:        date,
		Description: c.description,
	})
	if err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.stdout, "Transaction %d added: %s %s %s on %s\n", id, txType, amount, c.category, date)
	return subcommands.ExitSuccess
}

type listCmd struct {
	app *app

	from, to string
	limit    int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "List transactions, newest first." }
func (*listCmd) Usage() string {
	return `finance [-user name] list [-from YYYY-MM-DD -to YYYY-MM-DD] [-limit n]

Lists transactions ordered by date, newest first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date of the period, inclusive")
	f.StringVar(&c.to, "to", "", "Last date of the period, inclusive")
	f.IntVar(&c.limit, "limit", 0, "Show at most n transactions (0 for all)")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := parsePeriod(c.from, c.to)
	if err != nil {
		return c.app.fail(err)
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer s.Close()

	var txs []models.Transaction
	if c.limit > 0 && period == nil {
		txs, err = s.ledger.RecentTransactions(ctx, s.userID, c.limit)
	} else {
		txs, err = s.ledger.ListTransactions(ctx, s.userID, period)
		if c.limit > 0 && len(txs) > c.limit {
			txs = txs[:c.limit]
		}
	}
	if err != nil {
		return c.app.fail(err)
	}
	if len(txs) == 0 {
		fmt.Fprintln(c.app.stdout, "No transactions found.")
		return subcommands.ExitSuccess
	}

	w := c.app.table()
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, t := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Type, t.Category, t.Amount, t.Description)
	}
	if err := w.Flush(); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	app *app
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "Delete a transaction by id." }
func (*deleteCmd) Usage() string {
	return `finance [-user name] delete <id>

Deletes the transaction with the given id. Deleting an id that does not
exist succeeds without changes.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.app.stderr, "Error: expected exactly one transaction id")
		f.Usage()
		return subcommands.ExitUsageError
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		return c.app.fail(fmt.Errorf("%w: %q is not a transaction id", models.ErrNoSelection, f.Arg(0)))
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer s.Close()

	if err := s.ledger.DeleteTransaction(ctx, s.userID, id); err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.stdout, "Transaction %d deleted\n", id)
	return subcommands.ExitSuccess
}

// parsePeriod returns nil when both ends are empty.
func parsePeriod(from, to string) (*models.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: -from and -to must be given together", models.ErrInvalidDate)
	}
	var (
		r   models.DateRange
		err error
	)
	if r.From, err = models.ParseDate(from); err != nil {
		return nil, err
	}
	if r.To, err = models.ParseDate(to); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
