package main

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"finance-tracker/internal/cli"
	"finance-tracker/internal/money"

	"github.com/google/subcommands"
)

type budgetCmd struct {
	app *app
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "Show or set per-category monthly budgets." }
func (*budgetCmd) Usage() string {
	return `finance [-user name] budget [<category>=<amount> ...]

Without arguments, prints every budget and their total. With arguments,
sets each category's budget; either all of them are saved or none is.
`
}

func (*budgetCmd) SetFlags(*flag.FlagSet) {}

func (c *budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amounts := make(map[string]money.Amount, f.NArg())
	for _, arg := range f.Args() {
		category, amount, err := cli.ParseBudget(arg)
		if err != nil {
			fmt.Fprintf(c.app.stderr, "Error: %v\n", err)
			f.Usage()
			return subcommands.ExitUsageError
		}
		amounts[category] = amount
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer s.Close()

	if len(amounts) > 0 {
		if err := s.ledger.SaveBudgets(ctx, s.userID, amounts); err != nil {
			return c.app.fail(err)
		}
		fmt.Fprintf(c.app.stdout, "Saved %d budget(s)\n", len(amounts))
	}

	budgets, err := s.ledger.ListBudgets(ctx, s.userID)
	if err != nil {
		return c.app.fail(err)
	}
	categories := make([]string, 0, len(budgets))
	var total money.Amount
	for category, amount := range budgets {
		categories = append(categories, category)
		total += amount
	}
	slices.Sort(categories)

	w := c.app.table()
	fmt.Fprintln(w, "CATEGORY\tBUDGET")
	for _, category := range categories {
		fmt.Fprintf(w, "%s\t%s\n", category, budgets[category])
	}
	fmt.Fprintf(w, "Total\t%s\n", total)
	if err := w.Flush(); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}
