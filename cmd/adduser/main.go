// Command adduser creates a user with the default budget rows and,
// optionally, initial budget amounts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/cli"
	"finance-tracker/internal/config"
	"finance-tracker/internal/ledger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
)

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const usage = "Usage: adduser -user <username> [-password <password>] [-db <db_path>] [-env <file>] [-budget <category>=<amount> ...]"

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		username, password, dbPath, envFile string
		budgets                             = cli.Budgets{}
	)
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&username, "user", "", "Username")
	fs.StringVar(&password, "password", "", "Password (optional, will prompt if omitted)")
	fs.StringVar(&dbPath, "db", "", "Path to database file, overriding DB_PATH")
	fs.StringVar(&envFile, "env", "", "Load settings from this .env file")
	fs.Var(budgets, "budget", "Initial monthly budget as <category>=<amount> (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if username == "" {
		fmt.Fprintln(stdout, usage)
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cats, err := cfg.Categories()
	if err != nil {
		return err
	}

	if password == "" {
		if password, err = cli.ReadPassword(stdin, stdout, "Password: "); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	// Reject unknown categories before the user exists.
	for category, amount := range budgets {
		if amount < 0 {
			return fmt.Errorf("budget for %s: %w", category, models.ErrInvalidAmount)
		}
		if err := cats.Check(models.Expense, category); err != nil {
			return err
		}
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, storage.Options{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN()})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := auth.NewService(db, cats, auth.Options{Cost: cfg.BcryptCost}).Register(ctx, username, password)
	if errors.Is(err, models.ErrDuplicateUsername) {
		return fmt.Errorf("user %s already exists", username)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", username, id)

	if len(budgets) > 0 {
		if err := ledger.New(db, cats, nil).SaveBudgets(ctx, id, budgets); err != nil {
			return fmt.Errorf("failed to save budgets: %w", err)
		}
		fmt.Fprintf(stdout, "Budgets set: %s\n", budgets)
	}
	return nil
}
