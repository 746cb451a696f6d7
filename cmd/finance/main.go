// Command finance records transactions and budgets and prints summaries
// from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/cli"
	"finance-tracker/internal/config"
	"finance-tracker/internal/ledger"
	"finance-tracker/internal/log"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/summary"

	"github.com/google/subcommands"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app holds global flags and standard streams shared by the subcommands.
type app struct {
	user     string
	password string
	dbPath   string
	now      func() time.Time

	stdin          io.Reader
	stdout, stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, now: time.Now}

	fs := flag.NewFlagSet("finance", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.user, "user", os.Getenv("FINANCE_USER"), "Username (defaults to $FINANCE_USER)")
	fs.StringVar(&a.password, "password", "", "Password (optional, will prompt if omitted)")
	fs.StringVar(&a.dbPath, "db", "", "Path to database file, overriding DB_PATH")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return int(subcommands.ExitSuccess)
		}
		return int(subcommands.ExitUsageError)
	}

	cdr := subcommands.NewCommander(fs, "finance")
	cdr.Output = stdout
	cdr.Error = stderr
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")

	cdr.Register(&addCmd{app: a}, "transactions")
	cdr.Register(&listCmd{app: a}, "transactions")
	cdr.Register(&deleteCmd{app: a}, "transactions")
	cdr.Register(&budgetCmd{app: a}, "budgets")
	cdr.Register(&summaryCmd{app: a}, "reports")
	cdr.Register(&breakdownCmd{app: a}, "reports")
	cdr.Register(&exportCmd{app: a}, "reports")

	return int(cdr.Execute(ctx))
}

// session is an authenticated connection to the store.
type session struct {
	db       *storage.DB
	ledger   *ledger.Ledger
	summary  *summary.Engine
	userID   int64
	username string
}

func (s *session) Close() error { return s.db.Close() }

// open loads configuration, connects to the store and authenticates the user.
func (a *app) open(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.dbPath != "" {
		cfg.DB.Path = a.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cats, err := cfg.Categories()
	if err != nil {
		return nil, err
	}

	if a.user == "" {
		return nil, fmt.Errorf("missing required flag: -user")
	}
	password := a.password
	if password == "" {
		if password, err = cli.ReadPassword(a.stdin, a.stderr, "Password: "); err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
	}

	// The terminal only sees warnings unless LOG_LEVEL asks for more.
	level := slog.LevelWarn
	if os.Getenv("LOG_LEVEL") != "" {
		level = cfg.LogLevel
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    a.stderr,
	})

	db, err := storage.Open(ctx, storage.Options{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN(), Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	id, err := auth.NewService(db, cats, auth.Options{Cost: cfg.BcryptCost, Logger: logger}).Authenticate(ctx, a.user, password)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &session{
		db:       db,
		ledger:   ledger.New(db, cats, logger),
		summary:  summary.New(db, summary.Options{DefaultCap: cfg.DefaultBudgetCap, Clock: a.now, Logger: logger}),
		userID:   id,
		username: auth.NormalizeUsername(a.user),
	}, nil
}

// fail prints err and returns the matching exit status.
func (a *app) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
}
