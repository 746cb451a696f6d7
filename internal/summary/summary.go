// Package summary computes read-side aggregates over a user's ledger:
// period totals, balance, budget status and per-category breakdowns.
// Nothing is cached; every call reflects the latest committed rows.
package summary

import (
	"context"
	"fmt"
	"iter"
	"time"

	"finance-tracker/internal/log"
	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/storage"
)

// RecentLimit is the number of transactions included in a Dashboard.
const RecentLimit = 5

// Store is the persistence the engine reads from.
type Store interface {
	SumByType(ctx context.Context, userID int64, r models.DateRange) (storage.Totals, error)
	CategoryTotals(ctx context.Context, userID int64, t models.TxType, r models.DateRange) ([]storage.CategoryTotal, error)
	TotalBudget(ctx context.Context, userID int64) (money.Amount, error)
	Transactions(ctx context.Context, userID int64, f storage.TransactionFilter) iter.Seq2[models.Transaction, error]
}

// Options configures an Engine.
type Options struct {
	// DefaultCap stands in for the total budget when it is zero.
	DefaultCap money.Amount
	// Clock returns "now"; it decides the current month and year-to-date window.
	Clock  func() time.Time
	Logger *log.Logger
}

// Engine computes aggregates. It holds no per-user state.
type Engine struct {
	store      Store
	defaultCap money.Amount
	now        func() time.Time
	log        *log.Logger
}

// New creates an Engine.
func New(store Store, opts Options) *Engine {
	if opts.DefaultCap <= 0 {
		opts.DefaultCap = money.FromCents(2500_00)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &Engine{
		store:      store,
		defaultCap: opts.DefaultCap,
		now:        opts.Clock,
		log:        opts.Logger.WithComponent(log.ComponentSummary),
	}
}

// Totals are income and expense sums over a period.
type Totals struct {
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
}

// Balance returns income minus expense.
func (t Totals) Balance() money.Amount { return t.Income - t.Expense }

// BudgetStatus compares spending in a period with the total budget.
type BudgetStatus struct {
	Total       money.Amount `json:"total"`
	Cap         money.Amount `json:"cap"`
	Spent       money.Amount `json:"spent"`
	Remaining   money.Amount `json:"remaining"`
	PercentUsed float64      `json:"percent_used"`
}

// Share is one category's part of a breakdown.
type Share struct {
	Category string       `json:"category"`
	Total    money.Amount `json:"total"`
	Count    int          `json:"count"`
	Percent  float64      `json:"percent"`
}

// Dashboard bundles what a user sees after every change.
type Dashboard struct {
	Period    models.DateRange        `json:"period"`
	Totals    Totals                  `json:"totals"`
	Balance   money.Amount            `json:"balance"`
	Budget    BudgetStatus            `json:"budget"`
	Breakdown map[string]money.Amount `json:"breakdown"`
	Recent    []models.Transaction    `json:"recent"`
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time { return e.now() }

// CurrentMonth returns the calendar month containing the engine's today.
func (e *Engine) CurrentMonth() models.DateRange {
	today := models.DateOf(e.now())
	return models.MonthRange(today.Year(), today.Month())
}

// Month validates year and month and returns the month's range.
func Month(year int, month time.Month) (models.DateRange, error) {
	if month < time.January || month > time.December {
		return models.DateRange{}, fmt.Errorf("%w: month %d", models.ErrInvalidDate, month)
	}
	if year < 1 || year > 9999 {
		return models.DateRange{}, fmt.Errorf("%w: year %d", models.ErrInvalidDate, year)
	}
	return models.MonthRange(year, month), nil
}

// PeriodTotals sums income and expense dated within period.
func (e *Engine) PeriodTotals(ctx context.Context, userID int64, period models.DateRange) (Totals, error) {
	if err := period.Validate(); err != nil {
		return Totals{}, err
	}
	t, err := e.store.SumByType(ctx, userID, period)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return Totals{Income: t.Income, Expense: t.Expense}, nil
}

// MonthlyTotals sums income and expense for a calendar month.
func (e *Engine) MonthlyTotals(ctx context.Context, userID int64, year int, month time.Month) (Totals, error) {
	period, err := Month(year, month)
	if err != nil {
		return Totals{}, err
	}
	return e.PeriodTotals(ctx, userID, period)
}

// Balance returns income minus expense over period. It may be negative.
func (e *Engine) Balance(ctx context.Context, userID int64, period models.DateRange) (money.Amount, error) {
	t, err := e.PeriodTotals(ctx, userID, period)
	if err != nil {
		return 0, err
	}
	return t.Balance(), nil
}

// TotalBudget returns the sum of the user's budget amounts.
func (e *Engine) TotalBudget(ctx context.Context, userID int64) (money.Amount, error) {
	total, err := e.store.TotalBudget(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to total budgets: %w", err)
	}
	return total, nil
}

// RemainingBudget returns the total budget minus expenses over period,
// floored at zero.
func (e *Engine) RemainingBudget(ctx context.Context, userID int64, period models.DateRange) (money.Amount, error) {
	status, err := e.BudgetStatus(ctx, userID, period)
	if err != nil {
		return 0, err
	}
	return status.Remaining, nil
}

// BudgetStatus reports the total budget, spending and remainder over period.
// Cap is the total budget, or the default cap when the user has none, and is
// the denominator of PercentUsed.
func (e *Engine) BudgetStatus(ctx context.Context, userID int64, period models.DateRange) (BudgetStatus, error) {
	total, err := e.TotalBudget(ctx, userID)
	if err != nil {
		return BudgetStatus{}, err
	}
	t, err := e.PeriodTotals(ctx, userID, period)
	if err != nil {
		return BudgetStatus{}, err
	}
	return e.status(total, t.Expense), nil
}

func (e *Engine) status(total, spent money.Amount) BudgetStatus {
	s := BudgetStatus{Total: total, Cap: total, Spent: spent}
	if s.Cap == 0 {
		s.Cap = e.defaultCap
	}
	s.Remaining = max(0, total-spent)
	s.PercentUsed = spent.Percent(s.Cap)
	return s
}

// CategoryBreakdown returns per-category sums of transactions of type t
// within period. Categories with no matching rows are absent.
func (e *Engine) CategoryBreakdown(ctx context.Context, userID int64, t models.TxType, period models.DateRange) (map[string]money.Amount, error) {
	shares, err := e.CategoryShares(ctx, userID, t, period)
	if err != nil {
		return nil, err
	}
	return toMap(shares), nil
}

// CategoryShares is CategoryBreakdown as a list, largest first, with each
// category's count and percentage of the period total.
func (e *Engine) CategoryShares(ctx context.Context, userID int64, t models.TxType, period models.DateRange) ([]Share, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", models.ErrInvalidCategory, t)
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	totals, err := e.store.CategoryTotals(ctx, userID, t, period)
	if err != nil {
		return nil, fmt.Errorf("failed to group transactions: %w", err)
	}

	var sum money.Amount
	for _, ct := range totals {
		sum += ct.Total
	}
	shares := make([]Share, 0, len(totals))
	for _, ct := range totals {
		shares = append(shares, Share{
			Category: ct.Category,
			Total:    ct.Total,
			Count:    ct.Count,
			Percent:  ct.Total.Percent(sum),
		})
	}
	return shares, nil
}

// YearToDateBreakdown is CategoryBreakdown from January 1 of the current
// year through today, inclusive.
func (e *Engine) YearToDateBreakdown(ctx context.Context, userID int64, t models.TxType) (map[string]money.Amount, error) {
	return e.CategoryBreakdown(ctx, userID, t, models.YearToDate(e.now()))
}

// Dashboard gathers current-month totals, budget status, the expense
// breakdown and the most recent transactions.
func (e *Engine) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	period := e.CurrentMonth()

	totals, err := e.PeriodTotals(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	total, err := e.TotalBudget(ctx, userID)
	if err != nil {
		return nil, err
	}
	breakdown, err := e.CategoryBreakdown(ctx, userID, models.Expense, period)
	if err != nil {
		return nil, err
	}

	recent := make([]models.Transaction, 0, RecentLimit)
	for t, err := range e.store.Transactions(ctx, userID, storage.TransactionFilter{Limit: RecentLimit}) {
		if err != nil {
			return nil, fmt.Errorf("failed to list recent transactions: %w", err)
		}
		recent = append(recent, t)
	}

	e.log.Debug("Dashboard computed", log.FieldUserID, userID, "period", period.String())
	return &Dashboard{
		Period:    period,
		Totals:    totals,
		Balance:   totals.Balance(),
		Budget:    e.status(total, totals.Expense),
		Breakdown: breakdown,
		Recent:    recent,
	}, nil
}

func toMap(shares []Share) map[string]money.Amount {
	m := make(map[string]money.Amount, len(shares))
	for _, s := range shares {
		m[s.Category] = s.Total
	}
	return m
}

// TotalsOf sums income and expense over txs.
func TotalsOf(txs []models.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case models.Income:
			t.Income += tx.Amount
		case models.Expense:
			t.Expense += tx.Amount
		}
	}
	return t
}
