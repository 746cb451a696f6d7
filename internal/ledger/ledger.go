// Package ledger validates and records transactions and budgets for one user at a time.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"finance-tracker/internal/log"
	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/storage"
)

// DefaultRecentLimit is the number of rows shown in the recent transactions list.
const DefaultRecentLimit = 5

// Store is the persistence the ledger needs.
type Store interface {
	InsertTransaction(ctx context.Context, userID int64, t models.NewTransaction) (int64, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
	Transactions(ctx context.Context, userID int64, f storage.TransactionFilter) iter.Seq2[models.Transaction, error]
	UpsertBudget(ctx context.Context, userID int64, category string, amount money.Amount) error
	UpsertBudgets(ctx context.Context, userID int64, amounts map[string]money.Amount) error
	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
}

// Ledger records transactions and budgets.
type Ledger struct {
	store      Store
	categories models.Categories
	log        *log.Logger
}

// New creates a Ledger. A nil logger discards output.
func New(store Store, categories models.Categories, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.Discard()
	}
	return &Ledger{store: store, categories: categories, log: logger.WithComponent(log.ComponentLedger)}
}

// Categories returns the category sets the ledger validates against.
func (l *Ledger) Categories() models.Categories { return l.categories }

// AddTransaction validates and stores a transaction, returning its id.
func (l *Ledger) AddTransaction(ctx context.Context, userID int64, t models.NewTransaction) (int64, error) {
	if err := l.validate(&t); err != nil {
		return 0, err
	}

	id, err := l.store.InsertTransaction(ctx, userID, t)
	if err != nil {
		return 0, fmt.Errorf("failed to add transaction: %w", err)
	}

	l.log.Info("Transaction added",
		log.FieldOperation, log.OpAddTx,
		log.FieldUserID, userID,
		log.FieldTxID, id,
		log.FieldTxType, t.Type,
		log.FieldCategory, t.Category,
		log.FieldAmountCents, t.Amount.Cents(),
		log.FieldDate, t.Date.String())
	return id, nil
}

func (l *Ledger) validate(t *models.NewTransaction) error {
	if !t.Amount.IsPositive() {
		return models.ErrInvalidAmount
	}
	if t.Amount > money.Max {
		return fmt.Errorf("%w: %v", models.ErrInvalidAmount, money.ErrOutOfRange)
	}
	if !t.Type.Valid() {
		typ, err := models.ParseTxType(string(t.Type))
		if err != nil {
			return err
		}
		t.Type = typ
	}
	if err := l.categories.Check(t.Type, t.Category); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return models.ErrInvalidDate
	}
	t.Description = strings.TrimSpace(t.Description)
	return nil
}

// DeleteTransaction removes one of the user's transactions. Deleting an id
// that does not exist, or belongs to someone else, succeeds without effect.
func (l *Ledger) DeleteTransaction(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return models.ErrNoSelection
	}

	err := l.store.DeleteTransaction(ctx, userID, id)
	if errors.Is(err, models.ErrNotFound) {
		l.log.Debug("Transaction already absent", log.FieldUserID, userID, log.FieldTxID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	l.log.Info("Transaction deleted", log.FieldOperation, log.OpDeleteTx, log.FieldUserID, userID, log.FieldTxID, id)
	return nil
}

// Transactions returns the user's transactions, optionally restricted to
// period, newest first. The query runs again each time the sequence is
// ranged over. The loop body must not call back into the ledger.
func (l *Ledger) Transactions(ctx context.Context, userID int64, period *models.DateRange) iter.Seq2[models.Transaction, error] {
	if period != nil {
		if err := period.Validate(); err != nil {
			return func(yield func(models.Transaction, error) bool) {
				yield(models.Transaction{}, err)
			}
		}
	}
	return l.store.Transactions(ctx, userID, storage.TransactionFilter{Range: period})
}

// ListTransactions collects Transactions into a slice.
func (l *Ledger) ListTransactions(ctx context.Context, userID int64, period *models.DateRange) ([]models.Transaction, error) {
	return collect(l.Transactions(ctx, userID, period))
}

// RecentTransactions returns the user's newest limit transactions.
// A non-positive limit means DefaultRecentLimit.
func (l *Ledger) RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return collect(l.store.Transactions(ctx, userID, storage.TransactionFilter{Limit: limit}))
}

func collect(seq iter.Seq2[models.Transaction, error]) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	for t, err := range seq {
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// UpsertBudget sets the monthly cap for an expense category.
func (l *Ledger) UpsertBudget(ctx context.Context, userID int64, category string, amount money.Amount) error {
	if err := l.checkBudget(category, amount); err != nil {
		return err
	}
	if err := l.store.UpsertBudget(ctx, userID, category, amount); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	l.log.Info("Budget saved",
		log.FieldOperation, log.OpUpsertBudget,
		log.FieldUserID, userID,
		log.FieldCategory, category,
		log.FieldAmountCents, amount.Cents())
	return nil
}

// SaveBudgets validates every entry and then applies them all in one
// database transaction. Nothing is written if any entry is invalid.
func (l *Ledger) SaveBudgets(ctx context.Context, userID int64, amounts map[string]money.Amount) error {
	for category, amount := range amounts {
		if err := l.checkBudget(category, amount); err != nil {
			return err
		}
	}
	if len(amounts) == 0 {
		return nil
	}
	if err := l.store.UpsertBudgets(ctx, userID, amounts); err != nil {
		return fmt.Errorf("failed to save budgets: %w", err)
	}
	l.log.Info("Budgets saved", log.FieldOperation, log.OpSaveBudgets, log.FieldUserID, userID, "count", len(amounts))
	return nil
}

func (l *Ledger) checkBudget(category string, amount money.Amount) error {
	if amount < 0 {
		return fmt.Errorf("%w: budget for %q must not be negative", models.ErrInvalidAmount, category)
	}
	if amount > money.Max {
		return fmt.Errorf("%w: %v", models.ErrInvalidAmount, money.ErrOutOfRange)
	}
	return l.categories.Check(models.Expense, category)
}

// ListBudgets returns the user's budgets keyed by category. Categories
// without a row are absent.
func (l *Ledger) ListBudgets(ctx context.Context, userID int64) (map[string]money.Amount, error) {
	rows, err := l.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	budgets := make(map[string]money.Amount, len(rows))
	for _, b := range rows {
		budgets[b.Category] = b.Amount
	}
	return budgets, nil
}
