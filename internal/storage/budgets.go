package storage

import (
	"context"
	"database/sql"
	"slices"

	"finance-tracker/internal/log"
	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

const upsertBudget = `INSERT INTO budgets (user_id, category, amount_cents) VALUES (?, ?, ?)
	ON CONFLICT (user_id, category) DO UPDATE SET amount_cents = excluded.amount_cents`

// UpsertBudget sets the user's budget for a category in a single statement.
func (db *DB) UpsertBudget(ctx context.Context, userID int64, category string, amount money.Amount) error {
	if _, err := db.exec(ctx, db.conn, upsertBudget, userID, category, amount.Cents()); err != nil {
		return wrap("upsert budget", err)
	}
	db.log.Debug("Budget upserted", log.FieldUserID, userID, log.FieldCategory, category)
	return nil
}

// UpsertBudgets applies several budget upserts in one transaction, in category order.
func (db *DB) UpsertBudgets(ctx context.Context, userID int64, amounts map[string]money.Amount) error {
	categories := make([]string, 0, len(amounts))
	for c := range amounts {
		categories = append(categories, c)
	}
	slices.Sort(categories)

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range categories {
			if _, err := db.exec(ctx, tx, upsertBudget, userID, c, amounts[c].Cents()); err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("upsert budgets", err)
}

// ListBudgets returns the user's budget rows ordered by category.
func (db *DB) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := db.query(ctx, db.conn,
		"SELECT category, amount_cents FROM budgets WHERE user_id = ? ORDER BY category", userID)
	if err != nil {
		return nil, wrap("list budgets", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b := models.Budget{UserID: userID}
		var cents int64
		if err := rows.Scan(&b.Category, &cents); err != nil {
			return nil, wrap("scan budget", err)
		}
		b.Amount = money.FromCents(cents)
		budgets = append(budgets, b)
	}
	return budgets, wrap("list budgets", rows.Err())
}

// TotalBudget returns the sum of all the user's budget amounts.
func (db *DB) TotalBudget(ctx context.Context, userID int64) (money.Amount, error) {
	var cents int64
	err := db.queryRow(ctx, db.conn,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM budgets WHERE user_id = ?", userID,
	).Scan(&cents)
	if err != nil {
		return 0, wrap("total budget", err)
	}
	return money.FromCents(cents), nil
}
