package models

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultExpenseCategories are the expense categories a new installation starts with.
var DefaultExpenseCategories = []string{
	"Travel", "Dining Out", "Shopping", "Entertainment",
	"Transportation", "Education", "Utilities", "Health",
}

// DefaultIncomeCategories are the income categories a new installation starts with.
var DefaultIncomeCategories = []string{
	"Rental", "Stock Income", "Social Security Benefit",
	"Wage", "Tips and Bonus", "Other Income",
}

// Categories holds the two immutable category sets.
type Categories struct {
	expense []string
	income  []string
}

// DefaultCategories returns the built-in category sets.
func DefaultCategories() Categories {
	c, _ := NewCategories(DefaultExpenseCategories, DefaultIncomeCategories)
	return c
}

// NewCategories copies the given lists. Both must be non-empty, without
// blanks or duplicates, and no name may appear in both.
func NewCategories(expense, income []string) (Categories, error) {
	if len(expense) == 0 || len(income) == 0 {
		return Categories{}, fmt.Errorf("category lists must not be empty")
	}
	seen := make(map[string]TxType, len(expense)+len(income))
	add := func(names []string, t TxType) error {
		for _, n := range names {
			if strings.TrimSpace(n) == "" {
				return fmt.Errorf("blank %s category", strings.ToLower(string(t)))
			}
			if prev, ok := seen[n]; ok {
				if prev == t {
					return fmt.Errorf("duplicate %s category %q", strings.ToLower(string(t)), n)
				}
				return fmt.Errorf("category %q is both income and expense", n)
			}
			seen[n] = t
		}
		return nil
	}
	if err := add(expense, Expense); err != nil {
		return Categories{}, err
	}
	if err := add(income, Income); err != nil {
		return Categories{}, err
	}
	return Categories{expense: slices.Clone(expense), income: slices.Clone(income)}, nil
}

// Expense returns a copy of the expense categories in display order.
func (c Categories) Expense() []string { return slices.Clone(c.expense) }

// Income returns a copy of the income categories in display order.
func (c Categories) Income() []string { return slices.Clone(c.income) }

// For returns the categories allowed for t.
func (c Categories) For(t TxType) []string {
	switch t {
	case Income:
		return c.Income()
	case Expense:
		return c.Expense()
	}
	return nil
}

// Allows reports whether category is valid for a transaction of type t.
func (c Categories) Allows(t TxType, category string) bool {
	switch t {
	case Income:
		return slices.Contains(c.income, category)
	case Expense:
		return slices.Contains(c.expense, category)
	}
	return false
}

// Check returns ErrInvalidCategory when category is not allowed for t.
func (c Categories) Check(t TxType, category string) error {
	if !c.Allows(t, category) {
		return fmt.Errorf("%w: %q is not an %s category", ErrInvalidCategory, category, strings.ToLower(string(t)))
	}
	return nil
}

func equalFold(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), b) }
