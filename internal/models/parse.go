package models

import (
	"fmt"

	"finance-tracker/internal/money"
)

// ParseAmount parses user input into an amount, reporting ErrInvalidAmount on failure.
// The sign is kept; positivity is enforced where the amount is used.
func ParseAmount(s string) (money.Amount, error) {
	a, err := money.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return a, nil
}
