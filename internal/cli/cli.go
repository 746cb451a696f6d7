// Package cli holds terminal helpers shared by the command-line tools.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"

	"golang.org/x/term"
)

// ReadPassword prints prompt to w and reads one line from stdin. Input is
// not echoed when stdin is a terminal.
func ReadPassword(stdin io.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	defer fmt.Fprintln(w)

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// ParseBudget splits "Category=amount" into its parts.
func ParseBudget(s string) (string, money.Amount, error) {
	category, value, ok := strings.Cut(s, "=")
	category = strings.TrimSpace(category)
	if !ok || category == "" {
		return "", 0, fmt.Errorf("expected <category>=<amount>, got %q", s)
	}
	amount, err := models.ParseAmount(value)
	if err != nil {
		return "", 0, fmt.Errorf("budget for %s: %w", category, err)
	}
	return category, amount, nil
}

// Budgets is a repeatable flag.Value collecting Category=amount pairs.
// A later pair for the same category replaces the earlier one.
type Budgets map[string]money.Amount

func (b Budgets) String() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + b[k].Plain()
	}
	return strings.Join(parts, ",")
}

func (b Budgets) Set(s string) error {
	category, amount, err := ParseBudget(s)
	if err != nil {
		return err
	}
	b[category] = amount
	return nil
}
