package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	c, err := ParseCategories([]byte("expense:\n  - Groceries\n  - Rent\nincome:\n  - Salary\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Rent"}, c.Expense())
	assert.Equal(t, []string{"Salary"}, c.Income())
}

func TestParseCategoriesInvalid(t *testing.T) {
	_, err := ParseCategories([]byte("expense: [Rent]\nincome: [Rent]\n"))
	assert.ErrorContains(t, err, "invalid categories")

	_, err = ParseCategories([]byte("expense: [Rent\n"))
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = ParseCategories([]byte("income: [Salary]\n"))
	assert.Error(t, err)
}

func TestConfigCategories(t *testing.T) {
	cfg := validConfig()
	c, err := cfg.Categories()
	require.NoError(t, err)
	assert.Contains(t, c.Expense(), "Dining Out")

	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("expense: [Rent]\nincome: [Salary]\n"), 0o600))
	cfg.CategoriesFile = path
	c, err = cfg.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rent"}, c.Expense())
}
