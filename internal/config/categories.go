package config

import (
	"fmt"
	"os"

	"finance-tracker/internal/models"

	"gopkg.in/yaml.v3"
)

// categoriesFile is the YAML layout of CATEGORIES_FILE:
//
//	expense: [Travel, Dining Out]
//	income: [Wage]
type categoriesFile struct {
	Expense []string `yaml:"expense"`
	Income  []string `yaml:"income"`
}

// LoadCategories reads the category sets from a YAML file.
func LoadCategories(path string) (models.Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Categories{}, fmt.Errorf("failed to read categories file: %w", err)
	}
	return ParseCategories(data)
}

// ParseCategories decodes YAML category sets.
func ParseCategories(data []byte) (models.Categories, error) {
	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return models.Categories{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	c, err := models.NewCategories(f.Expense, f.Income)
	if err != nil {
		return models.Categories{}, fmt.Errorf("invalid categories: %w", err)
	}
	return c, nil
}
