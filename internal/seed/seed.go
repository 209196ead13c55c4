// Package seed holds the default budget table applied to an empty store.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"pocketbook/internal/models"
)

//go:embed budgets.yaml
var embeddedBudgets []byte

// BudgetDefault is one seeded budget row, with Planned in minor units.
type BudgetDefault struct {
	Category models.Category
	Planned  int64
}

type budgetFile struct {
	Budgets []struct {
		Category string `yaml:"category"`
		Planned  string `yaml:"planned"`
	} `yaml:"budgets"`
}

// ParseBudgets decodes a budget seed document. Categories are canonicalised
// with models.ParseCategory; amounts are major units rounded half-up to
// minor units and must not be negative.
func ParseBudgets(data []byte) ([]BudgetDefault, error) {
	var f budgetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse budget seed YAML: %w", err)
	}
	if len(f.Budgets) == 0 {
		return nil, fmt.Errorf("budget seed contains no budgets")
	}

	seen := make(map[models.Category]bool, len(f.Budgets))
	out := make([]BudgetDefault, 0, len(f.Budgets))
	for i, b := range f.Budgets {
		if strings.TrimSpace(b.Category) == "" {
			return nil, fmt.Errorf("budget %d: category is required", i)
		}
		category := models.ParseCategory(b.Category)
		if seen[category] {
			return nil, fmt.Errorf("budget %d: duplicate category %q", i, category)
		}
		seen[category] = true

		planned, err := decimal.NewFromString(strings.TrimSpace(b.Planned))
		if err != nil {
			return nil, fmt.Errorf("budget %d (%s): invalid planned amount %q", i, category, b.Planned)
		}
		if planned.IsNegative() {
			return nil, fmt.Errorf("budget %d (%s): planned amount must not be negative", i, category)
		}
		out = append(out, BudgetDefault{
			Category: category,
			Planned:  planned.Shift(2).Round(0).IntPart(),
		})
	}
	return out, nil
}

// DefaultBudgets returns the built-in seed table.
func DefaultBudgets() ([]BudgetDefault, error) {
	budgets, err := ParseBudgets(embeddedBudgets)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded budgets: %w", err)
	}
	return budgets, nil
}

// LoadBudgets reads a seed table from path.
func LoadBudgets(path string) ([]BudgetDefault, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read budget seed file: %w", err)
	}
	budgets, err := ParseBudgets(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets from %q: %w", path, err)
	}
	return budgets, nil
}
