package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketbook/internal/models"
)

func TestDefaultBudgets(t *testing.T) {
	budgets, err := DefaultBudgets()
	require.NoError(t, err)
	require.Len(t, budgets, len(models.DefaultCategories))

	got := make(map[models.Category]int64, len(budgets))
	for i, b := range budgets {
		assert.Equal(t, models.DefaultCategories[i], b.Category, "seed order follows the default category order")
		got[b.Category] = b.Planned
	}

	assert.Equal(t, int64(60000), got[models.CategoryRent])
	assert.Equal(t, int64(20000), got[models.CategoryGroceries])
	assert.Equal(t, int64(15000), got[models.CategoryTravel])
	assert.Equal(t, int64(16500), got[models.CategorySubscriptions])
	assert.Equal(t, int64(10000), got[models.CategoryDining])
	assert.Equal(t, int64(5000), got[models.CategoryShopping])
	assert.Equal(t, int64(0), got[models.CategoryOther])
}

func TestParseBudgets(t *testing.T) {
	t.Run("canonicalises_and_rounds", func(t *testing.T) {
		budgets, err := ParseBudgets([]byte(`
budgets:
  - category: groceries
    planned: "12.345"
  - category: Pets
    planned: 40
`))
		require.NoError(t, err)
		require.Len(t, budgets, 2)
		assert.Equal(t, models.CategoryGroceries, budgets[0].Category)
		assert.Equal(t, int64(1235), budgets[0].Planned)
		assert.Equal(t, models.Category("Pets"), budgets[1].Category)
		assert.Equal(t, int64(4000), budgets[1].Planned)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "budgets: []"},
		{"malformed_yaml", "budgets: [\n"},
		{"missing_category", "budgets:\n  - planned: \"10\""},
		{"negative", "budgets:\n  - category: Rent\n    planned: \"-1\""},
		{"not_a_number", "budgets:\n  - category: Rent\n    planned: lots"},
		{"duplicate", "budgets:\n  - category: Rent\n    planned: \"1\"\n  - category: RENT\n    planned: \"2\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBudgets([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadBudgets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("budgets:\n  - category: Rent\n    planned: \"750.50\"\n"), 0o600))

	budgets, err := LoadBudgets(path)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, int64(75050), budgets[0].Planned)

	_, err = LoadBudgets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
