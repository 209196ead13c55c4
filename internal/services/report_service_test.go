package services

import (
	"context"
	"testing"

	"pocketbook/internal/models"
	"pocketbook/internal/seed"
	"pocketbook/internal/testutil"
)

func TestMonthSummary(t *testing.T) {
	t.Run("income_and_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		testutil.CreateTestTransaction(t, db, "2024-01-01", models.TransactionTypeIncome, models.CategoryOther, 100000)
		testutil.CreateTestTransaction(t, db, "2024-01-02", models.TransactionTypeExpense, models.CategoryGroceries, 25000)
		testutil.CreateTestTransaction(t, db, "2024-01-31", models.TransactionTypeExpense, models.CategoryGroceries, 5000)
		testutil.CreateTestTransaction(t, db, "2024-01-15", models.TransactionTypeTransfer, models.CategoryTransfers, 70000)
		testutil.CreateTestTransaction(t, db, "2024-02-01", models.TransactionTypeExpense, models.CategoryRent, 60000)

		summary, err := svc.MonthSummary("2024-01")
		testutil.AssertNoError(t, err)
		if summary.Month != "2024-01" {
			t.Errorf("expected month 2024-01, got %s", summary.Month)
		}
		if summary.TotalIncome != 100000 || summary.TotalExpense != 30000 || summary.Net != 70000 {
			t.Errorf("unexpected summary %+v", summary)
		}
	})

	t.Run("empty_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		summary, err := svc.MonthSummary("2030-06")
		testutil.AssertNoError(t, err)
		if summary.TotalIncome != 0 || summary.TotalExpense != 0 || summary.Net != 0 {
			t.Errorf("expected zeros, got %+v", summary)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		_, err := svc.MonthSummary("2024/01")
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})
}

func TestCategoryBreakdown(t *testing.T) {
	t.Run("against_default_budgets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		defaults, err := seed.DefaultBudgets()
		testutil.AssertNoError(t, err)
		_, err = NewBudgetService(db).SeedDefaults(defaults)
		testutil.AssertNoError(t, err)
		svc := NewReportService(db)

		testutil.CreateTestTransaction(t, db, "2024-01-01", models.TransactionTypeIncome, models.CategoryOther, 100000)
		testutil.CreateTestTransaction(t, db, "2024-01-02", models.TransactionTypeExpense, models.CategoryGroceries, 25000)
		testutil.CreateTestTransaction(t, db, "2024-01-03", models.TransactionTypeExpense, models.CategoryGroceries, 5000)

		lines, err := svc.CategoryBreakdown("2024-01")
		testutil.AssertNoError(t, err)
		if len(lines) != 1 {
			t.Fatalf("expected only Groceries, got %+v", lines)
		}
		got := lines[0]
		if got.Category != models.CategoryGroceries || got.Spent != 30000 || got.Budget != 20000 || got.Variance != -10000 {
			t.Errorf("unexpected line %+v", got)
		}
	})

	t.Run("ordering_and_missing_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		testutil.CreateTestBudget(t, db, models.CategoryShopping, 5000)

		testutil.CreateTestTransaction(t, db, "2024-03-01", models.TransactionTypeExpense, models.CategoryShopping, 1000)
		testutil.CreateTestTransaction(t, db, "2024-03-02", models.TransactionTypeExpense, models.CategoryTravel, 1000)
		testutil.CreateTestTransaction(t, db, "2024-03-03", models.TransactionTypeExpense, models.CategoryRent, 60000)
		testutil.CreateTestTransaction(t, db, "2024-03-04", models.TransactionTypeTransfer, models.CategoryTransfers, 99999)

		lines, err := svc.CategoryBreakdown("2024-03")
		testutil.AssertNoError(t, err)
		want := []models.Category{models.CategoryRent, models.CategoryShopping, models.CategoryTravel}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %+v", len(want), lines)
		}
		for i, c := range want {
			if lines[i].Category != c {
				t.Errorf("position %d: expected %s, got %s", i, c, lines[i].Category)
			}
		}
		if lines[0].Budget != 0 || lines[0].Variance != -60000 {
			t.Errorf("expected unbudgeted Rent to compare against 0, got %+v", lines[0])
		}
		if lines[1].Variance != 4000 {
			t.Errorf("expected Shopping variance 4000, got %d", lines[1].Variance)
		}
	})

	t.Run("empty_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		lines, err := svc.CategoryBreakdown("2024-03")
		testutil.AssertNoError(t, err)
		if len(lines) != 0 {
			t.Errorf("expected no lines, got %+v", lines)
		}
	})
}

func TestTrend(t *testing.T) {
	t.Run("last_n_months_ascending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		for _, d := range []string{"2023-10-01", "2023-11-01", "2023-12-01", "2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01", "2024-05-01"} {
			testutil.CreateTestTransaction(t, db, d, models.TransactionTypeIncome, models.CategoryOther, 1000)
			testutil.CreateTestTransaction(t, db, d, models.TransactionTypeExpense, models.CategoryGroceries, 400)
		}

		points, err := svc.Trend(6)
		testutil.AssertNoError(t, err)
		if len(points) != 6 {
			t.Fatalf("expected 6 points, got %d", len(points))
		}
		if points[0].Month != "2023-12" || points[5].Month != "2024-05" {
			t.Errorf("unexpected window %s..%s", points[0].Month, points[5].Month)
		}
		for i := 1; i < len(points); i++ {
			if points[i-1].Month >= points[i].Month {
				t.Errorf("points not ascending at %d", i)
			}
		}
		if points[0].Income != 1000 || points[0].Expense != 400 || points[0].Net != 600 {
			t.Errorf("unexpected point %+v", points[0])
		}
	})

	t.Run("non_positive_uses_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		for _, d := range []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01", "2024-05-01", "2024-06-01", "2024-07-01"} {
			testutil.CreateTestTransaction(t, db, d, models.TransactionTypeExpense, models.CategoryOther, 1)
		}

		points, err := svc.Trend(0)
		testutil.AssertNoError(t, err)
		if len(points) != DefaultTrendMonths {
			t.Errorf("expected %d points, got %d", DefaultTrendMonths, len(points))
		}
	})

	t.Run("fewer_months_than_requested", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		testutil.CreateTestTransaction(t, db, "2024-01-09", models.TransactionTypeTransfer, models.CategoryTransfers, 500)

		points, err := svc.Trend(12)
		testutil.AssertNoError(t, err)
		if len(points) != 1 {
			t.Fatalf("expected 1 point, got %d", len(points))
		}
		if points[0].Income != 0 || points[0].Expense != 0 {
			t.Errorf("expected transfers to count towards neither side, got %+v", points[0])
		}
	})
}

func TestDashboard(t *testing.T) {
	t.Run("bundles_reports", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		testutil.CreateTestBudget(t, db, models.CategoryGroceries, 20000)
		testutil.CreateTestTransaction(t, db, "2024-01-01", models.TransactionTypeIncome, models.CategoryOther, 100000)
		testutil.CreateTestTransaction(t, db, "2024-01-02", models.TransactionTypeExpense, models.CategoryGroceries, 30000)

		dash, err := svc.Dashboard(context.Background(), "2024-01", 6)
		testutil.AssertNoError(t, err)
		if dash.Summary == nil || dash.Summary.Net != 70000 {
			t.Errorf("unexpected summary %+v", dash.Summary)
		}
		if len(dash.Categories) != 1 || dash.Categories[0].Variance != -10000 {
			t.Errorf("unexpected categories %+v", dash.Categories)
		}
		if len(dash.Trend) != 1 || dash.Trend[0].Month != "2024-01" {
			t.Errorf("unexpected trend %+v", dash.Trend)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		_, err := svc.Dashboard(context.Background(), "nope", 6)
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})
}
