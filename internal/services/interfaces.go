package services

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/civil"

	"pocketbook/internal/models"
	"pocketbook/internal/month"
	"pocketbook/internal/pagination"
	"pocketbook/internal/seed"
)

// TransactionInput carries the fields of a new transaction. Category is
// canonicalised and an empty one becomes Other.
type TransactionInput struct {
	Date     civil.Date
	Account  string
	Merchant string
	Category models.Category
	Type     models.TransactionType
	Method   string
	Amount   int64
	Notes    string
}

// TransactionServicer defines the interface for transaction operations.
type TransactionServicer interface {
	CreateTransaction(input TransactionInput) (*models.Transaction, error)
	GetMonthTransactions(monthKey string) ([]models.Transaction, error)
	GetMonthTransactionsPage(monthKey string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetMonths(now time.Time) ([]string, error)
	DeleteTransaction(id uint) error
	DeleteTransactions(ids []uint) (int64, error)
}

// BudgetServicer defines the interface for budget operations.
type BudgetServicer interface {
	SeedDefaults(defaults []seed.BudgetDefault) (int, error)
	GetBudgets() (map[models.Category]int64, error)
	ListBudgets() ([]models.Budget, error)
	UpsertBudget(category models.Category, planned int64) (*models.Budget, error)
}

// SubscriptionInput carries the fields of a new subscription. A nil Active
// means active.
type SubscriptionInput struct {
	Name       string
	Amount     int64
	BillingDay int
	Account    string
	Category   models.Category
	Notes      string
	Active     *bool
}

// SubscriptionServicer defines the interface for subscription operations.
type SubscriptionServicer interface {
	AddSubscription(input SubscriptionInput) (*models.Subscription, error)
	GetSubscriptions(activeOnly bool) ([]models.Subscription, error)
	SetSubscriptionActive(id uint, active bool) (*models.Subscription, error)
	PostDueSubscriptions(monthKey string) (int, error)
}

// ImportOptions controls a CSV import.
type ImportOptions struct {
	// TargetMonth moves every row into this month, keeping the day.
	TargetMonth *month.Month
	// Atomic runs the whole import in one database transaction.
	Atomic bool
}

// SkippedRow is a data row left out of an import.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarises a CSV import.
type ImportResult struct {
	Inserted int          `json:"inserted"`
	Skipped  []SkippedRow `json:"skipped"`
}

// ImportServicer defines the interface for CSV import and export.
type ImportServicer interface {
	ImportTransactions(r io.Reader, opts ImportOptions) (*ImportResult, error)
	ExportTransactions(w io.Writer, monthKey string) (int, error)
}

// MonthSummary holds the income and expense totals of one month.
type MonthSummary struct {
	Month        string `json:"month"`
	TotalIncome  int64  `json:"total_income"`
	TotalExpense int64  `json:"total_expense"`
	Net          int64  `json:"net"`
}

// CategoryLine compares one category's spend with its budget.
type CategoryLine struct {
	Category models.Category `json:"category"`
	Spent    int64           `json:"spent"`
	Budget   int64           `json:"budget"`
	Variance int64           `json:"variance"`
}

// TrendPoint is one month of the income/expense history.
type TrendPoint struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Net     int64  `json:"net"`
}

// Dashboard bundles the reports shown together for a month.
type Dashboard struct {
	Summary    *MonthSummary  `json:"summary"`
	Categories []CategoryLine `json:"categories"`
	Trend      []TrendPoint   `json:"trend"`
}

// ReportServicer defines the interface for read-only reports.
type ReportServicer interface {
	MonthSummary(monthKey string) (*MonthSummary, error)
	CategoryBreakdown(monthKey string) ([]CategoryLine, error)
	Trend(months int) ([]TrendPoint, error)
	Dashboard(ctx context.Context, monthKey string, months int) (*Dashboard, error)
}
