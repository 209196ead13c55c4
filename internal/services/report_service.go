package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
)

// DefaultTrendMonths is the trend length used when none is given.
const DefaultTrendMonths = 6

const sumAmount = "CAST(COALESCE(SUM(amount), 0) AS BIGINT)"

// reportService computes read-only summaries over stored transactions.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// MonthSummary totals the month's income and expenses. Transfers count
// towards neither.
func (s *reportService) MonthSummary(monthKey string) (*MonthSummary, error) {
	return monthSummary(s.db, monthKey)
}

// CategoryBreakdown groups the month's expenses by category and compares
// each with its budget. Categories without a budget get 0. Lines are
// ordered by spend, largest first, ties by category name.
func (s *reportService) CategoryBreakdown(monthKey string) ([]CategoryLine, error) {
	return categoryBreakdown(s.db, monthKey)
}

// Trend returns income, expense and net for the most recent months that
// hold any transactions, oldest first.
func (s *reportService) Trend(months int) ([]TrendPoint, error) {
	return trend(s.db, months)
}

// Dashboard runs the three reports concurrently.
func (s *reportService) Dashboard(ctx context.Context, monthKey string, months int) (*Dashboard, error) {
	// Reject a bad key up front rather than from inside two goroutines.
	if _, err := parseMonth(monthKey); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)
	dash := &Dashboard{}

	g.Go(func() error {
		summary, err := monthSummary(db, monthKey)
		dash.Summary = summary
		return err
	})
	g.Go(func() error {
		lines, err := categoryBreakdown(db, monthKey)
		dash.Categories = lines
		return err
	})
	g.Go(func() error {
		points, err := trend(db, months)
		dash.Trend = points
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dash, nil
}

type typeTotal struct {
	Type  models.TransactionType
	Total int64
}

func monthSummary(db *gorm.DB, monthKey string) (*MonthSummary, error) {
	first, last, err := monthWindow(monthKey)
	if err != nil {
		return nil, err
	}

	var rows []typeTotal
	if err := db.Model(&models.Transaction{}).
		Select("type, "+sumAmount+" AS total").
		Where("date BETWEEN ? AND ?", first, last).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &MonthSummary{Month: first[:7]}
	for _, r := range rows {
		switch r.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = r.Total
		case models.TransactionTypeExpense:
			summary.TotalExpense = r.Total
		}
	}
	summary.Net = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

type categoryTotal struct {
	Category models.Category
	Spent    int64
}

func categoryBreakdown(db *gorm.DB, monthKey string) ([]CategoryLine, error) {
	first, last, err := monthWindow(monthKey)
	if err != nil {
		return nil, err
	}

	var totals []categoryTotal
	if err := db.Model(&models.Transaction{}).
		Select("category, "+sumAmount+" AS spent").
		Where("type = ? AND date BETWEEN ? AND ?", models.TransactionTypeExpense, first, last).
		Group("category").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := db.Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	planned := make(map[models.Category]int64, len(budgets))
	for _, b := range budgets {
		planned[b.Category] = b.Planned
	}

	lines := make([]CategoryLine, 0, len(totals))
	for _, t := range totals {
		budget := planned[t.Category]
		lines = append(lines, CategoryLine{
			Category: t.Category,
			Spent:    t.Spent,
			Budget:   budget,
			Variance: budget - t.Spent,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Spent != lines[j].Spent {
			return lines[i].Spent > lines[j].Spent
		}
		return lines[i].Category < lines[j].Category
	})
	return lines, nil
}

type monthTypeTotal struct {
	YM    string
	Type  models.TransactionType
	Total int64
}

func trend(db *gorm.DB, months int) ([]TrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	var rows []monthTypeTotal
	if err := db.Model(&models.Transaction{}).
		Select("SUBSTR(date, 1, 7) AS ym, type, "+sumAmount+" AS total").
		Group("SUBSTR(date, 1, 7), type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byMonth := make(map[string]*TrendPoint)
	for _, r := range rows {
		p, ok := byMonth[r.YM]
		if !ok {
			p = &TrendPoint{Month: r.YM}
			byMonth[r.YM] = p
		}
		switch r.Type {
		case models.TransactionTypeIncome:
			p.Income += r.Total
		case models.TransactionTypeExpense:
			p.Expense += r.Total
		}
	}

	points := make([]TrendPoint, 0, len(byMonth))
	for _, p := range byMonth {
		p.Net = p.Income - p.Expense
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	if len(points) > months {
		points = points[len(points)-months:]
	}
	return points, nil
}
