package services

import (
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/models"
	"pocketbook/internal/seed"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// SeedDefaults inserts defaults when the budgets table is empty and returns
// the number of rows written. A populated table is left alone.
func (s *budgetService) SeedDefaults(defaults []seed.BudgetDefault) (int, error) {
	seeded := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Budget{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 || len(defaults) == 0 {
			return nil
		}

		budgets := make([]models.Budget, 0, len(defaults))
		for _, d := range defaults {
			budgets = append(budgets, models.Budget{Category: d.Category, Planned: d.Planned})
		}
		if err := tx.Create(&budgets).Error; err != nil {
			return err
		}
		seeded = len(budgets)
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if seeded > 0 {
		logger.Get().Infow("seeded default budgets", "count", seeded)
	}
	return seeded, nil
}

// GetBudgets returns planned amounts keyed by category.
func (s *budgetService) GetBudgets() (map[models.Category]int64, error) {
	budgets, err := s.ListBudgets()
	if err != nil {
		return nil, err
	}
	out := make(map[models.Category]int64, len(budgets))
	for _, b := range budgets {
		out[b.Category] = b.Planned
	}
	return out, nil
}

// ListBudgets returns every budget, default categories first in their
// usual order and any others alphabetically after them.
func (s *budgetService) ListBudgets() ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rank := make(map[models.Category]int, len(models.DefaultCategories))
	for i, c := range models.DefaultCategories {
		rank[c] = i
	}
	sort.SliceStable(budgets, func(i, j int) bool {
		ri, iok := rank[budgets[i].Category]
		rj, jok := rank[budgets[j].Category]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return budgets[i].Category < budgets[j].Category
		}
	})
	return budgets, nil
}

// UpsertBudget sets the planned amount for category in a single
// insert-or-update statement.
func (s *budgetService) UpsertBudget(category models.Category, planned int64) (*models.Budget, error) {
	if strings.TrimSpace(string(category)) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if planned < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "planned amount must not be negative")
	}

	budget := &models.Budget{Category: models.ParseCategory(string(category)), Planned: planned}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"planned"}),
	}).Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}
