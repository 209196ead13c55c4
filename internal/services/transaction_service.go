package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/month"
	"pocketbook/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction validates and stores a single transaction.
func (s *transactionService) CreateTransaction(input TransactionInput) (*models.Transaction, error) {
	return insertTransaction(s.db, input)
}

// GetMonthTransactions returns the month's transactions, newest first.
func (s *transactionService) GetMonthTransactions(monthKey string) ([]models.Transaction, error) {
	first, last, err := monthWindow(monthKey)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	if err := s.db.Where("date BETWEEN ? AND ?", first, last).
		Order("date DESC, id DESC").
		Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// GetMonthTransactionsPage returns one page of the month's transactions in
// the same order as GetMonthTransactions.
func (s *transactionService) GetMonthTransactionsPage(monthKey string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page = page.Normalized()

	first, last, err := monthWindow(monthKey)
	if err != nil {
		return nil, err
	}

	base := s.db.Model(&models.Transaction{}).Where("date BETWEEN ? AND ?", first, last)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txs []models.Transaction
	if err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txs, page, totalItems)
	return &result, nil
}

// GetMonths returns every month key holding data plus the month of now,
// ascending and without duplicates.
func (s *transactionService) GetMonths(now time.Time) ([]string, error) {
	var keys []string
	if err := s.db.Model(&models.Transaction{}).Distinct().Pluck("SUBSTR(date, 1, 7)", &keys).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	set := map[string]bool{month.Current(now).String(): true}
	for _, k := range keys {
		set[k] = true
	}
	months := make([]string, 0, len(set))
	for k := range set {
		months = append(months, k)
	}
	sort.Strings(months)
	return months, nil
}

// DeleteTransaction removes one transaction.
func (s *transactionService) DeleteTransaction(id uint) error {
	result := s.db.Delete(&models.Transaction{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransactions removes every transaction whose id is in ids and
// returns how many rows went. Unknown ids are ignored.
func (s *transactionService) DeleteTransactions(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.Where("id IN ?", ids).Delete(&models.Transaction{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// insertTransaction validates input and creates the row on db, which may be
// a transaction handle.
func insertTransaction(db *gorm.DB, input TransactionInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	txType, ok := models.ParseTransactionType(string(input.Type))
	if !ok {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !input.Date.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	tx := &models.Transaction{
		Date:     models.Date{Date: input.Date},
		Account:  strings.TrimSpace(input.Account),
		Merchant: strings.TrimSpace(input.Merchant),
		Category: models.ParseCategory(string(input.Category)),
		Type:     txType,
		Method:   strings.TrimSpace(input.Method),
		Amount:   input.Amount,
		Notes:    strings.TrimSpace(input.Notes),
	}
	if err := db.Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tx, nil
}

// monthWindow resolves a month key to its inclusive first and last dates
// as ISO strings.
func monthWindow(monthKey string) (string, string, error) {
	first, last, err := month.Range(monthKey)
	if err != nil {
		return "", "", invalidMonth(monthKey)
	}
	return first.String(), last.String(), nil
}

func parseMonth(monthKey string) (month.Month, error) {
	m, err := month.Parse(monthKey)
	if err != nil {
		return month.Month{}, invalidMonth(monthKey)
	}
	return m, nil
}

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func invalidMonth(monthKey string) error {
	return apperrors.WithMessage(apperrors.ErrInvalidMonth, fmt.Sprintf("invalid month %q: must be YYYY-MM", monthKey))
}
