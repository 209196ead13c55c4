package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/models"
)

// defaultPostingNote is written on posted charges whose subscription has no notes.
const defaultPostingNote = "Auto-posted subscription"

// subscriptionService handles subscription-related business logic.
type subscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB) SubscriptionServicer {
	return &subscriptionService{db: db}
}

// AddSubscription validates and stores a recurring charge.
func (s *subscriptionService) AddSubscription(input SubscriptionInput) (*models.Subscription, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if input.BillingDay < 1 || input.BillingDay > 31 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "billing_day must be between 1 and 31")
	}

	category := models.CategorySubscriptions
	if strings.TrimSpace(string(input.Category)) != "" {
		category = models.ParseCategory(string(input.Category))
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	sub := &models.Subscription{
		Name:       name,
		Amount:     input.Amount,
		BillingDay: input.BillingDay,
		Account:    strings.TrimSpace(input.Account),
		Category:   category,
		Notes:      strings.TrimSpace(input.Notes),
		Active:     active,
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

// GetSubscriptions lists subscriptions in creation order, optionally only
// the active ones.
func (s *subscriptionService) GetSubscriptions(activeOnly bool) ([]models.Subscription, error) {
	query := s.db.Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var subs []models.Subscription
	if err := query.Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

// SetSubscriptionActive turns a subscription on or off.
func (s *subscriptionService) SetSubscriptionActive(id uint, active bool) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&sub).Update("active", active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sub.Active = active
	return &sub, nil
}

// PostDueSubscriptions creates one Expense per active subscription, dated
// on its billing day within the month (clamped to the month's last day).
// Posting the same month again creates the charges again.
func (s *subscriptionService) PostDueSubscriptions(monthKey string) (int, error) {
	m, err := parseMonth(monthKey)
	if err != nil {
		return 0, err
	}

	posted := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var subs []models.Subscription
		if err := tx.Where("active = ?", true).Order("id ASC").Find(&subs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for _, sub := range subs {
			notes := sub.Notes
			if notes == "" {
				notes = defaultPostingNote
			}
			category := sub.Category
			if category == "" {
				category = models.CategorySubscriptions
			}
			if _, err := insertTransaction(tx, TransactionInput{
				Date:     m.Clamp(sub.BillingDay),
				Account:  sub.Account,
				Merchant: sub.Name,
				Category: category,
				Type:     models.TransactionTypeExpense,
				Method:   models.MethodDirectDebit,
				Amount:   sub.Amount,
				Notes:    notes,
			}); err != nil {
				return err
			}
			posted++
		}
		return nil
	})
	if err != nil {
		return 0, asAppError(err)
	}

	logger.Get().Infow("posted subscriptions", "month", m.String(), "count", posted)
	return posted, nil
}
