package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"pocketbook/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// MustDate parses a "YYYY-MM-DD" date or fails the test.
func MustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", s, err)
	}
	return d
}

// CreateTestTransaction inserts a transaction on the given date with the given
// type, category and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, date string, txType models.TransactionType, category models.Category, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Date:     MustDate(t, date),
		Account:  "Barclays",
		Merchant: fmt.Sprintf("Test Merchant %d", nextID()),
		Category: category,
		Type:     txType,
		Method:   models.MethodCard,
		Amount:   amount,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget sets the planned amount (in cents) for a category.
func CreateTestBudget(t *testing.T, db *gorm.DB, category models.Category, planned int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{Category: category, Planned: planned}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSubscription inserts a subscription billed on billingDay.
func CreateTestSubscription(t *testing.T, db *gorm.DB, amount int64, billingDay int, active bool) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		Name:       fmt.Sprintf("Test Subscription %d", nextID()),
		Amount:     amount,
		BillingDay: billingDay,
		Account:    "Revolut",
		Category:   models.CategorySubscriptions,
		Active:     active,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}
