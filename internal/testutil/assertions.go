package testutil

import (
	"errors"
	"testing"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"

	"gorm.io/gorm"
)

// AssertAppError checks that err is an *AppError carrying expectedCode.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test immediately if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertRowCount checks the number of rows in model's table, e.g.
// AssertRowCount(t, db, &models.Transaction{}, 0) after a rejected write.
func AssertRowCount(t *testing.T, db *gorm.DB, model any, want int64) {
	t.Helper()

	var got int64
	if err := db.Model(model).Count(&got).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %d rows in %T, got %d", want, model, got)
	}
}

// AssertMonthTotal checks the sum of amounts (in cents) of one transaction
// type within [first, last].
func AssertMonthTotal(t *testing.T, db *gorm.DB, first, last string, txType models.TransactionType, want int64) {
	t.Helper()

	var got int64
	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("date BETWEEN ? AND ? AND type = ?", first, last, txType).
		Scan(&got).Error
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %s total %d between %s and %s, got %d", txType, want, first, last, got)
	}
}
