// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pocketbook/internal/models"
	"pocketbook/internal/month"
)

const maxCategoryLength = 64

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("month_key", validateMonthKey)
		_ = v.RegisterValidation("category", validateCategory)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	_, ok := models.ParseTransactionType(fl.Field().String())
	return ok
}

func validateMonthKey(fl validator.FieldLevel) bool {
	_, err := month.Parse(fl.Field().String())
	return err == nil
}

func validateCategory(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return s != "" && len(s) <= maxCategoryLength
}
