package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category labels what a transaction, budget or subscription is for. It is
// an open enumeration: the defaults below are suggested, any non-empty name
// is accepted.
type Category string

const (
	CategoryRent          Category = "Rent"
	CategoryGroceries     Category = "Groceries"
	CategoryTravel        Category = "Travel"
	CategorySubscriptions Category = "Subscriptions"
	CategoryDebtPayments  Category = "Debt Payments"
	CategoryDining        Category = "Dining & Coffee"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryUtilities     Category = "Utilities"
	CategoryTransfers     Category = "Transfers"
	CategoryOther         Category = "Other"
)

// DefaultCategories lists the suggested categories in display order.
var DefaultCategories = []Category{
	CategoryRent,
	CategoryGroceries,
	CategoryTravel,
	CategorySubscriptions,
	CategoryDebtPayments,
	CategoryDining,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryUtilities,
	CategoryTransfers,
	CategoryOther,
}

// ParseCategory canonicalises a category name. Names matching a default
// category under Unicode case folding map onto it ("groceries" becomes
// "Groceries"); anything else is kept as trimmed. Empty input is Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryOther
	}
	fold := cases.Fold()
	key := fold.String(s)
	for _, c := range DefaultCategories {
		if fold.String(string(c)) == key {
			return c
		}
	}
	return Category(s)
}

// IsDefault reports whether c is one of the suggested categories.
func (c Category) IsDefault() bool {
	for _, d := range DefaultCategories {
		if c == d {
			return true
		}
	}
	return false
}
