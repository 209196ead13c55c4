package models

import (
	"strings"
	"time"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "Expense"
	TransactionTypeIncome   TransactionType = "Income"
	TransactionTypeTransfer TransactionType = "Transfer"
)

// TransactionTypes lists the supported types in display order.
var TransactionTypes = []TransactionType{
	TransactionTypeExpense,
	TransactionTypeIncome,
	TransactionTypeTransfer,
}

// ParseTransactionType matches s case-insensitively against the supported types.
func ParseTransactionType(s string) (TransactionType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range TransactionTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is a supported transaction type.
func (t TransactionType) Valid() bool {
	_, ok := ParseTransactionType(string(t))
	return ok && string(t) == strings.TrimSpace(string(t))
}

// Payment methods and accounts offered by default to clients.
const (
	MethodCard        = "Card"
	MethodDirectDebit = "Direct Debit"
	MethodTransfer    = "Transfer"
	MethodCash        = "Cash"
)

var (
	DefaultMethods  = []string{MethodCard, MethodDirectDebit, MethodTransfer, MethodCash}
	DefaultAccounts = []string{"Barclays", "Lloyds", "Revolut", "Cash"}
)

// Transaction is a single income, expense or transfer. Amount is held in
// minor currency units and is always positive; Type carries the direction.
// Rows are never updated after insert.
type Transaction struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Date      Date            `gorm:"not null;index" json:"date"`
	Account   string          `gorm:"not null;default:''" json:"account"`
	Merchant  string          `gorm:"not null;default:''" json:"merchant"`
	Category  Category        `gorm:"not null" json:"category"`
	Type      TransactionType `gorm:"type:varchar(16);not null" json:"type"`
	Method    string          `gorm:"not null;default:''" json:"method"`
	Amount    int64           `gorm:"type:bigint;not null" json:"amount"`
	Notes     string          `gorm:"not null;default:''" json:"notes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
