package models

import "time"

// Subscription is a recurring monthly charge. Posting a subscription for a
// month creates an Expense transaction and leaves the subscription untouched.
type Subscription struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Amount     int64     `gorm:"type:bigint;not null" json:"amount"`
	BillingDay int       `gorm:"not null" json:"billing_day"`
	Account    string    `gorm:"not null;default:''" json:"account"`
	Category   Category  `gorm:"not null" json:"category"`
	Notes      string    `gorm:"not null;default:''" json:"notes"`
	Active     bool      `gorm:"not null" json:"active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
