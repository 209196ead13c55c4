package models

// Budget is the planned monthly spend for one category, in minor currency
// units. There is at most one row per category.
type Budget struct {
	Category Category `gorm:"primaryKey" json:"category"`
	Planned  int64    `gorm:"type:bigint;not null" json:"planned"`
}
