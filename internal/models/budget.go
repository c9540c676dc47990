package models

import "time"

// Budget is a plan for a date period. Items carry the per-category
// planned amounts; a budget has at most one item per category.
type Budget struct {
	Base
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	Name        string       `gorm:"not null" json:"name"`
	PeriodStart time.Time    `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time    `gorm:"not null" json:"period_end"`
	Currency    string       `gorm:"not null;default:USD" json:"currency"`
	Items       []BudgetItem `gorm:"foreignKey:BudgetID" json:"items"`
}

// BudgetItem is one planned line of a budget. PlannedCents is never
// negative.
type BudgetItem struct {
	Base
	BudgetID     uint  `gorm:"not null;index" json:"budget_id"`
	CategoryID   uint  `gorm:"not null;index" json:"category_id"`
	PlannedCents int64 `gorm:"not null" json:"planned_cents"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}
