package models

import "time"

// Transaction is a single ledger entry. AmountCents is signed:
// negative for expenses, positive for income. Only the date component
// of TxnDate is meaningful for budget matching.
type Transaction struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	AccountID   uint      `gorm:"not null;index" json:"account_id"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	TxnDate     time.Time `gorm:"not null;index" json:"txn_date"`
	Description string    `json:"description"`

	Account  Account   `gorm:"foreignKey:AccountID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
