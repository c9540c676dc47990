package models

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// Account is a container for transactions. Balances are integer cents.
// CurrentBalanceCents is maintained by the transaction service as
// transactions are created and deleted.
type Account struct {
	Base
	UserID              uint        `gorm:"not null;index" json:"user_id"`
	Name                string      `gorm:"not null" json:"name"`
	Type                AccountType `gorm:"not null" json:"type"`
	Currency            string      `gorm:"not null;default:USD" json:"currency"`
	InitialBalanceCents int64       `gorm:"not null;default:0" json:"initial_balance_cents"`
	CurrentBalanceCents int64       `gorm:"not null;default:0" json:"current_balance_cents"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
