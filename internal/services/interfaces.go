package services

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/planning"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name string, accountType models.AccountType, currency string, initialBalanceCents int64) (*models.Account, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	UpdateAccount(userID, accountID uint, name string) (*models.Account, error)
	DeleteAccount(userID, accountID uint) error
}

// CategoryUsage counts the records that depend on a category. Deletion
// is refused while any count is nonzero, unless forced.
type CategoryUsage struct {
	TransactionCount int64 `json:"transaction_count"`
	BudgetItemCount  int64 `json:"budget_item_count"`
	SubcategoryCount int64 `json:"subcategory_count"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, kind models.CategoryKind, description string, parentID *uint) (*models.Category, error)
	GetUserCategories(userID uint, kind *models.CategoryKind) ([]models.Category, error)
	GetCategoryTree(userID uint) (map[uint][]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, description string, parentID *uint) (*models.Category, error)
	GetCategoryUsage(userID, categoryID uint) (*CategoryUsage, error)
	DeleteCategory(userID, categoryID uint, force bool) error
	CreateDefaultCategories(userID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uint
	AccountID  *uint
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID uint, categoryID *uint, amountCents int64, description string, txnDate time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BudgetItemInput is one planned line supplied when creating or
// updating a budget.
type BudgetItemInput struct {
	CategoryID   uint
	PlannedCents int64
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, name string, periodStart, periodEnd time.Time, currency string, items []BudgetItemInput) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, name string, periodStart, periodEnd *time.Time, items []BudgetItemInput) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetCurrentBudget(userID uint, at time.Time) (*models.Budget, error)
	GetBudgetProgress(ctx context.Context, userID, budgetID uint, includeUnbudgeted bool) (*planning.BudgetProgress, error)
	GetDashboard(ctx context.Context, userID uint) ([]*planning.BudgetProgress, error)
}

// ReportingServicer defines the contract for read-only reports over a
// user's ledger.
type ReportingServicer interface {
	GetSpendSummary(userID uint, from, to time.Time) (*SpendSummary, error)
	GetCashflow(userID uint, from, to time.Time, groupBy string) (*CashflowReport, error)
	GetAccountBalances(userID uint) (*BalanceReport, error)
	GetMonthlyTrends(userID uint, months int) ([]planning.MonthlyTrend, error)
	GetTopMerchants(userID uint, limit int) ([]planning.MerchantSpend, error)
}

// PredictionServicer defines the contract for next-budget suggestions.
type PredictionServicer interface {
	PredictNextBudget(ctx context.Context, userID uint, targetMonth, targetYear int) ([]planning.Prediction, error)
}
