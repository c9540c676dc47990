package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a cash account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates a cash account with the given
// initial balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID uint, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:              userID,
		Name:                fmt.Sprintf("Test Account %d", nextID()),
		Type:                models.AccountTypeCash,
		Currency:            "USD",
		InitialBalanceCents: balance,
		CurrentBalanceCents: balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given kind.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, kind models.CategoryKind) *models.Category {
	t.Helper()
	return CreateTestSubcategory(t, db, userID, kind, nil)
}

// CreateTestSubcategory creates a category of the given kind under an
// optional parent.
func CreateTestSubcategory(t *testing.T, db *gorm.DB, userID uint, kind models.CategoryKind, parentID *uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Kind:     kind,
		ParentID: parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction with the given signed
// amount (in cents) on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, categoryID *uint, amountCents int64, txnDate time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		AmountCents: amountCents,
		TxnDate:     txnDate,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget covering the given period with one
// item per (categoryID, plannedCents) pair.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, start, end time.Time, items map[uint]int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Budget %d", nextID()),
		PeriodStart: start,
		PeriodEnd:   end,
		Currency:    "USD",
	}
	for categoryID, planned := range items {
		budget.Items = append(budget.Items, models.BudgetItem{
			CategoryID:   categoryID,
			PlannedCents: planned,
		})
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
