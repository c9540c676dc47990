// Package seed populates a development database with a demo user and
// enough data to exercise budgets, progress, and predictions.
package seed

import (
	"time"

	"gorm.io/gorm"

	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

const (
	demoEmail    = "demo@fintrack.local"
	demoPassword = "demo-password-123"
)

// SeedDemoData creates the demo user with default categories, an
// account, three months of transactions, and matching budgets. It is
// idempotent: a second run is a no-op.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", demoEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Get().Info("Demo data already present, skipping seed")
		return nil
	}

	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, nil)
	budgetService := services.NewBudgetService(db, nil, nil)

	user, err := userService.CreateUser(demoEmail, demoPassword, "Demo", "User")
	if err != nil {
		return err
	}
	if err := categoryService.CreateDefaultCategories(user.ID); err != nil {
		return err
	}

	account, err := accountService.CreateAccount(user.ID, "Checking", models.AccountTypeChecking, "USD", 500000)
	if err != nil {
		return err
	}

	categories, err := categoryService.GetUserCategories(user.ID, nil)
	if err != nil {
		return err
	}
	idByName := make(map[string]uint, len(categories))
	for _, c := range categories {
		idByName[c.Name] = c.ID
	}

	groceries := idByName["Groceries"]
	restaurants := idByName["Restaurants"]
	rent := idByName["Rent"]
	salary := idByName["Salary"]

	// Three months ending last month, each with a budget and spend
	// that drifts upward so predictions have a visible trend.
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 3; i >= 1; i-- {
		start := monthStart.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		drift := int64(3-i) * 5000

		_, err := budgetService.CreateBudget(user.ID, start.Format("January 2006"), start, end, "USD",
			[]services.BudgetItemInput{
				{CategoryID: groceries, PlannedCents: 50000},
				{CategoryID: restaurants, PlannedCents: 20000},
				{CategoryID: rent, PlannedCents: 150000},
			})
		if err != nil {
			return err
		}

		spend := []struct {
			categoryID uint
			amount     int64
			day        int
		}{
			{salary, 400000, 1},
			{rent, -150000, 2},
			{groceries, -(18000 + drift), 6},
			{groceries, -(21000 + drift), 19},
			{restaurants, -(6000 + drift/2), 12},
			{restaurants, -(5500 + drift/2), 26},
		}
		for _, txn := range spend {
			categoryID := txn.categoryID
			date := start.AddDate(0, 0, txn.day-1)
			if _, err := transactionService.CreateTransaction(
				user.ID, account.ID, &categoryID, txn.amount, "demo", date); err != nil {
				return err
			}
		}
	}

	logger.Get().Infow("Seeded demo data", "email", demoEmail)
	return nil
}
