package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/planning"
	"fintrack/internal/report"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db     *gorm.DB
	report *report.Client
	cache  *cache.Cache
}

// NewBudgetService creates a new BudgetServicer. The report client may
// be disabled; progress is then always computed locally. The cache may
// be nil; writes then have no cached predictions to invalidate.
func NewBudgetService(db *gorm.DB, reportClient *report.Client, c *cache.Cache) BudgetServicer {
	return &budgetService{db: db, report: reportClient, cache: c}
}

// CreateBudget validates and creates a budget with its items.
func (s *budgetService) CreateBudget(userID uint, name string, periodStart, periodEnd time.Time, currency string, items []BudgetItemInput) (*models.Budget, error) {
	if err := s.validateBudget(userID, periodStart, periodEnd, items); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:      userID,
		Name:        name,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Currency:    currency,
	}
	for _, item := range items {
		budget.Items = append(budget.Items, models.BudgetItem{
			CategoryID:   item.CategoryID,
			PlannedCents: item.PlannedCents,
		})
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	invalidatePredictions(s.cache, userID)
	return budget, nil
}

// validateBudget enforces the budget invariants: a non-inverted
// period, at most one item per category, non-negative planned
// amounts, and every item category existing for the user.
func (s *budgetService) validateBudget(userID uint, periodStart, periodEnd time.Time, items []BudgetItemInput) error {
	if periodEnd.Before(periodStart) {
		return apperrors.ErrInvalidPeriod
	}

	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.PlannedCents < 0 {
			return apperrors.WithMessage(apperrors.ErrNegativeAmount,
				fmt.Sprintf("planned amount for category %d must not be negative", item.CategoryID))
		}
		if seen[item.CategoryID] {
			return apperrors.WithMessage(apperrors.ErrDuplicateCategoryItem,
				fmt.Sprintf("category %d appears in more than one item", item.CategoryID))
		}
		seen[item.CategoryID] = true
		ids = append(ids, item.CategoryID)
	}

	if len(ids) > 0 {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("user_id = ? AND id IN ?", userID, ids).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count != int64(len(ids)) {
			return apperrors.ErrUnknownCategory
		}
	}
	return nil
}

// GetUserBudgets returns a paginated list of the user's budgets with
// their items, most recent period first.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Items").Scopes(pagination.Paginate(page)).
		Order("period_start DESC, id DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget with its items if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Items").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's name or period and, when items are
// supplied, replaces the item set wholesale after re-validation.
func (s *budgetService) UpdateBudget(userID, budgetID uint, name string, periodStart, periodEnd *time.Time, items []BudgetItemInput) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	newStart := budget.PeriodStart
	newEnd := budget.PeriodEnd
	if periodStart != nil {
		newStart = *periodStart
	}
	if periodEnd != nil {
		newEnd = *periodEnd
	}
	if items == nil {
		if newEnd.Before(newStart) {
			return nil, apperrors.ErrInvalidPeriod
		}
	} else if err := s.validateBudget(userID, newStart, newEnd, items); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if name != "" {
			updates["name"] = name
		}
		if periodStart != nil {
			updates["period_start"] = newStart
		}
		if periodEnd != nil {
			updates["period_end"] = newEnd
		}
		if len(updates) > 0 {
			if err := tx.Model(budget).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if items != nil {
			if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			budget.Items = nil
			for _, item := range items {
				budget.Items = append(budget.Items, models.BudgetItem{
					BudgetID:     budget.ID,
					CategoryID:   item.CategoryID,
					PlannedCents: item.PlannedCents,
				})
			}
			if len(budget.Items) > 0 {
				if err := tx.Create(&budget.Items).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidatePredictions(s.cache, userID)
	return budget, nil
}

// DeleteBudget removes a budget and its items.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidatePredictions(s.cache, userID)
	return nil
}

// GetCurrentBudget returns the budget whose period covers the given
// time, or nil with no error when there is none. Having no current
// budget is a normal state, not a failure.
func (s *budgetService) GetCurrentBudget(userID uint, at time.Time) (*models.Budget, error) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	var budget models.Budget
	err := s.db.Preload("Items").
		Where("user_id = ? AND period_start <= ? AND period_end >= ?", userID, day, day).
		Order("period_start DESC").First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetProgress returns the progress view for a budget. The
// authoritative report service is asked first; if it is disabled or
// fails, the same figures are reconstructed locally from the loaded
// budget, transactions, and categories. Both paths run through
// planning.ComputeProgress's arithmetic, so they cannot drift.
func (s *budgetService) GetBudgetProgress(ctx context.Context, userID, budgetID uint, includeUnbudgeted bool) (*planning.BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	// The report service does not compute the unbudgeted figure, so
	// those requests always take the local path.
	if s.report.Enabled() && !includeUnbudgeted {
		progress, err := s.report.GetBudgetProgress(ctx, budgetID)
		if err == nil {
			return progress, nil
		}
		logger.Get().Warnw("Report service unavailable, computing progress locally",
			"budget_id", budgetID, "error", err)
	}

	return s.computeLocally(budget, includeUnbudgeted)
}

// computeLocally loads the budget's window of transactions and the
// user's categories and runs the shared aggregation.
func (s *budgetService) computeLocally(budget *models.Budget, includeUnbudgeted bool) (*planning.BudgetProgress, error) {
	var txns []models.Transaction
	if err := s.db.Where("user_id = ? AND txn_date >= ? AND txn_date < ?",
		budget.UserID, budget.PeriodStart, budget.PeriodEnd.AddDate(0, 0, 1)).
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", budget.UserID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if includeUnbudgeted {
		return planning.ComputeProgressUnbudgeted(budget, txns, categories)
	}
	return planning.ComputeProgress(budget, txns, categories)
}

// GetDashboard computes progress for every budget of the user. The
// budgets are independent, so they are computed concurrently; output
// order matches the budget listing order.
func (s *budgetService) GetDashboard(ctx context.Context, userID uint) ([]*planning.BudgetProgress, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Items").Where("user_id = ?", userID).
		Order("period_start DESC, id DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	results := make([]*planning.BudgetProgress, len(budgets))
	g, ctx := errgroup.WithContext(ctx)
	for i := range budgets {
		i := i
		g.Go(func() error {
			progress, err := s.GetBudgetProgress(ctx, userID, budgets[i].ID, false)
			if err != nil {
				return err
			}
			results[i] = progress
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
