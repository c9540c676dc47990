package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/planning"
)

// historyWindow bounds how many past budgets feed a prediction.
const historyWindow = 12

// predictionCacheTTL bounds how stale a cached prediction set may be.
// Only estimator output is cached; progress aggregation always reads
// live data.
const predictionCacheTTL = time.Hour

// predictionCachePrefix namespaces a user's cached suggestions so a
// write to their budgets or transactions can drop them all at once.
func predictionCachePrefix(userID uint) string {
	return fmt.Sprintf("prediction:%d:", userID)
}

func predictionCacheKey(userID uint, targetMonth, targetYear int) string {
	return fmt.Sprintf("%s%04d-%02d", predictionCachePrefix(userID), targetYear, targetMonth)
}

// invalidatePredictions drops a user's cached suggestions. The budget
// and transaction services call it after every write that changes the
// history predictions are derived from.
func invalidatePredictions(c *cache.Cache, userID uint) {
	c.DeletePrefix(context.Background(), predictionCachePrefix(userID))
}

// predictionService derives next-budget suggestions from past budgets
// and their actual spend.
type predictionService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewPredictionService creates a new PredictionServicer. The cache may
// be nil; predictions are then recomputed on every request.
func NewPredictionService(db *gorm.DB, c *cache.Cache) PredictionServicer {
	return &predictionService{db: db, cache: c}
}

// PredictNextBudget suggests a planned amount per category for the
// target period. Categories without history are omitted; a user with
// no budget history gets an empty list, not an error.
func (s *predictionService) PredictNextBudget(ctx context.Context, userID uint, targetMonth, targetYear int) ([]planning.Prediction, error) {
	key := predictionCacheKey(userID, targetMonth, targetYear)
	var cached []planning.Prediction
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	// The window keeps the most recent budgets; the query returns them
	// newest first, so flip back to chronological order before building
	// the history series.
	var budgets []models.Budget
	if err := s.db.Preload("Items").Where("user_id = ?", userID).
		Order("period_start DESC").Limit(historyWindow).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(budgets) == 0 {
		return []planning.Prediction{}, nil
	}
	for i, j := 0, len(budgets)-1; i < j; i, j = i+1, j-1 {
		budgets[i], budgets[j] = budgets[j], budgets[i]
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	nameByID := make(map[uint]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.Name
	}

	// One history series per category, one point per past budget that
	// planned for it, oldest first.
	history := make(map[uint][]planning.HistoryPoint)
	var order []uint
	for i := range budgets {
		spent, err := s.spentByCategory(&budgets[i])
		if err != nil {
			return nil, err
		}
		for _, item := range budgets[i].Items {
			if _, seen := history[item.CategoryID]; !seen {
				order = append(order, item.CategoryID)
			}
			history[item.CategoryID] = append(history[item.CategoryID], planning.HistoryPoint{
				PlannedCents: item.PlannedCents,
				SpentCents:   spent[item.CategoryID],
			})
		}
	}

	predictions := make([]planning.Prediction, 0, len(order))
	for _, categoryID := range order {
		name, ok := nameByID[categoryID]
		if !ok {
			// Category deleted since the budget was made; nothing to
			// suggest for it.
			continue
		}
		predictions = append(predictions,
			planning.Predict(categoryID, name, history[categoryID], targetMonth, targetYear))
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].ConfidenceScore > predictions[j].ConfidenceScore
	})

	s.cache.SetJSON(ctx, key, predictions, predictionCacheTTL)
	return predictions, nil
}

// spentByCategory sums matched transaction magnitudes per category for
// one past budget.
func (s *predictionService) spentByCategory(budget *models.Budget) (map[uint]int64, error) {
	var txns []models.Transaction
	if err := s.db.Where("user_id = ? AND txn_date >= ? AND txn_date < ?",
		budget.UserID, budget.PeriodStart, budget.PeriodEnd.AddDate(0, 0, 1)).
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := make(map[uint]int64, len(budget.Items))
	for _, txn := range planning.MatchTransactions(budget, txns) {
		amount := txn.AmountCents
		if amount < 0 {
			amount = -amount
		}
		spent[*txn.CategoryID] += amount
	}
	return spent, nil
}
