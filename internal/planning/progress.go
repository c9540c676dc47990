package planning

import (
	"fmt"
	"math"

	"fintrack/internal/errors"
	"fintrack/internal/models"
)

// Status describes how far along a category or budget is.
type Status string

const (
	StatusUnderBudget Status = "under_budget"
	StatusNearLimit   Status = "near_limit"
	StatusOverBudget  Status = "over_budget"
)

// Progress percent thresholds for the status bands. Clients key
// styling off the three status names, so these stay named constants.
const (
	NearLimitThreshold  = 80.0
	OverBudgetThreshold = 100.0
)

// CategoryProgress is one budget item's planned vs. actual figures.
type CategoryProgress struct {
	CategoryID      uint    `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	PlannedCents    int64   `json:"planned_cents"`
	SpentCents      int64   `json:"spent_cents"`
	RemainingCents  int64   `json:"remaining_cents"`
	ProgressPercent float64 `json:"progress_percent"`
	Status          Status  `json:"status"`
}

// Summary holds budget-level totals, always the sums of the category
// rows so that the rows and the rollup cannot disagree.
type Summary struct {
	TotalPlannedCents   int64 `json:"total_planned_cents"`
	TotalSpentCents     int64 `json:"total_spent_cents"`
	TotalRemainingCents int64 `json:"total_remaining_cents"`
}

// BudgetProgress is the derived progress view for one budget. It is
// never persisted; both the report service and the local fallback
// produce this exact shape.
type BudgetProgress struct {
	BudgetID        uint               `json:"budget_id,omitempty"`
	BudgetName      string             `json:"budget_name,omitempty"`
	Summary         Summary            `json:"summary"`
	Categories      []CategoryProgress `json:"categories"`
	UnbudgetedCents *int64             `json:"unbudgeted_cents,omitempty"`
}

// statusFor maps a progress percent onto a status band. A zero-planned
// category with spend is always over budget, whatever its percent.
func statusFor(plannedCents, spentCents int64, percent float64) Status {
	if plannedCents == 0 && spentCents > 0 {
		return StatusOverBudget
	}
	switch {
	case percent > OverBudgetThreshold:
		return StatusOverBudget
	case percent >= NearLimitThreshold:
		return StatusNearLimit
	default:
		return StatusUnderBudget
	}
}

// progressPercent computes spent/planned*100 rounded to two decimal
// places. Zero planned yields 0 for zero spend and 100 otherwise.
func progressPercent(plannedCents, spentCents int64) float64 {
	if plannedCents <= 0 {
		if spentCents == 0 {
			return 0
		}
		return 100
	}
	pct := float64(spentCents) / float64(plannedCents) * 100
	return math.Round(pct*100) / 100
}

// ComputeProgress aggregates a budget's items against its matched
// transactions. It is the single implementation behind both the
// report-service path and the local fallback; callers must pass the
// same loaded data to both. A nil budget returns an empty progress
// and no error. An item whose category is missing from categories is
// an error rather than a zeroed row, since a silent zero would break
// the summary totals.
func ComputeProgress(budget *models.Budget, txns []models.Transaction, categories []models.Category) (*BudgetProgress, error) {
	return computeProgress(budget, txns, categories, false)
}

// ComputeProgressUnbudgeted is ComputeProgress with the in-period
// spend outside the budget's category set included in the result.
func ComputeProgressUnbudgeted(budget *models.Budget, txns []models.Transaction, categories []models.Category) (*BudgetProgress, error) {
	return computeProgress(budget, txns, categories, true)
}

func computeProgress(budget *models.Budget, txns []models.Transaction, categories []models.Category, includeUnbudgeted bool) (*BudgetProgress, error) {
	if budget == nil {
		return &BudgetProgress{Categories: []CategoryProgress{}}, nil
	}

	nameByID := make(map[uint]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.Name
	}

	match := MatchWithUnbudgeted(budget, txns)

	// Spend is the magnitude of every matched transaction: budget
	// consumption is outflow size, not signed net.
	spentByCategory := make(map[uint]int64, len(budget.Items))
	for _, txn := range match.Matched {
		amount := txn.AmountCents
		if amount < 0 {
			amount = -amount
		}
		spentByCategory[*txn.CategoryID] += amount
	}

	progress := &BudgetProgress{
		BudgetID:   budget.ID,
		BudgetName: budget.Name,
		Categories: make([]CategoryProgress, 0, len(budget.Items)),
	}
	for _, item := range budget.Items {
		name, ok := nameByID[item.CategoryID]
		if !ok {
			return nil, errors.WithMessage(errors.ErrUnknownCategory,
				fmt.Sprintf("budget item references unknown category %d", item.CategoryID))
		}
		spent := spentByCategory[item.CategoryID]
		pct := progressPercent(item.PlannedCents, spent)
		progress.Categories = append(progress.Categories, CategoryProgress{
			CategoryID:      item.CategoryID,
			CategoryName:    name,
			PlannedCents:    item.PlannedCents,
			SpentCents:      spent,
			RemainingCents:  item.PlannedCents - spent,
			ProgressPercent: pct,
			Status:          statusFor(item.PlannedCents, spent, pct),
		})
	}

	for _, row := range progress.Categories {
		progress.Summary.TotalPlannedCents += row.PlannedCents
		progress.Summary.TotalSpentCents += row.SpentCents
		progress.Summary.TotalRemainingCents += row.RemainingCents
	}

	if includeUnbudgeted {
		unbudgeted := match.UnbudgetedCents
		progress.UnbudgetedCents = &unbudgeted
	}
	return progress, nil
}
