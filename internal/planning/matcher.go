package planning

import (
	"time"

	"fintrack/internal/models"
)

// MatchResult carries the transactions that belong to a budget plus
// the aggregate spend that fell outside its category set.
type MatchResult struct {
	Matched         []models.Transaction
	UnbudgetedCents int64
}

// dateOf strips the time-of-day component so that period bounds and
// transaction timestamps compare on calendar dates alone.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func inPeriod(budget *models.Budget, txn models.Transaction) bool {
	d := dateOf(txn.TxnDate)
	return !d.Before(dateOf(budget.PeriodStart)) && !d.After(dateOf(budget.PeriodEnd))
}

// MatchTransactions returns the transactions that fall inside the
// budget's period (inclusive, date component only) and whose category
// is one of the budget's item categories.
func MatchTransactions(budget *models.Budget, txns []models.Transaction) []models.Transaction {
	return MatchWithUnbudgeted(budget, txns).Matched
}

// MatchWithUnbudgeted is MatchTransactions plus an aggregate of
// in-period expense spend that no budget item covers: expense
// transactions with no category or a category outside the item set.
// Income outside the item set is not counted as unbudgeted spend.
func MatchWithUnbudgeted(budget *models.Budget, txns []models.Transaction) MatchResult {
	var res MatchResult
	if budget == nil {
		return res
	}

	inItems := make(map[uint]bool, len(budget.Items))
	for _, item := range budget.Items {
		inItems[item.CategoryID] = true
	}

	for _, txn := range txns {
		if !inPeriod(budget, txn) {
			continue
		}
		if txn.CategoryID != nil && inItems[*txn.CategoryID] {
			res.Matched = append(res.Matched, txn)
			continue
		}
		if txn.AmountCents < 0 {
			res.UnbudgetedCents += -txn.AmountCents
		}
	}
	return res
}
