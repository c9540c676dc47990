package planning

import (
	"math"
	"sort"
	"time"

	"fintrack/internal/models"
)

// Cashflow bucket granularities.
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
	GroupByYear  = "year"
)

// CategorySpend is one category's share of expense spending over a
// reporting range.
type CategorySpend struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	TotalCents   int64   `json:"total_cents"`
	TxnCount     int     `json:"transaction_count"`
	Percentage   float64 `json:"percentage"`
}

// SpendBreakdown groups expense transactions by category, largest
// total first, with each row's percentage of the overall total.
// Uncategorized expenses and income are left out; the breakdown only
// answers "where did the spending go".
func SpendBreakdown(txns []models.Transaction, categories []models.Category) (int64, []CategorySpend) {
	nameByID := make(map[uint]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.Name
	}

	rowByID := make(map[uint]*CategorySpend)
	var order []uint
	for _, txn := range txns {
		if txn.AmountCents >= 0 || txn.CategoryID == nil {
			continue
		}
		id := *txn.CategoryID
		name, known := nameByID[id]
		if !known {
			continue
		}
		row, seen := rowByID[id]
		if !seen {
			row = &CategorySpend{CategoryID: id, CategoryName: name}
			rowByID[id] = row
			order = append(order, id)
		}
		row.TotalCents += -txn.AmountCents
		row.TxnCount++
	}

	var total int64
	rows := make([]CategorySpend, 0, len(order))
	for _, id := range order {
		total += rowByID[id].TotalCents
		rows = append(rows, *rowByID[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalCents > rows[j].TotalCents
	})
	if total > 0 {
		for i := range rows {
			rows[i].Percentage = float64(rows[i].TotalCents) / float64(total) * 100
		}
	}
	return total, rows
}

// CashflowPeriod is one bucket of the income versus expense series.
// ExpenseCents is a magnitude; NetCents keeps the sign.
type CashflowPeriod struct {
	Period              string `json:"period"`
	IncomeCents         int64  `json:"income_cents"`
	ExpenseCents        int64  `json:"expense_cents"`
	NetCents            int64  `json:"net_cents"`
	RunningBalanceCents int64  `json:"running_balance_cents"`
}

// periodLabel buckets a date for the requested granularity. Weeks are
// labelled by their Monday. All labels sort chronologically as plain
// strings.
func periodLabel(date time.Time, groupBy string) string {
	switch groupBy {
	case GroupByDay:
		return date.Format("2006-01-02")
	case GroupByWeek:
		back := (int(date.Weekday()) + 6) % 7
		return date.AddDate(0, 0, -back).Format("2006-01-02")
	case GroupByYear:
		return date.Format("2006")
	default:
		return date.Format("2006-01")
	}
}

// ComputeCashflow buckets transactions by period and accumulates a
// running balance across the buckets in chronological order.
func ComputeCashflow(txns []models.Transaction, groupBy string) []CashflowPeriod {
	byLabel := make(map[string]*CashflowPeriod)
	var labels []string
	for _, txn := range txns {
		label := periodLabel(dateOf(txn.TxnDate), groupBy)
		bucket, seen := byLabel[label]
		if !seen {
			bucket = &CashflowPeriod{Period: label}
			byLabel[label] = bucket
			labels = append(labels, label)
		}
		if txn.AmountCents >= 0 {
			bucket.IncomeCents += txn.AmountCents
		} else {
			bucket.ExpenseCents += -txn.AmountCents
		}
		bucket.NetCents += txn.AmountCents
	}

	sort.Strings(labels)
	periods := make([]CashflowPeriod, 0, len(labels))
	var running int64
	for _, label := range labels {
		running += byLabel[label].NetCents
		byLabel[label].RunningBalanceCents = running
		periods = append(periods, *byLabel[label])
	}
	return periods
}

// MonthlyTrend is one month's income, spending, and savings rate.
type MonthlyTrend struct {
	Month        string  `json:"month"`
	IncomeCents  int64   `json:"income_cents"`
	ExpenseCents int64   `json:"expense_cents"`
	NetCents     int64   `json:"net_cents"`
	SavingsRate  float64 `json:"savings_rate_percent"`
}

// ComputeMonthlyTrends buckets transactions by calendar month, oldest
// first. The savings rate is net over income and is left at zero for
// months without income.
func ComputeMonthlyTrends(txns []models.Transaction) []MonthlyTrend {
	periods := ComputeCashflow(txns, GroupByMonth)
	trends := make([]MonthlyTrend, 0, len(periods))
	for _, p := range periods {
		trend := MonthlyTrend{
			Month:        p.Period,
			IncomeCents:  p.IncomeCents,
			ExpenseCents: p.ExpenseCents,
			NetCents:     p.NetCents,
		}
		if p.IncomeCents > 0 {
			trend.SavingsRate = float64(p.NetCents) / float64(p.IncomeCents) * 100
		}
		trends = append(trends, trend)
	}
	return trends
}

// MerchantSpend aggregates expense transactions sharing a description.
type MerchantSpend struct {
	Description string `json:"description"`
	TotalCents  int64  `json:"total_cents"`
	TxnCount    int    `json:"transaction_count"`
	AvgCents    int64  `json:"avg_cents"`
}

// TopMerchants ranks expense descriptions by total spend, largest
// first, keeping at most limit rows. Transactions without a
// description are skipped; they have no merchant to attribute to.
func TopMerchants(txns []models.Transaction, limit int) []MerchantSpend {
	rowByDesc := make(map[string]*MerchantSpend)
	var order []string
	for _, txn := range txns {
		if txn.AmountCents >= 0 || txn.Description == "" {
			continue
		}
		row, seen := rowByDesc[txn.Description]
		if !seen {
			row = &MerchantSpend{Description: txn.Description}
			rowByDesc[txn.Description] = row
			order = append(order, txn.Description)
		}
		row.TotalCents += -txn.AmountCents
		row.TxnCount++
	}

	merchants := make([]MerchantSpend, 0, len(order))
	for _, desc := range order {
		row := *rowByDesc[desc]
		row.AvgCents = int64(math.Round(float64(row.TotalCents) / float64(row.TxnCount)))
		merchants = append(merchants, row)
	}
	sort.SliceStable(merchants, func(i, j int) bool {
		return merchants[i].TotalCents > merchants[j].TotalCents
	})
	if limit > 0 && len(merchants) > limit {
		merchants = merchants[:limit]
	}
	return merchants
}
