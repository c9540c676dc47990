package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/planning"
	"fintrack/internal/validator"
)

// SpendSummary is the per-category spending breakdown for a range.
type SpendSummary struct {
	From            string                   `json:"from"`
	To              string                   `json:"to"`
	TotalSpentCents int64                    `json:"total_spent_cents"`
	Categories      []planning.CategorySpend `json:"categories"`
}

// CashflowReport is the income versus expense series for a range with
// overall totals.
type CashflowReport struct {
	From              string                    `json:"from"`
	To                string                    `json:"to"`
	GroupBy           string                    `json:"group_by"`
	TotalIncomeCents  int64                     `json:"total_income_cents"`
	TotalExpenseCents int64                     `json:"total_expense_cents"`
	NetCents          int64                     `json:"net_cents"`
	Periods           []planning.CashflowPeriod `json:"periods"`
}

// AccountBalance is one account's balance with its transaction count.
type AccountBalance struct {
	AccountID        uint               `json:"account_id"`
	AccountName      string             `json:"account_name"`
	AccountType      models.AccountType `json:"account_type"`
	BalanceCents     int64              `json:"balance_cents"`
	TransactionCount int64              `json:"transaction_count"`
}

// BalanceReport lists every account balance and their sum.
type BalanceReport struct {
	Accounts          []AccountBalance `json:"accounts"`
	TotalBalanceCents int64            `json:"total_balance_cents"`
}

// reportingService computes read-only reports over a user's ledger.
type reportingService struct {
	db *gorm.DB
}

// NewReportingService creates a new ReportingServicer.
func NewReportingService(db *gorm.DB) ReportingServicer {
	return &reportingService{db: db}
}

// GetSpendSummary breaks down expense spending by category between two
// dates, inclusive.
func (s *reportingService) GetSpendSummary(userID uint, from, to time.Time) (*SpendSummary, error) {
	if to.Before(from) {
		return nil, apperrors.ErrInvalidPeriod
	}

	txns, err := s.rangeTransactions(userID, from, to)
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total, rows := planning.SpendBreakdown(txns, categories)
	return &SpendSummary{
		From:            from.Format(validator.DateFormat),
		To:              to.Format(validator.DateFormat),
		TotalSpentCents: total,
		Categories:      rows,
	}, nil
}

// GetCashflow reports income versus expenses between two dates,
// inclusive, bucketed by the requested granularity.
func (s *reportingService) GetCashflow(userID uint, from, to time.Time, groupBy string) (*CashflowReport, error) {
	if to.Before(from) {
		return nil, apperrors.ErrInvalidPeriod
	}
	switch groupBy {
	case planning.GroupByDay, planning.GroupByWeek, planning.GroupByMonth, planning.GroupByYear:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"group_by must be one of day, week, month, year")
	}

	txns, err := s.rangeTransactions(userID, from, to)
	if err != nil {
		return nil, err
	}

	report := &CashflowReport{
		From:    from.Format(validator.DateFormat),
		To:      to.Format(validator.DateFormat),
		GroupBy: groupBy,
		Periods: planning.ComputeCashflow(txns, groupBy),
	}
	for _, p := range report.Periods {
		report.TotalIncomeCents += p.IncomeCents
		report.TotalExpenseCents += p.ExpenseCents
	}
	report.NetCents = report.TotalIncomeCents - report.TotalExpenseCents
	return report, nil
}

// GetAccountBalances lists every account's current balance and
// transaction count, ordered by type then name.
func (s *reportingService) GetAccountBalances(userID uint) (*BalanceReport, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Order("type, name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type accountCount struct {
		AccountID uint
		Count     int64
	}
	var counts []accountCount
	if err := s.db.Model(&models.Transaction{}).
		Select("account_id, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("account_id").Scan(&counts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	countByID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByID[c.AccountID] = c.Count
	}

	report := &BalanceReport{Accounts: make([]AccountBalance, 0, len(accounts))}
	for _, a := range accounts {
		report.Accounts = append(report.Accounts, AccountBalance{
			AccountID:        a.ID,
			AccountName:      a.Name,
			AccountType:      a.Type,
			BalanceCents:     a.CurrentBalanceCents,
			TransactionCount: countByID[a.ID],
		})
		report.TotalBalanceCents += a.CurrentBalanceCents
	}
	return report, nil
}

// GetMonthlyTrends reports per-month income, spending, and savings
// rate over the trailing number of months.
func (s *reportingService) GetMonthlyTrends(userID uint, months int) ([]planning.MonthlyTrend, error) {
	if months < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be positive")
	}

	cutoff := time.Now().UTC().AddDate(0, -months, 0)
	var txns []models.Transaction
	if err := s.db.Where("user_id = ? AND txn_date >= ?", userID, cutoff).
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return planning.ComputeMonthlyTrends(txns), nil
}

// GetTopMerchants ranks the user's expense descriptions by total
// spend.
func (s *reportingService) GetTopMerchants(userID uint, limit int) ([]planning.MerchantSpend, error) {
	if limit < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be positive")
	}

	var txns []models.Transaction
	if err := s.db.Where("user_id = ? AND amount_cents < 0 AND description <> ''", userID).
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return planning.TopMerchants(txns, limit), nil
}

// rangeTransactions loads the user's transactions whose date component
// falls inside [from, to].
func (s *reportingService) rangeTransactions(userID uint, from, to time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.Where("user_id = ? AND txn_date >= ? AND txn_date < ?",
		userID, from, to.AddDate(0, 0, 1)).Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txns, nil
}
