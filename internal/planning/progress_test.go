package planning

import (
	"testing"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

func groceriesCategories() []models.Category {
	return []models.Category{
		cat(1, "Groceries", models.CategoryKindExpense, nil),
		cat(2, "Entertainment", models.CategoryKindExpense, nil),
	}
}

func TestComputeProgress(t *testing.T) {
	budget := januaryBudget()
	categories := groceriesCategories()

	t.Run("aggregates spend for a partially consumed budget", func(t *testing.T) {
		txns := []models.Transaction{
			txn(1, ptr(1), -12000, date(2024, time.January, 5)),
			txn(2, ptr(1), -30000, date(2024, time.January, 20)),
			txn(3, ptr(2), -5000, date(2024, time.January, 10)),
		}
		progress, err := ComputeProgress(budget, txns, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(progress.Categories) != 1 {
			t.Fatalf("got %d category rows, want 1", len(progress.Categories))
		}
		row := progress.Categories[0]
		if row.CategoryName != "Groceries" {
			t.Errorf("category name = %q, want Groceries", row.CategoryName)
		}
		if row.SpentCents != 42000 {
			t.Errorf("spent = %d, want 42000", row.SpentCents)
		}
		if row.RemainingCents != 8000 {
			t.Errorf("remaining = %d, want 8000", row.RemainingCents)
		}
		if row.ProgressPercent != 84.0 {
			t.Errorf("percent = %v, want 84.0", row.ProgressPercent)
		}
		if row.Status != StatusNearLimit {
			t.Errorf("status = %s, want %s", row.Status, StatusNearLimit)
		}
	})

	t.Run("reports overspend with negative remaining", func(t *testing.T) {
		txns := []models.Transaction{
			txn(1, ptr(1), -12000, date(2024, time.January, 5)),
			txn(2, ptr(1), -30000, date(2024, time.January, 20)),
			txn(3, ptr(1), -15000, date(2024, time.January, 25)),
		}
		progress, err := ComputeProgress(budget, txns, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		row := progress.Categories[0]
		if row.SpentCents != 57000 {
			t.Errorf("spent = %d, want 57000", row.SpentCents)
		}
		if row.RemainingCents != -7000 {
			t.Errorf("remaining = %d, want -7000", row.RemainingCents)
		}
		if row.ProgressPercent != 114.0 {
			t.Errorf("percent = %v, want 114.0", row.ProgressPercent)
		}
		if row.Status != StatusOverBudget {
			t.Errorf("status = %s, want %s", row.Status, StatusOverBudget)
		}
	})

	t.Run("spend sums transaction magnitudes", func(t *testing.T) {
		// A refund recorded as income under a budgeted category still
		// counts by magnitude.
		txns := []models.Transaction{
			txn(1, ptr(1), -10000, date(2024, time.January, 5)),
			txn(2, ptr(1), 2500, date(2024, time.January, 6)),
		}
		progress, err := ComputeProgress(budget, txns, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := progress.Categories[0].SpentCents; got != 12500 {
			t.Errorf("spent = %d, want 12500", got)
		}
	})

	t.Run("zero planned and zero spent", func(t *testing.T) {
		b := januaryBudget()
		b.Items = []models.BudgetItem{{CategoryID: 1, PlannedCents: 0}}
		progress, err := ComputeProgress(b, nil, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		row := progress.Categories[0]
		if row.ProgressPercent != 0 || row.Status != StatusUnderBudget {
			t.Errorf("got percent=%v status=%s, want 0 %s", row.ProgressPercent, row.Status, StatusUnderBudget)
		}
	})

	t.Run("zero planned with spend is fully consumed", func(t *testing.T) {
		b := januaryBudget()
		b.Items = []models.BudgetItem{{CategoryID: 1, PlannedCents: 0}}
		txns := []models.Transaction{txn(1, ptr(1), -500, date(2024, time.January, 5))}
		progress, err := ComputeProgress(b, txns, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		row := progress.Categories[0]
		if row.ProgressPercent != 100 {
			t.Errorf("percent = %v, want 100", row.ProgressPercent)
		}
		if row.Status != StatusOverBudget {
			t.Errorf("status = %s, want %s", row.Status, StatusOverBudget)
		}
	})

	t.Run("status thresholds", func(t *testing.T) {
		cases := []struct {
			spent int64
			want  Status
		}{
			{0, StatusUnderBudget},
			{39990, StatusUnderBudget}, // 79.98
			{39999, StatusNearLimit},   // 79.998 reports as 80.0
			{40000, StatusNearLimit},   // exactly 80
			{50000, StatusNearLimit},   // exactly 100
			{50001, StatusNearLimit},   // 100.002 reports as 100.0
			{50500, StatusOverBudget},  // 101
		}
		for _, c := range cases {
			b := januaryBudget()
			var txns []models.Transaction
			if c.spent > 0 {
				txns = []models.Transaction{txn(1, ptr(1), -c.spent, date(2024, time.January, 5))}
			}
			progress, err := ComputeProgress(b, txns, categories)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := progress.Categories[0].Status; got != c.want {
				t.Errorf("spent=%d: status = %s, want %s (percent=%v)",
					c.spent, got, c.want, progress.Categories[0].ProgressPercent)
			}
		}
	})

	t.Run("summary equals sum of category rows", func(t *testing.T) {
		b := januaryBudget()
		b.Items = []models.BudgetItem{
			{CategoryID: 1, PlannedCents: 50000},
			{CategoryID: 2, PlannedCents: 20000},
		}
		txns := []models.Transaction{
			txn(1, ptr(1), -42000, date(2024, time.January, 5)),
			txn(2, ptr(2), -25000, date(2024, time.January, 10)),
		}
		progress, err := ComputeProgress(b, txns, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var planned, spent, remaining int64
		for _, row := range progress.Categories {
			planned += row.PlannedCents
			spent += row.SpentCents
			remaining += row.RemainingCents
		}
		if progress.Summary.TotalPlannedCents != planned ||
			progress.Summary.TotalSpentCents != spent ||
			progress.Summary.TotalRemainingCents != remaining {
			t.Fatalf("summary %+v does not match row sums (%d, %d, %d)",
				progress.Summary, planned, spent, remaining)
		}
	})

	t.Run("output follows budget item order", func(t *testing.T) {
		b := januaryBudget()
		b.Items = []models.BudgetItem{
			{CategoryID: 2, PlannedCents: 100},
			{CategoryID: 1, PlannedCents: 99999},
		}
		progress, err := ComputeProgress(b, nil, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if progress.Categories[0].CategoryID != 2 || progress.Categories[1].CategoryID != 1 {
			t.Fatalf("rows not in item order: %+v", progress.Categories)
		}
	})

	t.Run("nil budget yields empty progress without error", func(t *testing.T) {
		progress, err := ComputeProgress(nil, nil, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(progress.Categories) != 0 {
			t.Fatalf("expected no category rows, got %d", len(progress.Categories))
		}
		if progress.Summary != (Summary{}) {
			t.Fatalf("expected zero summary, got %+v", progress.Summary)
		}
	})

	t.Run("unknown item category fails loudly", func(t *testing.T) {
		b := januaryBudget()
		b.Items = []models.BudgetItem{{CategoryID: 42, PlannedCents: 100}}
		_, err := ComputeProgress(b, nil, categories)
		assertAppErrorCode(t, err, apperrors.ErrUnknownCategory.Code)
	})
}

func TestComputeProgressUnbudgeted(t *testing.T) {
	budget := januaryBudget()
	categories := groceriesCategories()

	t.Run("includes the unbudgeted figure on request", func(t *testing.T) {
		txns := []models.Transaction{
			txn(1, ptr(1), -12000, date(2024, time.January, 5)),
			txn(2, ptr(2), -5000, date(2024, time.January, 10)),
			txn(3, nil, -3000, date(2024, time.January, 12)),
		}
		progress, err := ComputeProgressUnbudgeted(budget, txns, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if progress.UnbudgetedCents == nil {
			t.Fatal("expected unbudgeted figure to be set")
		}
		if *progress.UnbudgetedCents != 8000 {
			t.Fatalf("unbudgeted = %d, want 8000", *progress.UnbudgetedCents)
		}
	})

	t.Run("default path omits the figure", func(t *testing.T) {
		progress, err := ComputeProgress(budget, nil, categories)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if progress.UnbudgetedCents != nil {
			t.Fatalf("expected no unbudgeted figure, got %d", *progress.UnbudgetedCents)
		}
	})
}
