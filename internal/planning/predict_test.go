package planning

import (
	"strings"
	"testing"
)

func flatHistory(n int, plannedCents, spentCents int64) []HistoryPoint {
	history := make([]HistoryPoint, n)
	for i := range history {
		history[i] = HistoryPoint{PlannedCents: plannedCents, SpentCents: spentCents}
	}
	return history
}

func TestPredict(t *testing.T) {
	t.Run("averages a flat history", func(t *testing.T) {
		p := Predict(1, "Groceries", flatHistory(6, 50000, 45000), 7, 2024)

		if p.HistoricalAvgPlannedCents != 50000 {
			t.Errorf("avg planned = %d, want 50000", p.HistoricalAvgPlannedCents)
		}
		if p.HistoricalAvgSpentCents != 45000 {
			t.Errorf("avg spent = %d, want 45000", p.HistoricalAvgSpentCents)
		}
		// 0.6*45000 + 0.4*50000 = 47000
		if p.PredictedAmountCents != 47000 {
			t.Errorf("predicted = %d, want 47000", p.PredictedAmountCents)
		}
		if p.TrendDirection != TrendStable {
			t.Errorf("trend = %s, want %s", p.TrendDirection, TrendStable)
		}
	})

	t.Run("detects an increasing spend trend", func(t *testing.T) {
		history := []HistoryPoint{
			{PlannedCents: 50000, SpentCents: 30000},
			{PlannedCents: 50000, SpentCents: 32000},
			{PlannedCents: 50000, SpentCents: 40000},
			{PlannedCents: 50000, SpentCents: 45000},
			{PlannedCents: 50000, SpentCents: 52000},
			{PlannedCents: 50000, SpentCents: 55000},
		}
		p := Predict(1, "Groceries", history, 7, 2024)
		if p.TrendDirection != TrendIncreasing {
			t.Errorf("trend = %s, want %s", p.TrendDirection, TrendIncreasing)
		}
	})

	t.Run("detects a decreasing spend trend", func(t *testing.T) {
		history := []HistoryPoint{
			{PlannedCents: 50000, SpentCents: 55000},
			{PlannedCents: 50000, SpentCents: 52000},
			{PlannedCents: 50000, SpentCents: 45000},
			{PlannedCents: 50000, SpentCents: 40000},
			{PlannedCents: 50000, SpentCents: 32000},
			{PlannedCents: 50000, SpentCents: 30000},
		}
		p := Predict(1, "Groceries", history, 7, 2024)
		if p.TrendDirection != TrendDecreasing {
			t.Errorf("trend = %s, want %s", p.TrendDirection, TrendDecreasing)
		}
	})

	t.Run("small changes read as stable", func(t *testing.T) {
		history := []HistoryPoint{
			{PlannedCents: 50000, SpentCents: 50000},
			{PlannedCents: 50000, SpentCents: 50500},
			{PlannedCents: 50000, SpentCents: 51000},
		}
		p := Predict(1, "Groceries", history, 7, 2024)
		if p.TrendDirection != TrendStable {
			t.Errorf("trend = %s, want %s", p.TrendDirection, TrendStable)
		}
	})

	t.Run("short history reads as stable", func(t *testing.T) {
		p := Predict(1, "Groceries", flatHistory(2, 50000, 60000), 7, 2024)
		if p.TrendDirection != TrendStable {
			t.Errorf("trend = %s, want %s", p.TrendDirection, TrendStable)
		}
	})

	t.Run("single point yields low confidence default", func(t *testing.T) {
		p := Predict(1, "Groceries", flatHistory(1, 50000, 45000), 7, 2024)
		if p.ConfidenceScore != 0.3 {
			t.Errorf("confidence = %v, want 0.3", p.ConfidenceScore)
		}
	})

	t.Run("confidence grows with more data", func(t *testing.T) {
		few := Predict(1, "Groceries", flatHistory(2, 50000, 45000), 7, 2024)
		many := Predict(1, "Groceries", flatHistory(8, 50000, 45000), 7, 2024)
		if many.ConfidenceScore <= few.ConfidenceScore {
			t.Errorf("confidence did not grow: %v (n=2) vs %v (n=8)",
				few.ConfidenceScore, many.ConfidenceScore)
		}
	})

	t.Run("confidence shrinks with variance", func(t *testing.T) {
		steady := Predict(1, "Groceries", flatHistory(6, 50000, 45000), 7, 2024)
		noisy := Predict(1, "Groceries", []HistoryPoint{
			{PlannedCents: 50000, SpentCents: 5000},
			{PlannedCents: 50000, SpentCents: 90000},
			{PlannedCents: 50000, SpentCents: 10000},
			{PlannedCents: 50000, SpentCents: 85000},
			{PlannedCents: 50000, SpentCents: 8000},
			{PlannedCents: 50000, SpentCents: 72000},
		}, 7, 2024)
		if noisy.ConfidenceScore >= steady.ConfidenceScore {
			t.Errorf("noisy confidence %v not below steady %v",
				noisy.ConfidenceScore, steady.ConfidenceScore)
		}
	})

	t.Run("confidence stays within bounds", func(t *testing.T) {
		for n := 0; n <= 20; n++ {
			p := Predict(1, "Groceries", flatHistory(n, 50000, 45000), 7, 2024)
			if p.ConfidenceScore < 0 || p.ConfidenceScore > 1 {
				t.Fatalf("n=%d: confidence %v out of [0,1]", n, p.ConfidenceScore)
			}
		}
	})

	t.Run("prediction is monotonic in recent spend", func(t *testing.T) {
		base := []HistoryPoint{
			{PlannedCents: 50000, SpentCents: 40000},
			{PlannedCents: 50000, SpentCents: 40000},
			{PlannedCents: 50000, SpentCents: 40000},
		}
		prev := int64(-1)
		for _, recent := range []int64{30000, 40000, 50000, 60000} {
			history := append(append([]HistoryPoint{}, base...),
				HistoryPoint{PlannedCents: 50000, SpentCents: recent},
				HistoryPoint{PlannedCents: 50000, SpentCents: recent},
				HistoryPoint{PlannedCents: 50000, SpentCents: recent})
			p := Predict(1, "Groceries", history, 7, 2024)
			if p.PredictedAmountCents <= prev {
				t.Fatalf("prediction not increasing: %d after %d (recent=%d)",
					p.PredictedAmountCents, prev, recent)
			}
			prev = p.PredictedAmountCents
		}
	})

	t.Run("reasoning mentions the period count and target", func(t *testing.T) {
		p := Predict(1, "Groceries", flatHistory(6, 50000, 45000), 7, 2024)
		if !strings.Contains(p.Reasoning, "6 historical period(s)") {
			t.Errorf("reasoning missing period count: %q", p.Reasoning)
		}
		if !strings.Contains(p.Reasoning, "2024-07") {
			t.Errorf("reasoning missing target period: %q", p.Reasoning)
		}
	})
}
