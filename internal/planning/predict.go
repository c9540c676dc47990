package planning

import (
	"fmt"
	"math"
	"strings"
)

// Trend directions for the next-budget estimator.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Blend weights for the predicted amount. Recent spend dominates so
// the prediction tracks actual behavior; the planned average anchors
// it against one-off spikes. Keeping recentSpendWeight positive keeps
// the prediction monotonic in recent spend.
const (
	recentSpendWeight = 0.6
	plannedWeight     = 0.4
)

// trendTolerance is the relative change below which the spend trend
// is reported as stable.
const trendTolerance = 0.05

// HistoryPoint is one past period's planned and actual spend for a
// category, ordered oldest first by the caller.
type HistoryPoint struct {
	PlannedCents int64
	SpentCents   int64
}

// Prediction is a suggested next-period budget amount for a category.
type Prediction struct {
	CategoryID                uint    `json:"category_id"`
	CategoryName              string  `json:"category_name"`
	PredictedAmountCents      int64   `json:"predicted_amount_cents"`
	HistoricalAvgPlannedCents int64   `json:"historical_avg_planned_cents"`
	HistoricalAvgSpentCents   int64   `json:"historical_avg_spent_cents"`
	ConfidenceScore           float64 `json:"confidence_score"`
	TrendDirection            Trend   `json:"trend_direction"`
	Reasoning                 string  `json:"reasoning"`
}

// Predict derives a suggested budget amount for one category from its
// period history. The caller bounds the window (typically the last 12
// periods) and handles the no-history case by omitting the category.
func Predict(categoryID uint, categoryName string, history []HistoryPoint, targetMonth, targetYear int) Prediction {
	n := len(history)

	planned := make([]float64, n)
	spent := make([]float64, n)
	for i, h := range history {
		planned[i] = float64(h.PlannedCents)
		spent[i] = float64(h.SpentCents)
	}

	avgPlanned := mean(planned)
	avgSpent := mean(spent)
	trend := classifyTrend(spent)

	// Favor the most recent spending when there is enough history to
	// have a recent third, otherwise fall back to the overall mean.
	recentSpendAvg := avgSpent
	if n >= 3 {
		recentSpendAvg = mean(spent[n-n/3:])
	}
	predicted := int64(math.Round(recentSpendWeight*recentSpendAvg + plannedWeight*avgPlanned))

	reasons := []string{
		fmt.Sprintf("based on %d historical period(s)", n),
		fmt.Sprintf("average spend %.0f cents vs average planned %.0f cents", avgSpent, avgPlanned),
	}
	switch trend {
	case TrendIncreasing:
		reasons = append(reasons, "spending trend is increasing")
	case TrendDecreasing:
		reasons = append(reasons, "spending trend is decreasing")
	default:
		reasons = append(reasons, "spending trend is stable")
	}
	reasons = append(reasons, fmt.Sprintf("suggested for %04d-%02d", targetYear, targetMonth))

	return Prediction{
		CategoryID:                categoryID,
		CategoryName:              categoryName,
		PredictedAmountCents:      predicted,
		HistoricalAvgPlannedCents: int64(math.Round(avgPlanned)),
		HistoricalAvgSpentCents:   int64(math.Round(avgSpent)),
		ConfidenceScore:           confidence(spent),
		TrendDirection:            trend,
		Reasoning:                 strings.Join(reasons, "; "),
	}
}

// classifyTrend compares the mean of the most recent third of the
// spend series against the mean of the earliest third. Fewer than
// three points cannot form two thirds and read as stable.
func classifyTrend(spent []float64) Trend {
	n := len(spent)
	if n < 3 {
		return TrendStable
	}
	third := n / 3
	earliest := mean(spent[:third])
	recent := mean(spent[n-third:])

	if earliest == 0 {
		if recent > 0 {
			return TrendIncreasing
		}
		return TrendStable
	}
	change := (recent - earliest) / earliest
	switch {
	case change > trendTolerance:
		return TrendIncreasing
	case change < -trendTolerance:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// confidence grows with the number of data points and shrinks with
// their relative variance, bounded to [0, 1]. Below two points the
// history says too little and a low default applies.
func confidence(spent []float64) float64 {
	n := len(spent)
	if n < 2 {
		return 0.3
	}

	base := math.Min(0.9, 0.3+0.08*float64(n))

	m := mean(spent)
	cv := 0.0
	if m > 0 {
		cv = stddev(spent, m) / m
	}
	return clamp(base/(1+cv), 0, 1)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
