// Package planning contains the budget progress core: money parsing,
// the category tree, transaction matching, progress aggregation, and
// the next-budget estimator. Everything here is a pure function over
// already-loaded data; persistence and transport live elsewhere.
package planning

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/errors"
)

// ParseAmount converts a decimal money string such as "12.50" into
// integer cents. Values beyond two decimal places are rounded
// half-away-from-zero, which is decimal.Round's behavior. The same
// function must be used everywhere decimal input becomes cents so
// that independently derived totals never drift by a cent.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInvalidAmount, err)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
