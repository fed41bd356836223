package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quote is a market maker's two-sided price for a single day. Produced by the
// strategy, consumed by the quote evaluator, not retained beyond the day.
type Quote struct {
	// Bid is the price at which the market maker buys.
	Bid decimal.Decimal `json:"bid"`
	// Ask is the price at which the market maker sells.
	Ask decimal.Decimal `json:"ask"`
	// Size caps the fill size per side. Zero means the run's default size.
	Size decimal.Decimal `json:"size,omitempty"`
}

// Mid returns the quote midpoint.
func (q Quote) Mid() decimal.Decimal {
	return q.Bid.Add(q.Ask).Div(decimal.NewFromInt(2))
}

// Spread returns ask minus bid.
func (q Quote) Spread() decimal.Decimal {
	return q.Ask.Sub(q.Bid)
}

// Validate checks the quote against the market maker contract. A violation is
// a strategy fault: the evaluator reports it and treats the day as no-trade.
func (q Quote) Validate() error {
	if q.Bid.LessThanOrEqual(decimal.Zero) || q.Ask.LessThanOrEqual(decimal.Zero) {
		return NewStrategyFault("non_positive_quote",
			fmt.Sprintf("bid=%s ask=%s", q.Bid.String(), q.Ask.String()))
	}
	if q.Bid.GreaterThan(q.Ask) {
		return NewStrategyFault("crossed_quote",
			fmt.Sprintf("bid %s > ask %s", q.Bid.String(), q.Ask.String()))
	}
	if q.Size.IsNegative() {
		return NewStrategyFault("negative_size", fmt.Sprintf("size=%s", q.Size.String()))
	}
	return nil
}

// String returns a human-readable string representation.
func (q Quote) String() string {
	return fmt.Sprintf("bid=%s ask=%s", q.Bid.StringFixed(2), q.Ask.StringFixed(2))
}
