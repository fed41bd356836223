package strategy

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/internal/services/ledger"
)

// FixedSpreadMaker quotes a constant fraction of mid on each side, ignoring
// volatility. A useful baseline: tight in calm regimes, reckless in storms.
type FixedSpreadMaker struct {
	fraction decimal.Decimal
}

// NewFixedSpreadMaker creates a FixedSpreadMaker quoting
// bid = mid*(1-fraction), ask = mid*(1+fraction).
func NewFixedSpreadMaker(fraction decimal.Decimal) (*FixedSpreadMaker, error) {
	if fraction.LessThanOrEqual(decimal.Zero) || fraction.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, errors.Errorf("fraction must be in (0,1), got %s", fraction.String())
	}
	return &FixedSpreadMaker{fraction: fraction}, nil
}

// Name implements MarketMaker.
func (f *FixedSpreadMaker) Name() string { return "FixedSpreadMaker" }

// MakeMarket implements MarketMaker.
func (f *FixedSpreadMaker) MakeMarket(state domain.MarketState, _ ledger.View) (domain.Quote, error) {
	one := decimal.NewFromInt(1)
	return domain.Quote{
		Bid: state.MidPrice.Mul(one.Sub(f.fraction)),
		Ask: state.MidPrice.Mul(one.Add(f.fraction)),
	}, nil
}
