package strategy

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/internal/services/ledger"
)

// minBid keeps the bid strictly positive whatever the volatility draw.
var minBid = decimal.NewFromFloat(0.01)

// SimpleMaker quotes a symmetric spread proportional to the day's volatility.
type SimpleMaker struct {
	spreadMultiplier decimal.Decimal
}

// NewSimpleMaker creates a SimpleMaker. The spread on each side is
// mid * volatility * spreadMultiplier.
func NewSimpleMaker(spreadMultiplier decimal.Decimal) (*SimpleMaker, error) {
	if spreadMultiplier.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("spread multiplier must be positive, got %s", spreadMultiplier.String())
	}
	return &SimpleMaker{spreadMultiplier: spreadMultiplier}, nil
}

// Name implements MarketMaker.
func (s *SimpleMaker) Name() string { return "SimpleMaker" }

// MakeMarket implements MarketMaker.
func (s *SimpleMaker) MakeMarket(state domain.MarketState, _ ledger.View) (domain.Quote, error) {
	mid := state.MidPrice
	spread := mid.Mul(decimal.NewFromFloat(state.Volatility)).Mul(s.spreadMultiplier)

	bid := mid.Sub(spread)
	if bid.LessThan(minBid) {
		bid = minBid
	}
	return domain.Quote{Bid: bid, Ask: mid.Add(spread)}, nil
}
