package strategy

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/internal/services/ledger"
)

// AdaptiveSpreadMaker scales its spread with the volatility regime and pulls
// its quotes entirely on crash days instead of pricing into the panic.
type AdaptiveSpreadMaker struct {
	baseMultiplier decimal.Decimal
	referenceVol   float64
	maxWidening    decimal.Decimal
}

// NewAdaptiveSpreadMaker creates an AdaptiveSpreadMaker. referenceVol is the
// volatility at which the base multiplier applies unchanged; higher regimes
// widen the spread proportionally up to maxWidening times.
func NewAdaptiveSpreadMaker(baseMultiplier decimal.Decimal, referenceVol float64, maxWidening decimal.Decimal) (*AdaptiveSpreadMaker, error) {
	if baseMultiplier.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("base multiplier must be positive, got %s", baseMultiplier.String())
	}
	if referenceVol <= 0 {
		return nil, errors.Errorf("reference volatility must be positive, got %f", referenceVol)
	}
	if maxWidening.LessThan(decimal.NewFromInt(1)) {
		return nil, errors.Errorf("max widening must be at least 1, got %s", maxWidening.String())
	}
	return &AdaptiveSpreadMaker{
		baseMultiplier: baseMultiplier,
		referenceVol:   referenceVol,
		maxWidening:    maxWidening,
	}, nil
}

// Name implements MarketMaker.
func (m *AdaptiveSpreadMaker) Name() string { return "AdaptiveSpreadMaker" }

// MakeMarket implements MarketMaker.
func (m *AdaptiveSpreadMaker) MakeMarket(state domain.MarketState, _ ledger.View) (domain.Quote, error) {
	if state.Event == domain.EventCrash {
		return domain.Quote{}, ErrNoQuote
	}

	widening := decimal.NewFromFloat(state.Volatility / m.referenceVol)
	one := decimal.NewFromInt(1)
	if widening.LessThan(one) {
		widening = one
	}
	if widening.GreaterThan(m.maxWidening) {
		widening = m.maxWidening
	}

	mid := state.MidPrice
	spread := mid.Mul(decimal.NewFromFloat(state.Volatility)).Mul(m.baseMultiplier).Mul(widening)

	bid := mid.Sub(spread)
	if bid.LessThan(minBid) {
		bid = minBid
	}
	return domain.Quote{Bid: bid, Ask: mid.Add(spread)}, nil
}
