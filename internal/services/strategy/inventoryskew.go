package strategy

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/internal/services/ledger"
)

// InventorySkewMaker quotes a volatility-proportional spread whose midpoint
// leans against the current inventory: long books shade both prices down to
// attract sellers of risk, short books shade them up. The skew saturates at
// the inventory limit.
type InventorySkewMaker struct {
	spreadMultiplier decimal.Decimal
	skewMultiplier   decimal.Decimal
	inventoryLimit   decimal.Decimal
}

// NewInventorySkewMaker creates an InventorySkewMaker. inventoryLimit is the
// absolute position at which the skew reaches its full strength.
func NewInventorySkewMaker(spreadMultiplier, skewMultiplier, inventoryLimit decimal.Decimal) (*InventorySkewMaker, error) {
	if spreadMultiplier.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("spread multiplier must be positive, got %s", spreadMultiplier.String())
	}
	if skewMultiplier.IsNegative() {
		return nil, errors.Errorf("skew multiplier must be non-negative, got %s", skewMultiplier.String())
	}
	if inventoryLimit.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("inventory limit must be positive, got %s", inventoryLimit.String())
	}
	return &InventorySkewMaker{
		spreadMultiplier: spreadMultiplier,
		skewMultiplier:   skewMultiplier,
		inventoryLimit:   inventoryLimit,
	}, nil
}

// Name implements MarketMaker.
func (m *InventorySkewMaker) Name() string { return "InventorySkewMaker" }

// MakeMarket implements MarketMaker.
func (m *InventorySkewMaker) MakeMarket(state domain.MarketState, view ledger.View) (domain.Quote, error) {
	mid := state.MidPrice
	vol := decimal.NewFromFloat(state.Volatility)
	spread := mid.Mul(vol).Mul(m.spreadMultiplier)

	// ratio in [-1, 1]: how loaded the book is relative to the limit
	ratio := view.Inventory().Div(m.inventoryLimit)
	one := decimal.NewFromInt(1)
	if ratio.GreaterThan(one) {
		ratio = one
	}
	if ratio.LessThan(one.Neg()) {
		ratio = one.Neg()
	}

	skew := mid.Mul(vol).Mul(m.skewMultiplier).Mul(ratio)
	center := mid.Sub(skew)

	bid := center.Sub(spread)
	if bid.LessThan(minBid) {
		bid = minBid
	}
	return domain.Quote{Bid: bid, Ask: center.Add(spread)}, nil
}
