// Package strategy contains the market-making strategies that quote against
// the simulated market, and the factory that selects one by name.
package strategy

import (
	"github.com/pkg/errors"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/internal/services/ledger"
)

// ErrNoQuote is returned by a strategy that declines to quote for the day.
// The day is recorded as no-trade and the run continues.
var ErrNoQuote = errors.New("strategy declined to quote")

// MarketMaker quotes a two-sided price for each trading day. Implementations
// receive the day's market state and read-only access to the ledger so far,
// and must not share state with the engine.
type MarketMaker interface {
	// Name identifies the strategy in reports and logs.
	Name() string
	// MakeMarket returns the day's quote, or ErrNoQuote to sit the day out.
	MakeMarket(state domain.MarketState, view ledger.View) (domain.Quote, error)
}
