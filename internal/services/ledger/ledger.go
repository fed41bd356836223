// Package ledger tracks inventory, cash and profit-and-loss across a
// simulation run and produces the per-day snapshots.
package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"go.uber.org/zap"
)

// View is the read-only ledger access handed to strategies.
type View interface {
	// Inventory returns the current signed position, positive means net long.
	Inventory() decimal.Decimal
	// Cash returns the current cash balance.
	Cash() decimal.Decimal
	// InitialCapital returns the run's starting cash.
	InitialCapital() decimal.Decimal
	// History returns the per-day snapshots recorded so far.
	History() []domain.LedgerSnapshot
}

// Ledger is the only accumulating state of a run. It is exclusively owned
// and mutated by the simulation loop, once per day.
//
// Realized P&L follows the average-cost convention: trades that reduce the
// absolute inventory realize the difference between the fill price and the
// average cost of the position; crossing zero restarts the basis at the fill
// price. Unrealized P&L marks the remaining inventory against the day's mid.
// The accounting identity
//
//	cash + inventory*mid == initialCapital + realized + unrealized
//
// holds after every update.
type Ledger struct {
	runID          string
	initialCapital decimal.Decimal
	inventory      decimal.Decimal
	cash           decimal.Decimal
	avgCost        decimal.Decimal
	realized       decimal.Decimal
	prevTotalPnL   decimal.Decimal
	history        []domain.LedgerSnapshot
	logger         *zap.Logger
}

// New creates a ledger holding the run's starting capital in cash.
func New(runID string, initialCapital decimal.Decimal, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		runID:          runID,
		initialCapital: initialCapital,
		inventory:      decimal.Zero,
		cash:           initialCapital,
		avgCost:        decimal.Zero,
		realized:       decimal.Zero,
		prevTotalPnL:   decimal.Zero,
		logger:         logger,
	}
}

// Inventory returns the current signed position.
func (l *Ledger) Inventory() decimal.Decimal { return l.inventory }

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal { return l.cash }

// InitialCapital returns the run's starting cash.
func (l *Ledger) InitialCapital() decimal.Decimal { return l.initialCapital }

// History returns the per-day snapshots recorded so far.
func (l *Ledger) History() []domain.LedgerSnapshot { return l.history }

// Update applies the day's trades, marks the book to the day's mid price and
// appends an immutable snapshot to the history. fault flags the day as a
// strategy fault; the outcomes of a faulted day must be no-trade.
func (l *Ledger) Update(state domain.MarketState, quote *domain.Quote, outcomes []domain.TradeOutcome, fault *domain.StrategyFault) domain.LedgerSnapshot {
	for _, outcome := range outcomes {
		if !outcome.Filled() {
			continue
		}
		l.apply(outcome)
		l.logger.Debug("trade applied",
			zap.Int("day", state.Day),
			zap.String("side", outcome.Side.String()),
			zap.String("price", outcome.FillPrice.String()),
			zap.String("size", outcome.FillSize.String()),
			zap.String("inventory", l.inventory.String()))
	}

	unrealized := l.inventory.Mul(state.MidPrice.Sub(l.avgCost))
	totalPnL := l.realized.Add(unrealized)
	dailyPnL := totalPnL.Sub(l.prevTotalPnL)
	l.prevTotalPnL = totalPnL

	snapshot := domain.LedgerSnapshot{
		RunID:         l.runID,
		Day:           state.Day,
		State:         state,
		Quote:         quote,
		Outcomes:      outcomes,
		Inventory:     l.inventory,
		Cash:          l.cash,
		AvgCost:       l.avgCost,
		RealizedPnL:   l.realized,
		UnrealizedPnL: unrealized,
		DailyPnL:      dailyPnL,
	}
	if fault != nil {
		snapshot.Fault = fault.Reason
		snapshot.FaultDetail = fault.Detail
	}

	l.history = append(l.history, snapshot)
	return snapshot
}

// apply books one fill using average-cost accounting.
func (l *Ledger) apply(outcome domain.TradeOutcome) {
	price := outcome.FillPrice
	size := outcome.FillSize

	switch outcome.Side {
	case domain.SideBuy:
		l.cash = l.cash.Sub(price.Mul(size))
		l.increase(price, size)
	case domain.SideSell:
		l.cash = l.cash.Add(price.Mul(size))
		l.increase(price, size.Neg())
	}
}

// increase shifts inventory by the signed delta, realizing P&L on the part
// that reduces the absolute position.
func (l *Ledger) increase(price, delta decimal.Decimal) {
	inv := l.inventory
	sameDirection := inv.IsZero() || inv.Sign() == delta.Sign()
	if sameDirection {
		total := inv.Add(delta)
		if !total.IsZero() {
			existing := l.avgCost.Mul(inv)
			added := price.Mul(delta)
			l.avgCost = existing.Add(added).Div(total)
		}
		l.inventory = total
		return
	}

	// delta opposes the position: reduce first, then flip the remainder
	reduce := delta.Abs()
	if reduce.GreaterThan(inv.Abs()) {
		reduce = inv.Abs()
	}
	// long reduced by a sell realizes price-avgCost, short reduced by a buy
	// realizes avgCost-price
	if inv.Sign() > 0 {
		l.realized = l.realized.Add(price.Sub(l.avgCost).Mul(reduce))
	} else {
		l.realized = l.realized.Add(l.avgCost.Sub(price).Mul(reduce))
	}

	remainder := delta.Abs().Sub(reduce)
	l.inventory = inv.Add(decimal.NewFromInt(int64(-inv.Sign())).Mul(reduce))
	if l.inventory.IsZero() {
		l.avgCost = decimal.Zero
	}
	if remainder.IsPositive() {
		// crossing zero restarts the basis at the fill price
		l.inventory = remainder.Mul(decimal.NewFromInt(int64(delta.Sign())))
		l.avgCost = price
	}
}

// IdentityGap returns cash + inventory*mid - initialCapital - realized -
// unrealized for the given mid, zero in exact arithmetic. Exposed so tests
// and the loop can assert the accounting identity.
func (l *Ledger) IdentityGap(mid decimal.Decimal) decimal.Decimal {
	unrealized := l.inventory.Mul(mid.Sub(l.avgCost))
	lhs := l.cash.Add(l.inventory.Mul(mid))
	rhs := l.initialCapital.Add(l.realized).Add(unrealized)
	return lhs.Sub(rhs)
}
