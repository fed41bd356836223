// Package fills decides whether a strategy's quote trades against the
// simulated market, in which direction and at what size.
package fills

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"go.uber.org/zap"
)

// Policy selects how the two sides of a quote may fill within one day.
type Policy string

const (
	// PolicyIndependent draws each side as an independent Bernoulli, so both
	// bid and ask may fill the same day.
	PolicyIndependent Policy = "independent"
	// PolicySingle allows at most one fill per day; when both sides draw a
	// fill, the side with the stronger edge wins.
	PolicySingle Policy = "single"
)

// IsValid checks if the Policy value is valid.
func (p Policy) IsValid() bool {
	return p == PolicyIndependent || p == PolicySingle
}

// Config holds the fill model parameters. All of them are run configuration,
// not hidden constants: the fill formula is a modeling choice.
type Config struct {
	// Policy selects the both-sides fill behaviour.
	Policy Policy
	// BaseFillProb is the per-side fill probability ceiling on a routine day.
	BaseFillProb float64
	// EdgeThreshold is the distance from mid, in units of the day's sigma
	// band, at which a side fills with half the base probability.
	EdgeThreshold float64
	// EdgeSoftness is the logistic width of the fill curve in sigma units.
	EdgeSoftness float64
	// DefaultSize is the fill size applied when the quote carries no size.
	DefaultSize decimal.Decimal
	// ShockProbBoost multiplies fill probability on spike/crash days.
	ShockProbBoost float64
	// ShockSizeBoost multiplies fill size on spike/crash days.
	ShockSizeBoost decimal.Decimal
}

// DefaultConfig returns the standard fill model parameters.
func DefaultConfig() Config {
	return Config{
		Policy:         PolicyIndependent,
		BaseFillProb:   0.9,
		EdgeThreshold:  1.0,
		EdgeSoftness:   0.5,
		DefaultSize:    decimal.NewFromInt(1),
		ShockProbBoost: 1.5,
		ShockSizeBoost: decimal.NewFromInt(2),
	}
}

func (c Config) validate() error {
	if !c.Policy.IsValid() {
		return errors.Errorf("unknown fill policy: %s", c.Policy)
	}
	if c.BaseFillProb <= 0 || c.BaseFillProb > 1 {
		return errors.Errorf("base fill probability must be in (0,1], got %f", c.BaseFillProb)
	}
	if c.EdgeSoftness <= 0 {
		return errors.Errorf("edge softness must be positive, got %f", c.EdgeSoftness)
	}
	if !c.DefaultSize.IsPositive() {
		return errors.Errorf("default size must be positive, got %s", c.DefaultSize.String())
	}
	return nil
}

// Evaluator is the per-day quote-to-fill model. It is stateless across days
// except for its seeded random stream.
type Evaluator struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger
}

// NewEvaluator creates an evaluator with its own seeded random stream so fill
// decisions replay identically for the same seed.
func NewEvaluator(cfg Config, seed int64, logger *zap.Logger) (*Evaluator, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid fill config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}, nil
}

// Evaluate decides the day's trades for the quote. A crossed or non-positive
// quote is a strategy fault: it is returned as an error, never silently
// fixed, and the day yields a single no-trade outcome.
func (e *Evaluator) Evaluate(state domain.MarketState, quote domain.Quote) ([]domain.TradeOutcome, error) {
	if err := quote.Validate(); err != nil {
		e.logger.Warn("invalid quote rejected",
			zap.Int("day", state.Day),
			zap.String("quote", quote.String()),
			zap.Error(err))
		return []domain.TradeOutcome{domain.NoTrade()}, err
	}

	pBid, pAsk := e.FillProbabilities(state, quote)

	// both uniforms are always drawn so the random stream does not depend on
	// the policy or the probabilities
	uBid := e.rng.Float64()
	uAsk := e.rng.Float64()
	bidFills := uBid < pBid
	askFills := uAsk < pAsk

	if e.cfg.Policy == PolicySingle && bidFills && askFills {
		if pBid >= pAsk {
			askFills = false
		} else {
			bidFills = false
		}
	}

	size := e.cfg.DefaultSize
	if quote.Size.IsPositive() {
		size = quote.Size
	}
	if state.Event.IsShock() {
		size = size.Mul(e.cfg.ShockSizeBoost)
	}

	var outcomes []domain.TradeOutcome
	if bidFills {
		outcomes = append(outcomes, domain.TradeOutcome{Side: domain.SideBuy, FillPrice: quote.Bid, FillSize: size})
	}
	if askFills {
		outcomes = append(outcomes, domain.TradeOutcome{Side: domain.SideSell, FillPrice: quote.Ask, FillSize: size})
	}
	if len(outcomes) == 0 {
		outcomes = append(outcomes, domain.NoTrade())
	}
	return outcomes, nil
}

// FillProbabilities returns the per-side fill probabilities for the quote
// against the day's fair trading range. The probability is a logistic curve
// in the quote's distance from mid measured in sigma bands (mid*volatility):
// a bid at or above mid fills near the ceiling, a bid a full band below mid
// fills with half the ceiling, and farther quotes decay toward zero. Tighter
// spreads around the same midpoint therefore fill strictly more often.
func (e *Evaluator) FillProbabilities(state domain.MarketState, quote domain.Quote) (pBid, pAsk float64) {
	mid := state.MidPrice.InexactFloat64()
	vol := state.Volatility
	if vol < 1e-9 {
		vol = 1e-9
	}
	band := mid * vol

	zBid := (quote.Bid.InexactFloat64() - mid) / band
	zAsk := (mid - quote.Ask.InexactFloat64()) / band

	pBid = e.cfg.BaseFillProb * logistic((zBid+e.cfg.EdgeThreshold)/e.cfg.EdgeSoftness)
	pAsk = e.cfg.BaseFillProb * logistic((zAsk+e.cfg.EdgeThreshold)/e.cfg.EdgeSoftness)

	// liquidity demand spikes on event days, stress-testing spread discipline
	if state.Event.IsShock() {
		pBid = capProb(pBid * e.cfg.ShockProbBoost)
		pAsk = capProb(pAsk * e.cfg.ShockProbBoost)
	}
	return pBid, pAsk
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func capProb(p float64) float64 {
	if p > 1 {
		return 1
	}
	return p
}
