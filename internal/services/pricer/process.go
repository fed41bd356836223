// Package pricer generates the daily market price and volatility path for a
// simulation run, including injected market events.
package pricer

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"go.uber.org/zap"
)

const (
	// minFactor and maxFactor bound the daily multiplicative price move so a
	// single gaussian draw cannot halve-to-zero or blow up the path.
	minFactor = 0.5
	maxFactor = 2.0
)

// Config holds the price process parameters.
type Config struct {
	// StartPrice is the day-0 mid price.
	StartPrice decimal.Decimal
	// StartVolatility is the day-0 daily return standard deviation.
	StartVolatility float64
	// VolTarget is the long-run volatility the process reverts toward.
	VolTarget float64
	// VolMeanReversion is the fraction of the gap to VolTarget closed per day.
	VolMeanReversion float64
	// VolOfVol scales the gaussian perturbation applied to volatility daily.
	VolOfVol float64
	// EventProbability is the per-day chance of an injected market event.
	EventProbability float64
	// ShockDecayDays is how many days an elevated crash volatility bleeds off.
	ShockDecayDays int
	// ShockDecay multiplies volatility on each decay day after a crash.
	ShockDecay float64
	// MinPrice is the floor below which the mid price is clamped.
	MinPrice decimal.Decimal
	// MinVolatility is the floor below which volatility is clamped.
	MinVolatility float64
}

// DefaultConfig returns process parameters matching the standard run:
// price 100, daily volatility 0.02.
func DefaultConfig() Config {
	return Config{
		StartPrice:       decimal.NewFromInt(100),
		StartVolatility:  0.02,
		VolTarget:        0.02,
		VolMeanReversion: 0.1,
		VolOfVol:         0.1,
		EventProbability: 0.05,
		ShockDecayDays:   3,
		ShockDecay:       0.9,
		MinPrice:         decimal.NewFromFloat(0.01),
		MinVolatility:    0.001,
	}
}

func (c Config) validate() error {
	if c.StartPrice.LessThanOrEqual(decimal.Zero) {
		return errors.Errorf("start price must be positive, got %s", c.StartPrice.String())
	}
	if c.StartVolatility < 0 {
		return errors.Errorf("start volatility must be non-negative, got %f", c.StartVolatility)
	}
	if c.EventProbability < 0 || c.EventProbability > 1 {
		return errors.Errorf("event probability must be in [0,1], got %f", c.EventProbability)
	}
	if c.MinPrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("min price must be positive")
	}
	return nil
}

// Process produces MarketState day by day. Given the same seed the full path
// is reproducible, so strategy comparisons stay fair and tests deterministic.
type Process struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger

	state     domain.MarketState
	shockLeft int
	forced    map[int]domain.EventKind
}

// NewProcess creates a price process seeded for one run. Day 0 carries the
// configured start price and volatility with no event.
func NewProcess(cfg Config, seed int64, logger *zap.Logger) (*Process, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid price process config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Process{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
		state: domain.MarketState{
			Day:        0,
			MidPrice:   cfg.StartPrice,
			Volatility: cfg.StartVolatility,
			Event:      domain.EventNone,
		},
		forced: make(map[int]domain.EventKind),
	}, nil
}

// Current returns the market state of the last generated day.
func (p *Process) Current() domain.MarketState {
	return p.state
}

// ForceEvent schedules a deterministic event for the given day, overriding
// the random draw. Used for stress scenarios and tests.
func (p *Process) ForceEvent(day int, kind domain.EventKind) {
	p.forced[day] = kind
}

// Next advances the process one trading day and returns the new state.
//
// The daily return is drawn from a gaussian parameterized by the previous
// day's volatility and applied log-normally, with the resulting factor
// clamped so no single day halves the price or doubles it. Volatility
// mean-reverts toward the target with its own gaussian perturbation.
func (p *Process) Next() domain.MarketState {
	prev := p.state
	day := prev.Day + 1

	vol := prev.Volatility
	vol += p.cfg.VolMeanReversion*(p.cfg.VolTarget-vol) + p.cfg.VolOfVol*p.rng.NormFloat64()*vol
	if p.shockLeft > 0 {
		vol *= p.cfg.ShockDecay
		p.shockLeft--
	}
	if vol < p.cfg.MinVolatility {
		vol = p.cfg.MinVolatility
	}

	dailyReturn := p.rng.NormFloat64() * prev.Volatility
	factor := math.Exp(dailyReturn)
	if factor < minFactor {
		factor = minFactor
	}
	if factor > maxFactor {
		factor = maxFactor
	}
	price := prev.MidPrice.Mul(decimal.NewFromFloat(factor))

	event := domain.EventNone
	if kind, ok := p.forced[day]; ok {
		event = kind
	} else if p.rng.Float64() < p.cfg.EventProbability {
		event = p.randomEvent()
	}
	price, vol = p.applyEvent(event, price, vol)

	if price.LessThan(p.cfg.MinPrice) {
		fault := &domain.ProcessFault{Reason: "price_floor", Detail: price.String()}
		p.logger.Warn("price clamped to minimum tick",
			zap.Int("day", day),
			zap.String("price", price.String()),
			zap.Error(fault))
		price = p.cfg.MinPrice
	}
	if vol < p.cfg.MinVolatility {
		vol = p.cfg.MinVolatility
	}

	p.state = domain.MarketState{
		Day:        day,
		MidPrice:   price,
		Volatility: vol,
		Event:      event,
	}
	return p.state
}

func (p *Process) randomEvent() domain.EventKind {
	events := []domain.EventKind{domain.EventSpike, domain.EventCrash, domain.EventBullRun, domain.EventCalm}
	return events[p.rng.Intn(len(events))]
}

// applyEvent overrides the routine draw with a discontinuous move. Crash and
// spike factors follow the classic challenge catalog: crash drops the price
// 20% and shocks volatility with a multi-day decay, a spike jumps the price
// 15% either way and doubles volatility.
func (p *Process) applyEvent(event domain.EventKind, price decimal.Decimal, vol float64) (decimal.Decimal, float64) {
	switch event {
	case domain.EventCrash:
		price = price.Mul(decimal.NewFromFloat(0.8))
		vol *= 1.5
		p.shockLeft = p.cfg.ShockDecayDays
	case domain.EventSpike:
		jump := decimal.NewFromFloat(1.15)
		if p.rng.Float64() < 0.5 {
			jump = decimal.NewFromFloat(0.85)
		}
		price = price.Mul(jump)
		vol *= 2
	case domain.EventBullRun:
		price = price.Mul(decimal.NewFromFloat(1.2))
		vol *= 1.2
	case domain.EventCalm:
		vol *= 0.5
	}
	return price, vol
}
