package strategy

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// default parameters applied when a strategy is selected by name only
var (
	defaultSpreadMultiplier = decimal.NewFromFloat(2)
	defaultFixedFraction    = decimal.NewFromFloat(0.005)
	defaultSkewMultiplier   = decimal.NewFromFloat(1)
	defaultInventoryLimit   = decimal.NewFromInt(100)
	defaultReferenceVol     = 0.02
	defaultMaxWidening      = decimal.NewFromInt(4)
)

// New creates the market maker selected by name. An unknown name falls back
// to SimpleMaker with a warning rather than failing the run.
func New(name string, logger *zap.Logger) (MarketMaker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch name {
	case "", "SimpleMaker":
		return NewSimpleMaker(defaultSpreadMultiplier)
	case "FixedSpreadMaker":
		return NewFixedSpreadMaker(defaultFixedFraction)
	case "InventorySkewMaker":
		return NewInventorySkewMaker(defaultSpreadMultiplier, defaultSkewMultiplier, defaultInventoryLimit)
	case "AdaptiveSpreadMaker":
		return NewAdaptiveSpreadMaker(defaultSpreadMultiplier, defaultReferenceVol, defaultMaxWidening)
	default:
		logger.Warn("unknown market maker, falling back to SimpleMaker", zap.String("name", name))
		maker, err := NewSimpleMaker(defaultSpreadMultiplier)
		if err != nil {
			return nil, errors.Wrap(err, "create fallback strategy")
		}
		return maker, nil
	}
}

// Names lists the strategies the factory can build.
func Names() []string {
	return []string{"SimpleMaker", "FixedSpreadMaker", "InventorySkewMaker", "AdaptiveSpreadMaker"}
}
