package fills

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/makersim/internal/domain"
	"go.uber.org/zap"
)

func routineDay() domain.MarketState {
	return domain.MarketState{
		Day:        1,
		MidPrice:   decimal.NewFromInt(100),
		Volatility: 0.02,
		Event:      domain.EventNone,
	}
}

// alwaysFillConfig pushes the fill probability of any sane quote to 1 so the
// outcome does not depend on the random draw.
func alwaysFillConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseFillProb = 1
	cfg.EdgeThreshold = 50
	return cfg
}

func TestNewEvaluatorRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = "both"
	_, err := NewEvaluator(cfg, 1, zap.NewNop())
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.BaseFillProb = 0
	_, err = NewEvaluator(cfg, 1, zap.NewNop())
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.DefaultSize = decimal.Zero
	_, err = NewEvaluator(cfg, 1, zap.NewNop())
	require.Error(t, err)
}

func TestCrossedQuoteIsStrategyFault(t *testing.T) {
	e, err := NewEvaluator(DefaultConfig(), 1, zap.NewNop())
	require.NoError(t, err)

	quote := domain.Quote{Bid: decimal.NewFromInt(101), Ask: decimal.NewFromInt(99)}
	outcomes, err := e.Evaluate(routineDay(), quote)
	require.Error(t, err)
	require.True(t, domain.IsStrategyFault(err))
	require.Equal(t, "crossed_quote", domain.AsStrategyFault(err).Reason)
	require.Len(t, outcomes, 1)
	require.Equal(t, domain.SideNone, outcomes[0].Side)
}

func TestNonPositiveQuoteIsStrategyFault(t *testing.T) {
	e, err := NewEvaluator(DefaultConfig(), 1, zap.NewNop())
	require.NoError(t, err)

	quote := domain.Quote{Bid: decimal.Zero, Ask: decimal.NewFromInt(99)}
	outcomes, err := e.Evaluate(routineDay(), quote)
	require.Error(t, err)
	require.Equal(t, "non_positive_quote", domain.AsStrategyFault(err).Reason)
	require.Equal(t, domain.SideNone, outcomes[0].Side)
}

func TestIndependentPolicyMayFillBothSides(t *testing.T) {
	e, err := NewEvaluator(alwaysFillConfig(), 1, zap.NewNop())
	require.NoError(t, err)

	quote := domain.Quote{Bid: decimal.NewFromInt(99), Ask: decimal.NewFromInt(101)}
	outcomes, err := e.Evaluate(routineDay(), quote)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.Equal(t, domain.SideBuy, outcomes[0].Side)
	require.True(t, outcomes[0].FillPrice.Equal(quote.Bid))
	require.Equal(t, domain.SideSell, outcomes[1].Side)
	require.True(t, outcomes[1].FillPrice.Equal(quote.Ask))
}

func TestSinglePolicyFillsAtMostOneSide(t *testing.T) {
	cfg := alwaysFillConfig()
	cfg.Policy = PolicySingle
	e, err := NewEvaluator(cfg, 1, zap.NewNop())
	require.NoError(t, err)

	quote := domain.Quote{Bid: decimal.NewFromInt(100), Ask: decimal.NewFromInt(105)}
	for i := 0; i < 50; i++ {
		outcomes, err := e.Evaluate(routineDay(), quote)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		// the bid sits at mid, the stronger edge, so it wins the conflict
		require.Equal(t, domain.SideBuy, outcomes[0].Side)
	}
}

func TestQuoteSizeOverridesDefault(t *testing.T) {
	e, err := NewEvaluator(alwaysFillConfig(), 1, zap.NewNop())
	require.NoError(t, err)

	quote := domain.Quote{
		Bid:  decimal.NewFromInt(99),
		Ask:  decimal.NewFromInt(101),
		Size: decimal.NewFromInt(5),
	}
	outcomes, err := e.Evaluate(routineDay(), quote)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.True(t, outcomes[0].FillSize.Equal(decimal.NewFromInt(5)))
}

func TestShockDayBoostsSize(t *testing.T) {
	e, err := NewEvaluator(alwaysFillConfig(), 1, zap.NewNop())
	require.NoError(t, err)

	state := routineDay()
	state.Event = domain.EventCrash
	quote := domain.Quote{Bid: decimal.NewFromInt(99), Ask: decimal.NewFromInt(101)}

	outcomes, err := e.Evaluate(state, quote)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.True(t, outcomes[0].FillSize.Equal(decimal.NewFromInt(2)),
		"shock doubles the default size, got %s", outcomes[0].FillSize)
}

func TestFillProbabilitiesTighterSpreadFillsMore(t *testing.T) {
	e, err := NewEvaluator(DefaultConfig(), 1, zap.NewNop())
	require.NoError(t, err)
	state := routineDay()

	tight := domain.Quote{Bid: decimal.NewFromFloat(99.9), Ask: decimal.NewFromFloat(100.1)}
	wide := domain.Quote{Bid: decimal.NewFromInt(98), Ask: decimal.NewFromInt(102)}

	tightBid, tightAsk := e.FillProbabilities(state, tight)
	wideBid, wideAsk := e.FillProbabilities(state, wide)

	require.Greater(t, tightBid, wideBid)
	require.Greater(t, tightAsk, wideAsk)
}

func TestFillProbabilitiesShockBoost(t *testing.T) {
	e, err := NewEvaluator(DefaultConfig(), 1, zap.NewNop())
	require.NoError(t, err)

	quote := domain.Quote{Bid: decimal.NewFromInt(98), Ask: decimal.NewFromInt(102)}

	routineBid, routineAsk := e.FillProbabilities(routineDay(), quote)

	shocked := routineDay()
	shocked.Event = domain.EventSpike
	shockBid, shockAsk := e.FillProbabilities(shocked, quote)

	require.Greater(t, shockBid, routineBid)
	require.Greater(t, shockAsk, routineAsk)
	require.LessOrEqual(t, shockBid, 1.0)
	require.LessOrEqual(t, shockAsk, 1.0)
}

func TestTighterSpreadNeverFillsLessOnSharedStream(t *testing.T) {
	// both evaluators consume the identical uniform stream, so a pointwise
	// higher probability can only produce more fills
	tightEval, err := NewEvaluator(DefaultConfig(), 42, zap.NewNop())
	require.NoError(t, err)
	wideEval, err := NewEvaluator(DefaultConfig(), 42, zap.NewNop())
	require.NoError(t, err)

	state := routineDay()
	tight := domain.Quote{Bid: decimal.NewFromFloat(99.5), Ask: decimal.NewFromFloat(100.5)}
	wide := domain.Quote{Bid: decimal.NewFromInt(97), Ask: decimal.NewFromInt(103)}

	tightFills, wideFills := 0, 0
	for i := 0; i < 500; i++ {
		outcomes, err := tightEval.Evaluate(state, tight)
		require.NoError(t, err)
		for _, o := range outcomes {
			if o.Filled() {
				tightFills++
			}
		}

		outcomes, err = wideEval.Evaluate(state, wide)
		require.NoError(t, err)
		for _, o := range outcomes {
			if o.Filled() {
				wideFills++
			}
		}
	}
	require.GreaterOrEqual(t, tightFills, wideFills)
	require.Positive(t, tightFills)
}

func TestEvaluateDeterministicForSeed(t *testing.T) {
	a, err := NewEvaluator(DefaultConfig(), 99, zap.NewNop())
	require.NoError(t, err)
	b, err := NewEvaluator(DefaultConfig(), 99, zap.NewNop())
	require.NoError(t, err)

	state := routineDay()
	quote := domain.Quote{Bid: decimal.NewFromFloat(99.2), Ask: decimal.NewFromFloat(100.8)}

	for i := 0; i < 100; i++ {
		oa, err := a.Evaluate(state, quote)
		require.NoError(t, err)
		ob, err := b.Evaluate(state, quote)
		require.NoError(t, err)
		require.Equal(t, oa, ob)
	}
}
