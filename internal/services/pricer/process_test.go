package pricer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/makersim/internal/domain"
	"go.uber.org/zap"
)

func TestNewProcessRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartPrice = decimal.Zero
	_, err := NewProcess(cfg, 1, zap.NewNop())
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.EventProbability = 1.5
	_, err = NewProcess(cfg, 1, zap.NewNop())
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.StartVolatility = -0.1
	_, err = NewProcess(cfg, 1, zap.NewNop())
	require.Error(t, err)
}

func TestDayZeroCarriesStartState(t *testing.T) {
	cfg := DefaultConfig()
	p, err := NewProcess(cfg, 42, zap.NewNop())
	require.NoError(t, err)

	state := p.Current()
	require.Equal(t, 0, state.Day)
	require.True(t, state.MidPrice.Equal(cfg.StartPrice))
	require.Equal(t, cfg.StartVolatility, state.Volatility)
	require.Equal(t, domain.EventNone, state.Event)
}

func TestPathIsDeterministicForSeed(t *testing.T) {
	a, err := NewProcess(DefaultConfig(), 42, zap.NewNop())
	require.NoError(t, err)
	b, err := NewProcess(DefaultConfig(), 42, zap.NewNop())
	require.NoError(t, err)

	for day := 1; day <= 63; day++ {
		sa := a.Next()
		sb := b.Next()
		require.Equal(t, day, sa.Day)
		require.True(t, sa.MidPrice.Equal(sb.MidPrice), "day %d: %s vs %s", day, sa.MidPrice, sb.MidPrice)
		require.Equal(t, sa.Volatility, sb.Volatility, "day %d", day)
		require.Equal(t, sa.Event, sb.Event, "day %d", day)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a, err := NewProcess(DefaultConfig(), 1, zap.NewNop())
	require.NoError(t, err)
	b, err := NewProcess(DefaultConfig(), 2, zap.NewNop())
	require.NoError(t, err)

	diverged := false
	for day := 1; day <= 10; day++ {
		if !a.Next().MidPrice.Equal(b.Next().MidPrice) {
			diverged = true
			break
		}
	}
	require.True(t, diverged)
}

func TestPriceAndVolatilityStayAboveFloors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EventProbability = 1 // an event every day, the harshest path
	p, err := NewProcess(cfg, 7, zap.NewNop())
	require.NoError(t, err)

	for day := 1; day <= 63; day++ {
		state := p.Next()
		require.True(t, state.MidPrice.GreaterThanOrEqual(cfg.MinPrice),
			"day %d price %s below floor", day, state.MidPrice)
		require.GreaterOrEqual(t, state.Volatility, cfg.MinVolatility, "day %d", day)
		require.True(t, state.Event.IsValid())
	}
}

func TestForcedCrashMovesPriceAndVolatility(t *testing.T) {
	const crashDay = 10

	cfg := DefaultConfig()
	cfg.EventProbability = 0

	forced, err := NewProcess(cfg, 42, zap.NewNop())
	require.NoError(t, err)
	forced.ForceEvent(crashDay, domain.EventCrash)

	twin, err := NewProcess(cfg, 42, zap.NewNop())
	require.NoError(t, err)

	var crashed, routine domain.MarketState
	for day := 1; day <= crashDay; day++ {
		crashed = forced.Next()
		routine = twin.Next()
	}

	// same seed and same draws up to the event, so the crash day is the
	// routine day scaled by the crash factors
	require.Equal(t, domain.EventCrash, crashed.Event)
	require.True(t, crashed.MidPrice.Equal(routine.MidPrice.Mul(decimal.NewFromFloat(0.8))),
		"crash price %s, routine price %s", crashed.MidPrice, routine.MidPrice)
	require.InDelta(t, routine.Volatility*1.5, crashed.Volatility, 1e-12)
}

func TestForcedCalmHalvesVolatility(t *testing.T) {
	const calmDay = 5

	cfg := DefaultConfig()
	cfg.EventProbability = 0

	forced, err := NewProcess(cfg, 11, zap.NewNop())
	require.NoError(t, err)
	forced.ForceEvent(calmDay, domain.EventCalm)

	twin, err := NewProcess(cfg, 11, zap.NewNop())
	require.NoError(t, err)

	var calm, routine domain.MarketState
	for day := 1; day <= calmDay; day++ {
		calm = forced.Next()
		routine = twin.Next()
	}

	require.Equal(t, domain.EventCalm, calm.Event)
	require.True(t, calm.MidPrice.Equal(routine.MidPrice))
	require.InDelta(t, routine.Volatility*0.5, calm.Volatility, 1e-12)
}

func TestCrashVolatilityDecays(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EventProbability = 0
	cfg.VolOfVol = 0 // isolate the decay from the random perturbation
	cfg.VolMeanReversion = 0

	p, err := NewProcess(cfg, 3, zap.NewNop())
	require.NoError(t, err)
	p.ForceEvent(1, domain.EventCrash)

	crash := p.Next()
	require.InDelta(t, cfg.StartVolatility*1.5, crash.Volatility, 1e-12)

	// the shock bleeds off over the configured decay days
	vol := crash.Volatility
	for i := 0; i < cfg.ShockDecayDays; i++ {
		next := p.Next()
		require.InDelta(t, vol*cfg.ShockDecay, next.Volatility, 1e-12)
		vol = next.Volatility
	}
}
