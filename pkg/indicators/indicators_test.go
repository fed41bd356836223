package indicators

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decimals(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func TestSMA(t *testing.T) {
	result, err := SMA(decimals(1, 2, 3, 4, 5), 3)
	require.NoError(t, err)
	require.NotEmpty(t, result)
	last := result[len(result)-1].InexactFloat64()
	require.InDelta(t, 4, last, 1e-9)
}

func TestSMANotEnoughData(t *testing.T) {
	_, err := SMA(decimals(1, 2), 3)
	require.Error(t, err)
}

func TestLogReturns(t *testing.T) {
	returns, err := LogReturns(decimals(100, 110, 99))
	require.NoError(t, err)
	require.Len(t, returns, 2)
	require.InDelta(t, math.Log(1.1), returns[0], 1e-9)
	require.InDelta(t, math.Log(0.9), returns[1], 1e-9)
}

func TestLogReturnsRejectNonPositive(t *testing.T) {
	_, err := LogReturns(decimals(100, 0, 99))
	require.Error(t, err)

	_, err = LogReturns(decimals(100))
	require.Error(t, err)
}

func TestRealizedVolatility(t *testing.T) {
	require.Zero(t, RealizedVolatility([]float64{0.01}))

	// constant returns have zero deviation
	require.InDelta(t, 0, RealizedVolatility([]float64{0.01, 0.01, 0.01}), 1e-12)

	vol := RealizedVolatility([]float64{0.01, -0.01, 0.02, -0.02})
	require.Positive(t, vol)
}

func TestSharpeRatio(t *testing.T) {
	require.Zero(t, SharpeRatio([]float64{1}, 0.02))
	require.Zero(t, SharpeRatio([]float64{1, 1, 1, 1}, 0), "zero deviation has no ratio")

	positive := SharpeRatio([]float64{1, 2, 1, 2, 1, 2}, 0.02)
	require.Positive(t, positive)

	negative := SharpeRatio([]float64{-1, -2, -1, -2}, 0.02)
	require.Negative(t, negative)
}

func TestMaxDrawdown(t *testing.T) {
	require.True(t, MaxDrawdown(nil).IsZero())
	require.True(t, MaxDrawdown(decimals(1, 2, 3)).IsZero(), "monotone curve has no drawdown")

	dd := MaxDrawdown(decimals(10, 30, 5, 15))
	require.True(t, dd.Equal(decimal.NewFromInt(25)), "got %s", dd)

	// the drawdown tracks the running peak, not the global maximum
	dd = MaxDrawdown(decimals(10, 5, 40, 35))
	require.True(t, dd.Equal(decimal.NewFromInt(5)), "got %s", dd)
}
