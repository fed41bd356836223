// Package indicators provides the series analytics used by the end-of-run
// report: moving averages, log returns, realized volatility and Sharpe ratio.
package indicators

import (
	"fmt"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

// SMA calculates the simple moving average of the series for the given period.
func SMA(values []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if len(values) < period {
		return nil, fmt.Errorf("not enough data points: need %d, got %d", period, len(values))
	}

	sma := trend.NewSmaWithPeriod[float64](period)
	inputChan := helper.SliceToChan(decimalsToFloat64(values))
	outputChan := sma.Compute(inputChan)
	out := helper.ChanToSlice(outputChan)

	return float64ToDecimals(out), nil
}

// LogReturns calculates the logarithmic returns of a positive price series.
func LogReturns(prices []decimal.Decimal) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("not enough data points: need 2, got %d", len(prices))
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].InexactFloat64()
		cur := prices[i].InexactFloat64()
		if prev <= 0 || cur <= 0 {
			return nil, fmt.Errorf("non-positive price at index %d", i)
		}
		returns = append(returns, math.Log(cur/prev))
	}
	return returns, nil
}

// RealizedVolatility calculates the annualized standard deviation of the
// given daily returns.
func RealizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stddev(returns) * math.Sqrt(TradingDaysPerYear)
}

// SharpeRatio calculates the annualized Sharpe ratio of a daily P&L series
// against the given annual risk-free rate.
func SharpeRatio(dailyPnL []float64, riskFreeRate float64) float64 {
	if len(dailyPnL) < 2 {
		return 0
	}

	excess := make([]float64, len(dailyPnL))
	for i, r := range dailyPnL {
		excess[i] = r - riskFreeRate/TradingDaysPerYear
	}

	sd := stddev(excess)
	if sd == 0 {
		return 0
	}
	return mean(excess) / sd * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown calculates the largest peak-to-trough fall of a cumulative
// P&L curve, in absolute terms.
func MaxDrawdown(cumulative []decimal.Decimal) decimal.Decimal {
	maxDD := decimal.Zero
	if len(cumulative) == 0 {
		return maxDD
	}

	peak := cumulative[0]
	for _, v := range cumulative {
		if v.GreaterThan(peak) {
			peak = v
		}
		if dd := peak.Sub(v); dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}
	return maxDD
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func decimalsToFloat64(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

func float64ToDecimals(values []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
