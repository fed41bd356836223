// Package report assembles the end-of-run summary from the daily history and
// renders it for the terminal.
package report

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/pkg/indicators"
)

const (
	// scoring mirrors the classic game rules: every losing day costs 10
	// points, the longest winning streak earns 5 per day, floor at zero.
	negativePnLPenalty       = 10
	consecutivePositiveBonus = 5
	riskFreeRate             = 0.02
)

// Build produces the Summary for a terminated run.
func Build(runID, strategyName string, status domain.RunStatus, history []domain.LedgerSnapshot) domain.Summary {
	summary := domain.Summary{
		RunID:           runID,
		Strategy:        strategyName,
		Status:          status,
		DaysCompleted:   len(history),
		PnLByEvent:      make(map[domain.EventKind]decimal.Decimal),
		TotalPnL:        decimal.Zero,
		RealizedPnL:     decimal.Zero,
		UnrealizedPnL:   decimal.Zero,
		FinalInventory:  decimal.Zero,
		FinalCash:       decimal.Zero,
		MaxDrawdown:     decimal.Zero,
		MaxAbsInventory: decimal.Zero,
		Score:           decimal.Zero,
	}
	if len(history) == 0 {
		return summary
	}

	last := history[len(history)-1]
	summary.TotalPnL = last.PnL()
	summary.RealizedPnL = last.RealizedPnL
	summary.UnrealizedPnL = last.UnrealizedPnL
	summary.FinalInventory = last.Inventory
	summary.FinalCash = last.Cash

	cumulative := make([]decimal.Decimal, 0, len(history))
	dailyPnL := make([]float64, 0, len(history))
	mids := make([]decimal.Decimal, 0, len(history))
	spreadPctSum := 0.0
	quotedDays := 0

	for _, snapshot := range history {
		cumulative = append(cumulative, snapshot.PnL())
		dailyPnL = append(dailyPnL, snapshot.DailyPnL.InexactFloat64())
		mids = append(mids, snapshot.State.MidPrice)

		if snapshot.Faulted() {
			summary.FaultDays++
		}
		if snapshot.State.Event != domain.EventNone {
			summary.EventDays++
		}
		for _, outcome := range snapshot.Outcomes {
			if outcome.Filled() {
				summary.TradeCount++
			}
		}
		if abs := snapshot.Inventory.Abs(); abs.GreaterThan(summary.MaxAbsInventory) {
			summary.MaxAbsInventory = abs
		}

		byEvent := summary.PnLByEvent[snapshot.State.Event]
		summary.PnLByEvent[snapshot.State.Event] = byEvent.Add(snapshot.DailyPnL)

		if snapshot.Quote != nil {
			quoteMid := snapshot.Quote.Mid()
			if quoteMid.IsPositive() {
				spreadPctSum += snapshot.Quote.Spread().Div(quoteMid).InexactFloat64()
				quotedDays++
			}
		}
	}

	summary.MaxDrawdown = indicators.MaxDrawdown(cumulative)
	summary.Sharpe = indicators.SharpeRatio(dailyPnL, riskFreeRate)
	if quotedDays > 0 {
		summary.AvgSpreadPct = spreadPctSum / float64(quotedDays)
	}
	if returns, err := indicators.LogReturns(mids); err == nil {
		summary.RealizedVol = indicators.RealizedVolatility(returns)
	}
	summary.Score = score(summary.TotalPnL, dailyPnL)

	return summary
}

// score penalizes losing days and rewards the longest winning streak.
func score(totalPnL decimal.Decimal, dailyPnL []float64) decimal.Decimal {
	negativeDays := 0
	maxStreak, streak := 0, 0
	for _, pnl := range dailyPnL {
		if pnl < 0 {
			negativeDays++
		}
		if pnl > 0 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}

	s := totalPnL.
		Sub(decimal.NewFromInt(int64(negativeDays * negativePnLPenalty))).
		Add(decimal.NewFromInt(int64(maxStreak * consecutivePositiveBonus)))
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}
