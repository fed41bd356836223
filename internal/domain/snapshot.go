package domain

import (
	"github.com/shopspring/decimal"
)

// RunStatus is the state of a simulation run.
type RunStatus string

const (
	// StatusNotStarted means the run has not advanced any day yet.
	StatusNotStarted RunStatus = "not_started"
	// StatusRunning means the run is inside the daily loop.
	StatusRunning RunStatus = "running"
	// StatusFinished means the run completed all configured days.
	StatusFinished RunStatus = "finished"
	// StatusAborted means an unrecoverable fault terminated the run early.
	StatusAborted RunStatus = "aborted"
)

// String returns the string representation.
func (s RunStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further day transitions occur.
func (s RunStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusAborted
}

// LedgerSnapshot is the immutable per-day record appended to the run history
// and emitted to the logging collaborator.
type LedgerSnapshot struct {
	RunID string      `json:"run_id"`
	Day   int         `json:"day"`
	State MarketState `json:"market"`
	// Quote is nil when the strategy declined to quote.
	Quote    *Quote         `json:"quote,omitempty"`
	Outcomes []TradeOutcome `json:"outcomes"`

	Inventory     decimal.Decimal `json:"inventory"`
	Cash          decimal.Decimal `json:"cash"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	// DailyPnL is the day-over-day change of total mark-to-market P&L.
	DailyPnL decimal.Decimal `json:"daily_pnl"`

	// Fault is a short tag when the day was faulted, empty otherwise.
	Fault       string `json:"fault,omitempty"`
	FaultDetail string `json:"fault_detail,omitempty"`
}

// PnL returns total mark-to-market P&L for the day.
func (s LedgerSnapshot) PnL() decimal.Decimal {
	return s.RealizedPnL.Add(s.UnrealizedPnL)
}

// Faulted reports whether the day was flagged with a strategy fault.
func (s LedgerSnapshot) Faulted() bool {
	return s.Fault != ""
}

// Traded reports whether at least one side filled this day.
func (s LedgerSnapshot) Traded() bool {
	for _, o := range s.Outcomes {
		if o.Filled() {
			return true
		}
	}
	return false
}

// Summary is the end-of-run report produced after the terminal state.
type Summary struct {
	RunID    string    `json:"run_id"`
	Strategy string    `json:"strategy"`
	Status   RunStatus `json:"status"`

	DaysCompleted int `json:"days_completed"`
	FaultDays     int `json:"fault_days"`
	EventDays     int `json:"event_days"`
	TradeCount    int `json:"trade_count"`

	TotalPnL        decimal.Decimal `json:"total_pnl"`
	RealizedPnL     decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnL   decimal.Decimal `json:"unrealized_pnl"`
	FinalInventory  decimal.Decimal `json:"final_inventory"`
	FinalCash       decimal.Decimal `json:"final_cash"`
	MaxDrawdown     decimal.Decimal `json:"max_drawdown"`
	MaxAbsInventory decimal.Decimal `json:"max_abs_inventory"`

	// PnLByEvent breaks daily P&L down by the day's event tag.
	PnLByEvent map[EventKind]decimal.Decimal `json:"pnl_by_event"`

	// Score is total P&L penalized for negative days and rewarded for the
	// longest positive streak, floored at zero.
	Score decimal.Decimal `json:"score"`
	// Sharpe is the annualized Sharpe ratio of the daily P&L series.
	Sharpe float64 `json:"sharpe"`
	// RealizedVol is the annualized volatility realized by the mid-price path.
	RealizedVol float64 `json:"realized_vol"`
	// AvgSpreadPct is the mean quoted spread as a fraction of the quote mid.
	AvgSpreadPct float64 `json:"avg_spread_pct"`
}
