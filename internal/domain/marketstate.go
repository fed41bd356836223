// Package domain defines core data structures used throughout the simulator.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EventKind tags an exceptional market move injected on a given day.
type EventKind string

const (
	// EventNone marks a routine trading day.
	EventNone EventKind = "none"
	// EventSpike marks a sharp up-or-down move with elevated next-day volatility.
	EventSpike EventKind = "spike"
	// EventCrash marks a sharp down move with a volatility shock that decays
	// over several subsequent days.
	EventCrash EventKind = "crash"
	// EventBullRun marks a surge that drives the price up.
	EventBullRun EventKind = "bull_run"
	// EventCalm marks a volatility cool-down period.
	EventCalm EventKind = "calm"
)

// String returns the string representation.
func (e EventKind) String() string {
	return string(e)
}

// IsValid checks if the EventKind value is valid.
func (e EventKind) IsValid() bool {
	switch e {
	case EventNone, EventSpike, EventCrash, EventBullRun, EventCalm:
		return true
	}
	return false
}

// IsShock reports whether the event spikes liquidity demand against the
// market maker's quotes.
func (e EventKind) IsShock() bool {
	return e == EventSpike || e == EventCrash
}

// MarketState is the simulated market for a single day. Immutable once
// generated; produced by the price process and consumed by the quote
// evaluator and the strategy.
type MarketState struct {
	// Day is the zero-based index of the trading day.
	Day int `json:"day"`
	// MidPrice is the simulated fair price for the day, always positive.
	MidPrice decimal.Decimal `json:"mid_price"`
	// Volatility is the daily return standard deviation, never negative.
	Volatility float64 `json:"volatility"`
	// Event tags an exceptional move this day.
	Event EventKind `json:"event"`
}

// String returns a human-readable string representation.
func (m MarketState) String() string {
	return fmt.Sprintf("day %d: price=%s vol=%.4f event=%s", m.Day, m.MidPrice.StringFixed(2), m.Volatility, m.Event)
}
