package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the direction of a fill from the market maker's perspective.
type Side int

const (
	// SideNone means no trade occurred.
	SideNone Side = iota
	// SideBuy means a counterparty sold to the market maker at the bid.
	SideBuy
	// SideSell means a counterparty bought from the market maker at the ask.
	SideSell
)

// side string constants to avoid magic strings
const (
	sideStringNone = "none"
	sideStringBuy  = "buy"
	sideStringSell = "sell"
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideNone:
		return sideStringNone
	case SideBuy:
		return sideStringBuy
	case SideSell:
		return sideStringSell
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so sides serialize as strings
// in persisted snapshots.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case sideStringNone:
		*s = SideNone
	case sideStringBuy:
		*s = SideBuy
	case sideStringSell:
		*s = SideSell
	default:
		return fmt.Errorf("unknown side %q", string(text))
	}
	return nil
}

// TradeOutcome is the result of evaluating one side of a quote for one day.
// Produced by the quote evaluator, consumed by the ledger, ephemeral.
type TradeOutcome struct {
	Side      Side            `json:"side"`
	FillPrice decimal.Decimal `json:"fill_price"`
	FillSize  decimal.Decimal `json:"fill_size"`
}

// NoTrade returns the outcome of a day without a fill.
func NoTrade() TradeOutcome {
	return TradeOutcome{Side: SideNone, FillPrice: decimal.Zero, FillSize: decimal.Zero}
}

// Filled reports whether the outcome carries an executed trade.
func (t TradeOutcome) Filled() bool {
	return t.Side != SideNone && t.FillSize.IsPositive()
}

// String returns a human-readable string representation.
func (t TradeOutcome) String() string {
	if !t.Filled() {
		return "no trade"
	}
	return fmt.Sprintf("%s %s @ %s", t.Side.String(), t.FillSize.String(), t.FillPrice.StringFixed(2))
}
