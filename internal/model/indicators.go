package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// MACDValue is the MACD(12,26,9) triple for a single point in time.
type MACDValue struct {
	MACDLine  float64
	Signal    float64
	Histogram float64
}

// Analysis is the per-symbol result the scheduler produces and the query
// layer reads. The store holds at most one Analysis per symbol.
type Analysis struct {
	Symbol         Symbol
	Price          float64
	PriceChangePct null.Float
	RSI            null.Float
	SMA20          null.Float
	SMA50          null.Float
	MACD           *MACDValue
	Volume         null.Int
	MarketCap      null.Float
	Sector         null.String
	IsOversold     bool
	IsOverbought   bool
	AnalyzedAt     time.Time
}

// Classify derives IsOversold/IsOverbought from RSI per the invariant:
// is_oversold <=> rsi != null && rsi < 30; is_overbought <=> rsi != null && rsi > 70.
// Both are false when RSI is null.
func (a *Analysis) Classify() {
	if !a.RSI.Valid {
		a.IsOversold = false
		a.IsOverbought = false
		return
	}
	a.IsOversold = a.RSI.Float64 < 30
	a.IsOverbought = a.RSI.Float64 > 70
}
