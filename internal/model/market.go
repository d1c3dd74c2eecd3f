package model

import "time"

// Symbol is a short uppercase alphanumeric ticker, unique throughout the engine.
type Symbol string

// HistoricalBar is one trading day's OHLCV.
type HistoricalBar struct {
	Date   time.Time // UTC midnight
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries is an ordered sequence of HistoricalBar for one symbol, strictly
// ascending by date. It is materialized on demand from the fetcher and never
// persisted.
type PriceSeries struct {
	Symbol Symbol
	Bars   []HistoricalBar
}

// Closes extracts the close price of every bar, in series order.
func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Len returns the number of bars in the series.
func (p PriceSeries) Len() int { return len(p.Bars) }

// Last returns the most recent bar and true, or the zero value and false if empty.
func (p PriceSeries) Last() (HistoricalBar, bool) {
	if len(p.Bars) == 0 {
		return HistoricalBar{}, false
	}
	return p.Bars[len(p.Bars)-1], true
}
