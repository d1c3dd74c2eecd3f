package kernel

import (
	"time"

	"github.com/guregu/null/v6"

	"stockengine/internal/model"
)

const (
	rsiPeriod   = 14
	sma20Period = 20
	sma50Period = 50
	macdFast    = 12
	macdSlow    = 26
	macdSignal  = 9
)

// Analyze runs the full indicator battery against series and returns a
// fully populated Analysis (timestamped analyzedAt). Shorter series simply
// produce null indicator fields, never an error — Insufficient data is not
// a failure mode.
func Analyze(series model.PriceSeries, marketCap null.Float, sector null.String, analyzedAt time.Time) model.Analysis {
	closes := series.Closes()

	a := model.Analysis{
		Symbol:     series.Symbol,
		MarketCap:  marketCap,
		Sector:     sector,
		AnalyzedAt: analyzedAt,
	}

	if last, ok := series.Last(); ok {
		a.Price = last.Close
		a.Volume = null.IntFrom(last.Volume)
	}
	if n := len(closes); n >= 2 && closes[n-2] != 0 {
		prevClose := closes[n-2]
		a.PriceChangePct = null.FloatFrom((closes[n-1] - prevClose) / prevClose * 100)
	}

	if rsi, ok := RSI(rsiPeriod, closes); ok {
		a.RSI = null.FloatFrom(rsi)
	}
	if sma, ok := SMA(sma20Period, closes); ok {
		a.SMA20 = null.FloatFrom(sma)
	}
	if sma, ok := SMA(sma50Period, closes); ok {
		a.SMA50 = null.FloatFrom(sma)
	}
	if macd, ok := MACD(macdFast, macdSlow, macdSignal, closes); ok {
		a.MACD = macd
	}

	a.Classify()
	return a
}
