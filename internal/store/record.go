package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	"stockengine/internal/model"
)

// analysisRecord is the gorm-mapped row for one symbol's latest analysis.
// MACD is flattened into three nullable columns rather than a JSON blob
// since every component is always present or always absent together.
// RevisionID is a surrogate id stamped fresh on every upsert, letting a
// downstream consumer of the raw table detect a row replacement even
// though the engine itself only ever reads by symbol.
type analysisRecord struct {
	Symbol         string `gorm:"primaryKey;column:symbol"`
	RevisionID     uuid.UUID
	Price          float64
	PriceChangePct null.Float
	RSI            null.Float
	SMA20         null.Float
	SMA50         null.Float
	MACDLine      null.Float
	MACDSignal    null.Float
	MACDHistogram null.Float
	Volume        null.Int
	MarketCap     null.Float
	Sector        null.String
	IsOversold    bool
	IsOverbought  bool
	AnalyzedAt    time.Time
}

func (analysisRecord) TableName() string { return "analyses" }

func toRecord(a model.Analysis) analysisRecord {
	r := analysisRecord{
		Symbol:         string(a.Symbol),
		RevisionID:     uuid.New(),
		Price:          a.Price,
		PriceChangePct: a.PriceChangePct,
		RSI:            a.RSI,
		SMA20:        a.SMA20,
		SMA50:        a.SMA50,
		Volume:       a.Volume,
		MarketCap:    a.MarketCap,
		Sector:       a.Sector,
		IsOversold:   a.IsOversold,
		IsOverbought: a.IsOverbought,
		AnalyzedAt:   a.AnalyzedAt,
	}
	if a.MACD != nil {
		r.MACDLine = null.FloatFrom(a.MACD.MACDLine)
		r.MACDSignal = null.FloatFrom(a.MACD.Signal)
		r.MACDHistogram = null.FloatFrom(a.MACD.Histogram)
	}
	return r
}

func fromRecord(r analysisRecord) model.Analysis {
	a := model.Analysis{
		Symbol:         model.Symbol(r.Symbol),
		Price:          r.Price,
		PriceChangePct: r.PriceChangePct,
		RSI:            r.RSI,
		SMA20:        r.SMA20,
		SMA50:        r.SMA50,
		Volume:       r.Volume,
		MarketCap:    r.MarketCap,
		Sector:       r.Sector,
		IsOversold:   r.IsOversold,
		IsOverbought: r.IsOverbought,
		AnalyzedAt:   r.AnalyzedAt,
	}
	if r.MACDLine.Valid {
		a.MACD = &model.MACDValue{
			MACDLine:  r.MACDLine.Float64,
			Signal:    r.MACDSignal.Float64,
			Histogram: r.MACDHistogram.Float64,
		}
	}
	return a
}
