package kernel

import (
	"math"
	"testing"
)

func TestMACD_HistogramIsLineMinusSignal(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	macd, ok := MACD(12, 26, 9, closes)
	if !ok {
		t.Fatal("expected MACD to be computable")
	}
	want := macd.MACDLine - macd.Signal
	if math.Abs(macd.Histogram-want) > 1e-9 {
		t.Errorf("histogram = %v, want line-signal = %v", macd.Histogram, want)
	}
}

func TestMACD_NullWhenTooShort(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i)
	}
	if _, ok := MACD(12, 26, 9, closes); ok {
		t.Error("expected MACD to be unavailable with fewer than 26 bars")
	}
}

func TestMACD_SignalIsEMAOverMACDLineNotCloses(t *testing.T) {
	// A flat series produces a zero MACD line throughout, so the signal
	// line (an EMA over the MACD-line series) must also be zero — it would
	// not be zero if the signal were mistakenly computed as an EMA over
	// raw closes instead.
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	macd, ok := MACD(12, 26, 9, closes)
	if !ok {
		t.Fatal("expected MACD to be computable")
	}
	if macd.MACDLine != 0 || macd.Signal != 0 || macd.Histogram != 0 {
		t.Errorf("expected all-zero MACD for flat closes, got %+v", macd)
	}
}
