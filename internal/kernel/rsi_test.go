package kernel

import (
	"math"
	"testing"
)

func closesOfLen(n int, gen func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = gen(i)
	}
	return out
}

func TestRSI_FlatSeriesIsNeutral(t *testing.T) {
	closes := closesOfLen(20, func(i int) float64 { return 100 })
	rsi, ok := RSI(14, closes)
	if !ok {
		t.Fatal("expected RSI to be computable")
	}
	if rsi != 50 {
		t.Errorf("expected RSI=50 for flat series, got %v", rsi)
	}
}

func TestRSI_StrictlyIncreasingIsHundred(t *testing.T) {
	closes := closesOfLen(20, func(i int) float64 { return float64(i) })
	rsi, ok := RSI(14, closes)
	if !ok || rsi != 100 {
		t.Errorf("expected RSI=100 for strictly increasing series, got %v ok=%v", rsi, ok)
	}
}

func TestRSI_StrictlyDecreasingIsZero(t *testing.T) {
	closes := closesOfLen(20, func(i int) float64 { return float64(20 - i) })
	rsi, ok := RSI(14, closes)
	if !ok || rsi != 0 {
		t.Errorf("expected RSI=0 for strictly decreasing series, got %v ok=%v", rsi, ok)
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	closes := closesOfLen(10, func(i int) float64 { return float64(i) })
	if _, ok := RSI(14, closes); ok {
		t.Error("expected RSI to be unavailable with fewer than period+1 bars")
	}
}

// TestRSI_WilderReference reproduces the canonical textbook example.
func TestRSI_WilderReference(t *testing.T) {
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84,
		46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41,
		46.22, 45.64, 46.21,
	}
	rsi, ok := RSI(14, closes)
	if !ok {
		t.Fatal("expected RSI to be computable")
	}
	if math.Abs(rsi-66.25) > 0.1 {
		t.Errorf("expected RSI approx 66.25, got %v", rsi)
	}
}
