package kernel

import "stockengine/internal/model"

// MACD computes MACD(fast, slow, signalPeriod): the MACD line is
// EMA(fast) - EMA(slow), the signal line is EMA(signalPeriod) over the
// sequence of MACD-line values (not, as a previous implementation did in
// one place, an EMA over raw closes), and the histogram is line - signal.
//
// Requires at least slow bars to produce a MACD line and effectively
// slow+signalPeriod-1 bars for a stable signal; returns (nil, false)
// otherwise.
func MACD(fast, slow, signalPeriod int, closes []float64) (*model.MACDValue, bool) {
	fastSeries, ok := emaSeries(fast, closes)
	if !ok {
		return nil, false
	}
	slowSeries, ok := emaSeries(slow, closes)
	if !ok {
		return nil, false
	}

	// fastSeries is longer than slowSeries by (slow-fast) leading points;
	// align both to the tail that starts once the slow EMA is defined.
	offset := len(fastSeries) - len(slowSeries)
	macdLine := make([]float64, len(slowSeries))
	for i := range slowSeries {
		macdLine[i] = fastSeries[i+offset] - slowSeries[i]
	}

	signalSeries, ok := emaSeries(signalPeriod, macdLine)
	if !ok {
		return nil, false
	}

	line := macdLine[len(macdLine)-1]
	signal := signalSeries[len(signalSeries)-1]
	return &model.MACDValue{
		MACDLine:  line,
		Signal:    signal,
		Histogram: line - signal,
	}, true
}
