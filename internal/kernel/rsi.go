package kernel

// RSI computes the Relative Strength Index using Wilder's smoothing (SMMA),
// not a rolling SMA — a prior rolling-SMA approximation produced ~10-point
// deviations from reference values and must not be reintroduced.
//
// The seed avg_gain/avg_loss is the simple mean of the first period
// gains/losses; every subsequent bar folds in with weight 1/period. Returns
// (0, false) if fewer than period+1 closes are available.
func RSI(period int, closes []float64) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50, true // neutral by convention when both averages are zero
	case avgLoss == 0:
		return 100, true
	default:
		rs := avgGain / avgLoss
		return 100 - 100/(1+rs), true
	}
}
