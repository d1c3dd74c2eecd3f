package kernel

// Classify reports oversold/overbought for a given RSI value.
// is_oversold <=> rsi < 30; is_overbought <=> rsi > 70. If rsi is not
// valid (ok == false), both are false.
func Classify(rsi float64, ok bool) (oversold, overbought bool) {
	if !ok {
		return false, false
	}
	return rsi < 30, rsi > 70
}
