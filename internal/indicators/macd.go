package indicators

// MACDIndicator computes the MACD line as fastEMA-slowEMA, and a true
// signal line as the EMA of the MACD line's own history — the teacher's
// CalculateMACD approximated the signal line as a fixed ratio of the
// current MACD value; spec.md §4.3 requires a vector whose values are
// either correct or absent, so this recomputes the full MACD series
// instead of approximating.
func MACDIndicator(candles []Candle, fast, slow, signal int) *MACD {
	minNeeded := slow + signal
	if len(candles) < minNeeded {
		return nil
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.C
	}

	fastEMAs := emaSeries(closes, fast)
	slowEMAs := emaSeries(closes, slow)
	if fastEMAs == nil || slowEMAs == nil {
		return nil
	}

	// Align: fastEMAs starts at index fast-1, slowEMAs starts at slow-1.
	// The MACD line only exists once both are defined, i.e. from slow-1
	// onward in the original series.
	offset := (slow - 1) - (fast - 1)
	if offset < 0 || offset >= len(fastEMAs) {
		return nil
	}
	macdLine := make([]float64, len(slowEMAs))
	for i := range slowEMAs {
		macdLine[i] = fastEMAs[i+offset] - slowEMAs[i]
	}

	signalSeries := emaSeries(macdLine, signal)
	if signalSeries == nil || len(signalSeries) == 0 {
		return nil
	}

	line := macdLine[len(macdLine)-1]
	sig := signalSeries[len(signalSeries)-1]
	return &MACD{Line: line, Signal: sig, Histogram: line - sig}
}
