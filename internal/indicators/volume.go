package indicators

// VWAP computes the volume-weighted average price over the full supplied
// window (callers pass the slice already trimmed to the desired session).
func VWAP(candles []Candle) *float64 {
	if len(candles) == 0 {
		return nil
	}
	var pvSum, vSum float64
	for _, c := range candles {
		typical := (c.H + c.L + c.C) / 3
		pvSum += typical * c.V
		vSum += c.V
	}
	if vSum == 0 {
		return nil
	}
	v := pvSum / vSum
	return &v
}

// OBVTrend computes On-Balance Volume over the series and classifies its
// short-term slope.
func OBVTrend(candles []Candle, lookback int) *string {
	if len(candles) < lookback+1 || lookback <= 0 {
		return nil
	}

	obv := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].C > candles[i-1].C:
			obv[i] = obv[i-1] + candles[i].V
		case candles[i].C < candles[i-1].C:
			obv[i] = obv[i-1] - candles[i].V
		default:
			obv[i] = obv[i-1]
		}
	}

	start := len(obv) - lookback
	delta := obv[len(obv)-1] - obv[start]
	trend := "flat"
	switch {
	case delta > 0:
		trend = "rising"
	case delta < 0:
		trend = "falling"
	}
	return &trend
}
