package indicators

// RSI computes the Relative Strength Index from the simple average gain and
// loss over the last period closes (no Wilder smoothing). Returns
// nil when fewer than period+1 candles are available, per spec.md §4.3
// (minimum 14 candles for RSI).
func RSI(candles []Candle, period int) *float64 {
	if len(candles) < period+1 || period <= 0 {
		return nil
	}

	start := len(candles) - period
	var avgGain, avgLoss float64
	for i := start; i < len(candles); i++ {
		change := candles[i].C - candles[i-1].C
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		v := 100.0
		return &v
	}
	rs := avgGain / avgLoss
	v := 100 - (100 / (1 + rs))
	return &v
}

// Stoch computes %K over kPeriod and smooths %D as the SMA of the last
// dPeriod %K values.
func Stoch(candles []Candle, kPeriod, dPeriod int) *Stochastic {
	if len(candles) < kPeriod+dPeriod || kPeriod <= 0 {
		return nil
	}

	ks := make([]float64, 0, dPeriod)
	for offset := dPeriod - 1; offset >= 0; offset-- {
		window := candles[:len(candles)-offset]
		if len(window) < kPeriod {
			return nil
		}
		start := len(window) - kPeriod
		highest, lowest := window[start].H, window[start].L
		for i := start; i < len(window); i++ {
			if window[i].H > highest {
				highest = window[i].H
			}
			if window[i].L < lowest {
				lowest = window[i].L
			}
		}
		k := 50.0
		if highest != lowest {
			k = ((window[len(window)-1].C - lowest) / (highest - lowest)) * 100
		}
		ks = append(ks, k)
	}

	var dSum float64
	for _, k := range ks {
		dSum += k
	}
	return &Stochastic{K: ks[len(ks)-1], D: dSum / float64(len(ks))}
}

// CCI computes the Commodity Channel Index over `period` candles.
func CCI(candles []Candle, period int) *float64 {
	if len(candles) < period || period <= 0 {
		return nil
	}
	start := len(candles) - period
	typicalPrices := make([]float64, 0, period)
	var sum float64
	for i := start; i < len(candles); i++ {
		tp := (candles[i].H + candles[i].L + candles[i].C) / 3
		typicalPrices = append(typicalPrices, tp)
		sum += tp
	}
	mean := sum / float64(period)

	var meanDeviation float64
	for _, tp := range typicalPrices {
		d := tp - mean
		if d < 0 {
			d = -d
		}
		meanDeviation += d
	}
	meanDeviation /= float64(period)

	if meanDeviation == 0 {
		v := 0.0
		return &v
	}
	current := typicalPrices[len(typicalPrices)-1]
	v := (current - mean) / (0.015 * meanDeviation)
	return &v
}

// WilliamsR computes Williams %R over `period` candles.
func WilliamsR(candles []Candle, period int) *float64 {
	if len(candles) < period || period <= 0 {
		return nil
	}
	start := len(candles) - period
	highest, lowest := candles[start].H, candles[start].L
	for i := start; i < len(candles); i++ {
		if candles[i].H > highest {
			highest = candles[i].H
		}
		if candles[i].L < lowest {
			lowest = candles[i].L
		}
	}
	if highest == lowest {
		v := -50.0
		return &v
	}
	v := ((highest - candles[len(candles)-1].C) / (highest - lowest)) * -100
	return &v
}
