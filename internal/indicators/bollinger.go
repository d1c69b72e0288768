package indicators

import "math"

// BollingerBands computes upper/mid/lower bands and normalized width,
// grounded in the teacher's CalculateBollingerBands.
func BollingerBands(candles []Candle, period int, stdDevMultiplier float64) *Bollinger {
	if len(candles) < period || period <= 0 {
		return nil
	}
	mid := SMA(candles, period)
	if mid == nil {
		return nil
	}

	start := len(candles) - period
	var variance float64
	for i := start; i < len(candles); i++ {
		diff := candles[i].C - *mid
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(period))

	upper := *mid + stdDev*stdDevMultiplier
	lower := *mid - stdDev*stdDevMultiplier
	width := 0.0
	if *mid != 0 {
		width = (upper - lower) / *mid
	}

	return &Bollinger{Upper: upper, Mid: *mid, Lower: lower, Width: width}
}
