package indicators

import "math"

// ClassifyRegime implements spec.md §4.3's regime classification exactly:
// ADX>30 with positive 30-day momentum slope is BULL, ADX>30 with
// negative slope is BEAR, ATR/price above 4% is VOLATILE, otherwise
// SIDEWAYS. Confidence is clamped to [0, 1] and derived from how far past
// its threshold the decisive metric sits.
func ClassifyRegime(candles []Candle) Regime {
	adx := ADX(candles, 14)
	atr := ATR(candles, 14)
	slope := momentumSlope(candles, 30)

	if adx == nil || slope == nil {
		return Regime{Label: RegimeSideways, Confidence: 0}
	}

	price := candles[len(candles)-1].C
	volRatio := 0.0
	if atr != nil && price != 0 {
		volRatio = *atr / price
	}

	switch {
	case *adx > 30 && *slope > 0:
		return Regime{Label: RegimeBull, Confidence: clamp01((*adx - 30) / 40)}
	case *adx > 30 && *slope < 0:
		return Regime{Label: RegimeBear, Confidence: clamp01((*adx - 30) / 40)}
	case volRatio > 0.04:
		return Regime{Label: RegimeVolatile, Confidence: clamp01(volRatio / 0.08)}
	default:
		return Regime{Label: RegimeSideways, Confidence: clamp01(1 - (*adx / 30))}
	}
}

// momentumSlope returns the percentage change in close over `period`
// candles, nil if insufficient history.
func momentumSlope(candles []Candle, period int) *float64 {
	if len(candles) < period+1 {
		return nil
	}
	past := candles[len(candles)-period-1].C
	if past == 0 {
		return nil
	}
	v := (candles[len(candles)-1].C - past) / past
	return &v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
