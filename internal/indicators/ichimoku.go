package indicators

// IchimokuCloud computes the standard 9/26/52 Ichimoku lines. Chikou is
// the current close projected back 26 periods, so it is only meaningful
// once plotted against history by the caller; here it is just the raw
// current close.
func IchimokuCloud(candles []Candle) *Ichimoku {
	const (
		tenkanPeriod = 9
		kijunPeriod  = 26
		senkouBPeriod = 52
	)
	if len(candles) < senkouBPeriod {
		return nil
	}

	tenkan := midpoint(candles, tenkanPeriod)
	kijun := midpoint(candles, kijunPeriod)
	senkouB := midpoint(candles, senkouBPeriod)

	return &Ichimoku{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: (tenkan + kijun) / 2,
		SenkouB: senkouB,
		Chikou:  candles[len(candles)-1].C,
	}
}

func midpoint(candles []Candle, period int) float64 {
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
	return (highest + lowest) / 2
}
