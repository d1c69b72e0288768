package indicators

import "math"

// Compute builds a FeatureVector from a daily candle series and, when
// supplied, a 4h series for the second regime pass C5's timeframe
// alignment step consumes (spec.md §4.3). Every indicator is computed
// independently; one missing indicator never blocks the others.
func Compute(symbol, timeframe string, candles []Candle, candles4h []Candle) FeatureVector {
	fv := FeatureVector{Symbol: symbol, Timeframe: timeframe}

	fv.RSI = sanitizePtr(RSI(candles, 14), &fv.Flagged, "RSI")
	fv.MACD = sanitizeMACD(MACDIndicator(candles, 12, 26, 9), &fv.Flagged)
	fv.Bollinger = sanitizeBollinger(BollingerBands(candles, 20, 2.0), &fv.Flagged)
	fv.EMA = EMASet{
		EMA20:  sanitizePtr(EMA(candles, 20), &fv.Flagged, "EMA20"),
		EMA50:  sanitizePtr(EMA(candles, 50), &fv.Flagged, "EMA50"),
		EMA200: sanitizePtr(EMA(candles, 200), &fv.Flagged, "EMA200"),
	}
	fv.SMA20 = sanitizePtr(SMA(candles, 20), &fv.Flagged, "SMA20")
	fv.ATR = sanitizePtr(ATR(candles, 14), &fv.Flagged, "ATR")
	fv.ADX = sanitizePtr(ADX(candles, 14), &fv.Flagged, "ADX")
	fv.Stoch = sanitizeStoch(Stoch(candles, 14, 3), &fv.Flagged)
	fv.CCI = sanitizePtr(CCI(candles, 20), &fv.Flagged, "CCI")
	fv.WilliamsR = sanitizePtr(WilliamsR(candles, 14), &fv.Flagged, "WilliamsR")
	fv.VWAP = sanitizePtr(VWAP(candles), &fv.Flagged, "VWAP")
	fv.OBVTrend = OBVTrend(candles, 10)
	fv.Ichimoku = IchimokuCloud(candles)
	fv.ParabolicSAR = sanitizePtr(ParabolicSAR(candles, 0.02, 0.2), &fv.Flagged, "ParabolicSAR")

	fv.Regime = ClassifyRegime(candles)
	if candles4h != nil {
		r4h := ClassifyRegime(candles4h)
		fv.Regime4h = &r4h
	}

	return fv
}

func sanitizePtr(v *float64, flagged *[]string, name string) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		*flagged = append(*flagged, name)
		return nil
	}
	return v
}

func sanitizeMACD(m *MACD, flagged *[]string) *MACD {
	if m == nil {
		return nil
	}
	if isBad(m.Line) || isBad(m.Signal) || isBad(m.Histogram) {
		*flagged = append(*flagged, "MACD")
		return nil
	}
	return m
}

func sanitizeBollinger(b *Bollinger, flagged *[]string) *Bollinger {
	if b == nil {
		return nil
	}
	if isBad(b.Upper) || isBad(b.Mid) || isBad(b.Lower) || isBad(b.Width) {
		*flagged = append(*flagged, "Bollinger")
		return nil
	}
	return b
}

func sanitizeStoch(s *Stochastic, flagged *[]string) *Stochastic {
	if s == nil {
		return nil
	}
	if isBad(s.K) || isBad(s.D) {
		*flagged = append(*flagged, "Stochastic")
		return nil
	}
	return s
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
