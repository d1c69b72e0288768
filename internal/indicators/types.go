// Package indicators implements C3: pure, deterministic technical-analysis
// math over a candle series. No function here performs I/O. Every
// indicator that needs more history than it was given returns a nil
// pointer rather than the teacher's convention of returning a sentinel
// zero or neutral value — spec.md §4.3 is explicit that an indicator must
// be absent, not silently wrong, when data is insufficient.
package indicators

import "time"

// Candle mirrors providers.Candle so this package stays free of an import
// on the provider layer; Compute takes a []Candle built from
// whatever OHLCV source C2 returned.
type Candle struct {
	T          time.Time
	O, H, L, C, V float64
}

// MACD holds the MACD line, its signal line, and their difference.
type MACD struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// Bollinger holds Bollinger Band levels and normalized width.
type Bollinger struct {
	Upper float64
	Mid   float64
	Lower float64
	Width float64 // (Upper-Lower)/Mid
}

// EMASet holds the three EMA periods the spec tracks together.
type EMASet struct {
	EMA20  *float64
	EMA50  *float64
	EMA200 *float64
}

// Stochastic holds %K and %D.
type Stochastic struct {
	K float64
	D float64
}

// Ichimoku holds the cloud's five lines.
type Ichimoku struct {
	Tenkan      float64
	Kijun       float64
	SenkouA     float64
	SenkouB     float64
	Chikou      float64
}

// RegimeLabel classifies the prevailing market regime, spec.md §4.3.
type RegimeLabel string

const (
	RegimeBull     RegimeLabel = "BULL"
	RegimeBear     RegimeLabel = "BEAR"
	RegimeSideways RegimeLabel = "SIDEWAYS"
	RegimeVolatile RegimeLabel = "VOLATILE"
)

// Regime is the classified regime plus its confidence in [0, 1].
type Regime struct {
	Label      RegimeLabel
	Confidence float64
}

// FeatureVector is the ephemeral, never-persisted output of one Compute
// call. Every indicator field is nullable: a nil pointer means "not enough
// candles", not zero.
type FeatureVector struct {
	Symbol    string
	Timeframe string

	RSI        *float64
	MACD       *MACD
	Bollinger  *Bollinger
	EMA        EMASet
	SMA20      *float64
	ATR        *float64
	ADX        *float64
	Stoch      *Stochastic
	CCI        *float64
	WilliamsR  *float64
	VWAP       *float64
	OBVTrend   *string // "rising" | "falling" | "flat"
	Ichimoku   *Ichimoku
	ParabolicSAR *float64

	Regime   Regime
	Regime4h *Regime // second-pass alignment regime, spec.md §4.3

	// Flagged records which requested indicators were dropped because the
	// source produced a NaN/±Inf value, for observability only.
	Flagged []string
}
