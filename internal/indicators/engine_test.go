package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func makeCandles(n int, start, step float64) []Candle {
	candles := make([]Candle, n)
	price := start
	base := time.Now().Add(-time.Duration(n) * 24 * time.Hour)
	for i := 0; i < n; i++ {
		candles[i] = Candle{
			T: base.Add(time.Duration(i) * 24 * time.Hour),
			O: price, H: price * 1.01, L: price * 0.99, C: price, V: 1000,
		}
		price += step
	}
	return candles
}

func TestRSIReturnsNilBelowMinimumCandles(t *testing.T) {
	assert.Nil(t, RSI(makeCandles(10, 100, 1), 14))
}

func TestRSIReturnsValueAboveMinimum(t *testing.T) {
	v := RSI(makeCandles(30, 100, 1), 14)
	if assert.NotNil(t, v) {
		assert.GreaterOrEqual(t, *v, 0.0)
		assert.LessOrEqual(t, *v, 100.0)
	}
}

func TestMACDReturnsNilBelowMinimumCandles(t *testing.T) {
	assert.Nil(t, MACDIndicator(makeCandles(20, 100, 1), 12, 26, 9))
}

func TestMACDReturnsValueAboveMinimum(t *testing.T) {
	m := MACDIndicator(makeCandles(60, 100, 1), 12, 26, 9)
	assert.NotNil(t, m)
}

func TestBollingerBandsOrdering(t *testing.T) {
	b := BollingerBands(makeCandles(30, 100, 0.5), 20, 2.0)
	if assert.NotNil(t, b) {
		assert.Greater(t, b.Upper, b.Mid)
		assert.Greater(t, b.Mid, b.Lower)
	}
}

func TestADXReturnsNilBelowMinimumCandles(t *testing.T) {
	assert.Nil(t, ADX(makeCandles(20, 100, 1), 14))
}

func TestClassifyRegimeBullOnStrongUptrendWithTrend(t *testing.T) {
	candles := makeCandles(60, 100, 3)
	regime := ClassifyRegime(candles)
	assert.Equal(t, RegimeBull, regime.Label)
	assert.GreaterOrEqual(t, regime.Confidence, 0.0)
	assert.LessOrEqual(t, regime.Confidence, 1.0)
}

func TestComputeNeverPanicsOnShortSeries(t *testing.T) {
	fv := Compute("BTC", "1d", makeCandles(5, 100, 1), nil)
	assert.Nil(t, fv.RSI)
	assert.Nil(t, fv.MACD)
	assert.Equal(t, "BTC", fv.Symbol)
}

func TestComputePopulatesIndicatorsWithSufficientHistory(t *testing.T) {
	fv := Compute("BTC", "1d", makeCandles(220, 100, 0.3), makeCandles(180, 100, 0.2))
	assert.NotNil(t, fv.RSI)
	assert.NotNil(t, fv.EMA.EMA200)
	assert.NotNil(t, fv.Regime4h)
}
