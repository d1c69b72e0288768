package bots

// multiOscillatorConfluenceBot requires RSI, Stochastic, and CCI to all
// agree before voting, trading signal frequency for higher confidence.
type multiOscillatorConfluenceBot struct{ name string }

func (b multiOscillatorConfluenceBot) Name() string       { return b.name }
func (b multiOscillatorConfluenceBot) Category() Category { return CategorySpecialized }

func (b multiOscillatorConfluenceBot) Analyze(fs FeatureSet) (*Vote, bool) {
	rsi, st, cci := fs.Features.RSI, fs.Features.Stoch, fs.Features.CCI
	if rsi == nil || st == nil || cci == nil {
		return nil, false
	}
	oversold := *rsi < 35 && st.K < 25 && *cci < -100
	overbought := *rsi > 65 && st.K > 75 && *cci > 100
	var direction Direction
	switch {
	case oversold:
		direction = Long
	case overbought:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.05, 0.025)
	return vote(b.name, CategorySpecialized, direction, 8, entry, tp, sl, 3, fs, "three-oscillator confluence")
}

// ichimokuMomentumConfluenceBot combines cloud position with MACD
// histogram sign.
type ichimokuMomentumConfluenceBot struct{ name string }

func (b ichimokuMomentumConfluenceBot) Name() string       { return b.name }
func (b ichimokuMomentumConfluenceBot) Category() Category { return CategorySpecialized }

func (b ichimokuMomentumConfluenceBot) Analyze(fs FeatureSet) (*Vote, bool) {
	ich, macd := fs.Features.Ichimoku, fs.Features.MACD
	if ich == nil || macd == nil {
		return nil, false
	}
	cloudTop := ich.SenkouA
	if ich.SenkouB > cloudTop {
		cloudTop = ich.SenkouB
	}
	cloudBottom := ich.SenkouA
	if ich.SenkouB < cloudBottom {
		cloudBottom = ich.SenkouB
	}
	var direction Direction
	switch {
	case fs.CurrentPrice > cloudTop && macd.Histogram > 0:
		direction = Long
	case fs.CurrentPrice < cloudBottom && macd.Histogram < 0:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.06, 0.03)
	return vote(b.name, CategorySpecialized, direction, 7, entry, tp, sl, 3, fs, "cloud position confirmed by MACD")
}

// volatilityAdjustedBreakoutBot only votes on a Bollinger-band breakout
// when ADX also confirms trend strength, a specialized combination of two
// otherwise-separate signal families.
type volatilityAdjustedBreakoutBot struct{ name string }

func (b volatilityAdjustedBreakoutBot) Name() string       { return b.name }
func (b volatilityAdjustedBreakoutBot) Category() Category { return CategorySpecialized }

func (b volatilityAdjustedBreakoutBot) Analyze(fs FeatureSet) (*Vote, bool) {
	bb, adx := fs.Features.Bollinger, fs.Features.ADX
	if bb == nil || adx == nil || *adx < 25 {
		return nil, false
	}
	var direction Direction
	switch {
	case fs.CurrentPrice > bb.Upper:
		direction = Long
	case fs.CurrentPrice < bb.Lower:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.055, 0.03)
	return vote(b.name, CategorySpecialized, direction, 7, entry, tp, sl, 3, fs, "ADX-confirmed band breakout")
}

// trendVolumeConfluenceBot requires both a confirmed regime direction and
// VWAP-deviation alignment before voting, combining the trend and volume
// signal families into one higher-confidence specialized bot.
type trendVolumeConfluenceBot struct{ name string }

func (b trendVolumeConfluenceBot) Name() string       { return b.name }
func (b trendVolumeConfluenceBot) Category() Category { return CategorySpecialized }

func (b trendVolumeConfluenceBot) Analyze(fs FeatureSet) (*Vote, bool) {
	vwap := fs.Features.VWAP
	if vwap == nil || *vwap == 0 {
		return nil, false
	}
	regime := fs.Features.Regime
	deviation := (fs.CurrentPrice - *vwap) / *vwap
	var direction Direction
	switch {
	case regime.Label == "BULL" && deviation > 0.005:
		direction = Long
	case regime.Label == "BEAR" && deviation < -0.005:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.05, 0.028)
	return vote(b.name, CategorySpecialized, direction, 7, entry, tp, sl, 3, fs, "regime and VWAP deviation confluence")
}

func specializedBots() []Bot {
	return []Bot{
		multiOscillatorConfluenceBot{name: "specialized-oscillator-confluence"},
		ichimokuMomentumConfluenceBot{name: "specialized-ichimoku-momentum"},
		volatilityAdjustedBreakoutBot{name: "specialized-volatility-breakout"},
		trendVolumeConfluenceBot{name: "specialized-trend-volume-confluence"},
	}
}
