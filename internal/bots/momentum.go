package bots

// macdMomentumBot votes with the MACD histogram's sign.
type macdMomentumBot struct{ name string }

func (b macdMomentumBot) Name() string       { return b.name }
func (b macdMomentumBot) Category() Category { return CategoryMomentum }

func (b macdMomentumBot) Analyze(fs FeatureSet) (*Vote, bool) {
	macd := fs.Features.MACD
	if macd == nil {
		return nil, false
	}
	if macd.Histogram == 0 {
		return nil, false
	}
	direction := Long
	if macd.Histogram < 0 {
		direction = Short
	}
	confidence := 5 + int(absFloat(macd.Histogram)*1000)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.05, 0.025)
	return vote(b.name, CategoryMomentum, direction, confidence, entry, tp, sl, 3, fs, "MACD histogram momentum")
}

// stochasticMomentumBot votes with %K crossing %D.
type stochasticMomentumBot struct{ name string }

func (b stochasticMomentumBot) Name() string       { return b.name }
func (b stochasticMomentumBot) Category() Category { return CategoryMomentum }

func (b stochasticMomentumBot) Analyze(fs FeatureSet) (*Vote, bool) {
	st := fs.Features.Stoch
	if st == nil {
		return nil, false
	}
	switch {
	case st.K > st.D && st.K < 80:
		entry, tp, sl := defaultLevels(Long, fs.CurrentPrice, 0.035, 0.02)
		return vote(b.name, CategoryMomentum, Long, 6, entry, tp, sl, 3, fs, "stochastic %K above %D")
	case st.K < st.D && st.K > 20:
		entry, tp, sl := defaultLevels(Short, fs.CurrentPrice, 0.035, 0.02)
		return vote(b.name, CategoryMomentum, Short, 6, entry, tp, sl, 3, fs, "stochastic %K below %D")
	}
	return nil, false
}

// emaSlopeMomentumBot votes with the short-term EMA20 slope vs SMA20.
type emaSlopeMomentumBot struct{ name string }

func (b emaSlopeMomentumBot) Name() string       { return b.name }
func (b emaSlopeMomentumBot) Category() Category { return CategoryMomentum }

func (b emaSlopeMomentumBot) Analyze(fs FeatureSet) (*Vote, bool) {
	ema20, sma20 := fs.Features.EMA.EMA20, fs.Features.SMA20
	if ema20 == nil || sma20 == nil || *sma20 == 0 {
		return nil, false
	}
	spread := (*ema20 - *sma20) / *sma20
	if absFloat(spread) < 0.002 {
		return nil, false
	}
	direction := Long
	if spread < 0 {
		direction = Short
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.03, 0.018)
	return vote(b.name, CategoryMomentum, direction, 5, entry, tp, sl, 2, fs, "EMA20/SMA20 momentum slope")
}

// adxRisingMomentumBot treats a strongly rising ADX (independent of
// regime label) as a momentum-continuation signal.
type adxRisingMomentumBot struct {
	name      string
	threshold float64
}

func (b adxRisingMomentumBot) Name() string       { return b.name }
func (b adxRisingMomentumBot) Category() Category { return CategoryMomentum }

func (b adxRisingMomentumBot) Analyze(fs FeatureSet) (*Vote, bool) {
	adx := fs.Features.ADX
	if adx == nil || *adx < b.threshold {
		return nil, false
	}
	regime := fs.Features.Regime
	var direction Direction
	switch regime.Label {
	case "BULL":
		direction = Long
	case "BEAR":
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.045, 0.025)
	return vote(b.name, CategoryMomentum, direction, 5, entry, tp, sl, 3, fs, "ADX confirms momentum continuation")
}

// williamsMomentumBot votes with Williams %R momentum away from either
// extreme, distinct from the mean-reversion Williams bot which fades it.
type williamsMomentumBot struct{ name string }

func (b williamsMomentumBot) Name() string       { return b.name }
func (b williamsMomentumBot) Category() Category { return CategoryMomentum }

func (b williamsMomentumBot) Analyze(fs FeatureSet) (*Vote, bool) {
	wr := fs.Features.WilliamsR
	if wr == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *wr > -50 && *wr < -20:
		direction = Long
	case *wr < -50 && *wr > -80:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.03, 0.018)
	return vote(b.name, CategoryMomentum, direction, 5, entry, tp, sl, 2, fs,
		namef("Williams %%R=%.1f mid-range momentum", *wr))
}

func momentumBots() []Bot {
	return []Bot{
		macdMomentumBot{name: "momentum-macd"},
		stochasticMomentumBot{name: "momentum-stochastic"},
		emaSlopeMomentumBot{name: "momentum-ema-slope"},
		adxRisingMomentumBot{name: "momentum-adx-rising-25", threshold: 25},
		adxRisingMomentumBot{name: "momentum-adx-rising-32", threshold: 32},
		williamsMomentumBot{name: "momentum-williams-midrange"},
	}
}
