package bots

// vwapBot votes against the VWAP deviation (price below VWAP is bullish
// reversion-to-mean, above is bearish).
type vwapBot struct {
	name      string
	threshold float64
}

func (b vwapBot) Name() string       { return b.name }
func (b vwapBot) Category() Category { return CategoryVolume }

func (b vwapBot) Analyze(fs FeatureSet) (*Vote, bool) {
	vwap := fs.Features.VWAP
	if vwap == nil || *vwap == 0 {
		return nil, false
	}
	deviation := (fs.CurrentPrice - *vwap) / *vwap
	if absFloat(deviation) < b.threshold {
		return nil, false
	}
	direction := Long
	if deviation > 0 {
		direction = Short
	}
	confidence := 5 + int(absFloat(deviation)*100)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.03, 0.02)
	return vote(b.name, CategoryVolume, direction, confidence, entry, tp, sl, 2, fs,
		namef("price %.2f%% from VWAP", deviation*100))
}

// obvTrendBot votes with the OBV trend label.
type obvTrendBot struct{ name string }

func (b obvTrendBot) Name() string       { return b.name }
func (b obvTrendBot) Category() Category { return CategoryVolume }

func (b obvTrendBot) Analyze(fs FeatureSet) (*Vote, bool) {
	trend := fs.Features.OBVTrend
	if trend == nil {
		return nil, false
	}
	var direction Direction
	switch *trend {
	case "rising":
		direction = Long
	case "falling":
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.025)
	return vote(b.name, CategoryVolume, direction, 5, entry, tp, sl, 2, fs, "OBV trend confirmation")
}

// regimeVolumeBot votes with the regime direction, scaling confidence by
// the regime classifier's own confidence as a simple proxy for
// participation; it reads no volume or ATR value, since raw volume series
// aren't retained past feature computation.
type regimeVolumeBot struct{ name string }

func (b regimeVolumeBot) Name() string       { return b.name }
func (b regimeVolumeBot) Category() Category { return CategoryVolume }

func (b regimeVolumeBot) Analyze(fs FeatureSet) (*Vote, bool) {
	regime := fs.Features.Regime
	if regime.Confidence < 0.5 {
		return nil, false
	}
	var direction Direction
	switch regime.Label {
	case "BULL":
		direction = Long
	case "BEAR":
		direction = Short
	default:
		return nil, false
	}
	confidence := 4 + int(regime.Confidence*5)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.025)
	return vote(b.name, CategoryVolume, direction, confidence, entry, tp, sl, 2, fs, "regime-confirmed participation")
}

func volumeBots() []Bot {
	return []Bot{
		vwapBot{name: "volume-vwap-deviation-1pct", threshold: 0.01},
		vwapBot{name: "volume-vwap-deviation-2pct", threshold: 0.02},
		obvTrendBot{name: "volume-obv-trend"},
		regimeVolumeBot{name: "volume-regime-participation"},
	}
}
