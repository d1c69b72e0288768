package bots

// emaCrossBot votes LONG when the faster EMA sits above the slower one
// (and vice versa), grounded in the teacher's MovingAverageCrossoverStrategy.
type emaCrossBot struct {
	name              string
	fastLabel, slowLabel string
	fast, slow        func(fs FeatureSet) *float64
	tpPct, slPct      float64
}

func (b emaCrossBot) Name() string       { return b.name }
func (b emaCrossBot) Category() Category { return CategoryTrend }

func (b emaCrossBot) Analyze(fs FeatureSet) (*Vote, bool) {
	fastV, slowV := b.fast(fs), b.slow(fs)
	if fastV == nil || slowV == nil {
		return nil, false
	}
	direction := Long
	if *fastV < *slowV {
		direction = Short
	}
	spread := (*fastV - *slowV) / *slowV
	if spread < 0 {
		spread = -spread
	}
	confidence := 5 + int(spread*100)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, b.tpPct, b.slPct)
	return vote(b.name, CategoryTrend, direction, confidence, entry, tp, sl, 3, fs,
		namef("%s/%s EMA cross", b.fastLabel, b.slowLabel))
}

// adxTrendBot votes with the regime direction when ADX confirms a strong
// trend above threshold.
type adxTrendBot struct {
	name      string
	threshold float64
}

func (b adxTrendBot) Name() string       { return b.name }
func (b adxTrendBot) Category() Category { return CategoryTrend }

func (b adxTrendBot) Analyze(fs FeatureSet) (*Vote, bool) {
	if fs.Features.ADX == nil || *fs.Features.ADX < b.threshold {
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
	confidence := 5 + int(regime.Confidence*5)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.05, 0.03)
	return vote(b.name, CategoryTrend, direction, confidence, entry, tp, sl, 3, fs,
		namef("ADX %.0f confirms %s trend", *fs.Features.ADX, regime.Label))
}

// ichimokuTrendBot votes LONG when price sits above the cloud, SHORT below.
type ichimokuTrendBot struct{ name string }

func (b ichimokuTrendBot) Name() string       { return b.name }
func (b ichimokuTrendBot) Category() Category { return CategoryTrend }

func (b ichimokuTrendBot) Analyze(fs FeatureSet) (*Vote, bool) {
	ich := fs.Features.Ichimoku
	if ich == nil {
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
	case fs.CurrentPrice > cloudTop:
		direction = Long
	case fs.CurrentPrice < cloudBottom:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.06, 0.03)
	return vote(b.name, CategoryTrend, direction, 6, entry, tp, sl, 3, fs, "price outside Ichimoku cloud")
}

// parabolicSARTrendBot votes with the direction implied by price vs SAR.
type parabolicSARTrendBot struct{ name string }

func (b parabolicSARTrendBot) Name() string       { return b.name }
func (b parabolicSARTrendBot) Category() Category { return CategoryTrend }

func (b parabolicSARTrendBot) Analyze(fs FeatureSet) (*Vote, bool) {
	sar := fs.Features.ParabolicSAR
	if sar == nil {
		return nil, false
	}
	direction := Long
	if fs.CurrentPrice < *sar {
		direction = Short
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.025)
	return vote(b.name, CategoryTrend, direction, 5, entry, tp, sl, 2, fs, "parabolic SAR flip")
}

func trendBots() []Bot {
	fv := func(get func(fs FeatureSet) *float64) func(fs FeatureSet) *float64 { return get }

	ema20 := fv(func(fs FeatureSet) *float64 { return fs.Features.EMA.EMA20 })
	ema50 := fv(func(fs FeatureSet) *float64 { return fs.Features.EMA.EMA50 })
	ema200 := fv(func(fs FeatureSet) *float64 { return fs.Features.EMA.EMA200 })

	return []Bot{
		emaCrossBot{name: "trend-ema-20-50", fastLabel: "EMA20", slowLabel: "EMA50", fast: ema20, slow: ema50, tpPct: 0.04, slPct: 0.02},
		emaCrossBot{name: "trend-ema-50-200", fastLabel: "EMA50", slowLabel: "EMA200", fast: ema50, slow: ema200, tpPct: 0.07, slPct: 0.035},
		emaCrossBot{name: "trend-ema-20-200", fastLabel: "EMA20", slowLabel: "EMA200", fast: ema20, slow: ema200, tpPct: 0.08, slPct: 0.04},
		adxTrendBot{name: "trend-adx-30", threshold: 30},
		adxTrendBot{name: "trend-adx-35", threshold: 35},
		adxTrendBot{name: "trend-adx-40", threshold: 40},
		ichimokuTrendBot{name: "trend-ichimoku-cloud"},
		parabolicSARTrendBot{name: "trend-parabolic-sar"},
		smaTrendBot{name: "trend-sma20-price", threshold: 0.01},
		smaTrendBot{name: "trend-sma20-price-strict", threshold: 0.02},
	}
}

// smaTrendBot votes with price position relative to SMA20, a lighter-
// weight trend confirmation than the EMA crosses above.
type smaTrendBot struct {
	name      string
	threshold float64
}

func (b smaTrendBot) Name() string       { return b.name }
func (b smaTrendBot) Category() Category { return CategoryTrend }

func (b smaTrendBot) Analyze(fs FeatureSet) (*Vote, bool) {
	sma := fs.Features.SMA20
	if sma == nil || *sma == 0 {
		return nil, false
	}
	spread := (fs.CurrentPrice - *sma) / *sma
	if absFloat(spread) < b.threshold {
		return nil, false
	}
	direction := Long
	if spread < 0 {
		direction = Short
	}
	confidence := 4 + int(absFloat(spread)*50)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.035, 0.02)
	return vote(b.name, CategoryTrend, direction, confidence, entry, tp, sl, 2, fs,
		namef("price %.2f%% from SMA20", spread*100))
}
