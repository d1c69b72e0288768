package bots

// fundingRateBot fades extreme positive funding (crowded longs pay shorts,
// contrarian pressure builds) and extreme negative funding symmetrically.
type fundingRateBot struct{ name string }

func (b fundingRateBot) Name() string       { return b.name }
func (b fundingRateBot) Category() Category { return CategoryDerivatives }

func (b fundingRateBot) Analyze(fs FeatureSet) (*Vote, bool) {
	fr := fs.FundingRate
	if fr == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *fr > 0.0005:
		direction = Short
	case *fr < -0.0005:
		direction = Long
	default:
		return nil, false
	}
	confidence := 5 + int(absFloat(*fr)*2000)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.03, 0.02)
	return vote(b.name, CategoryDerivatives, direction, confidence, entry, tp, sl, 2, fs,
		namef("funding rate %.4f crowded", *fr))
}

// openInterestBot treats a sharp rise as confirmation of the prevailing
// regime direction (new money entering the dominant side).
type openInterestBot struct{ name string }

func (b openInterestBot) Name() string       { return b.name }
func (b openInterestBot) Category() Category { return CategoryDerivatives }

func (b openInterestBot) Analyze(fs FeatureSet) (*Vote, bool) {
	oi := fs.OpenInterest
	if oi == nil || *oi <= 0 {
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
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.025)
	return vote(b.name, CategoryDerivatives, direction, 5, entry, tp, sl, 3, fs, "open interest confirms regime")
}

// longShortRatioBot fades a lopsided crowd: when longs dominate heavily,
// vote SHORT (and vice versa), a classic contrarian derivatives read.
type longShortRatioBot struct {
	name       string
	highRatio  float64
	lowRatio   float64
}

func (b longShortRatioBot) Name() string       { return b.name }
func (b longShortRatioBot) Category() Category { return CategoryDerivatives }

func (b longShortRatioBot) Analyze(fs FeatureSet) (*Vote, bool) {
	ratio := fs.LongShortRatio
	if ratio == nil || *ratio <= 0 {
		return nil, false
	}
	var direction Direction
	switch {
	case *ratio > b.highRatio:
		direction = Short
	case *ratio < b.lowRatio:
		direction = Long
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.035, 0.02)
	return vote(b.name, CategoryDerivatives, direction, 6, entry, tp, sl, 2, fs,
		namef("long/short ratio %.2f lopsided", *ratio))
}

// putCallRatioBot fades a lopsided options crowd the same way
// longShortRatioBot fades a lopsided futures crowd: heavy put buying reads
// as capitulation (contrarian LONG), heavy call buying as euphoria
// (contrarian SHORT).
type putCallRatioBot struct {
	name      string
	highRatio float64
	lowRatio  float64
}

func (b putCallRatioBot) Name() string       { return b.name }
func (b putCallRatioBot) Category() Category { return CategoryDerivatives }

func (b putCallRatioBot) Analyze(fs FeatureSet) (*Vote, bool) {
	ratio := fs.PutCallRatio
	if ratio == nil || *ratio <= 0 {
		return nil, false
	}
	var direction Direction
	switch {
	case *ratio > b.highRatio:
		direction = Long
	case *ratio < b.lowRatio:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.03, 0.02)
	return vote(b.name, CategoryDerivatives, direction, 5, entry, tp, sl, 2, fs,
		namef("put/call ratio %.2f lopsided", *ratio))
}

// ivExpansionBot treats a high implied-volatility reading as a signal that
// options writers are pricing a large move, and follows the prevailing
// regime direction rather than guessing the side.
type ivExpansionBot struct {
	name      string
	threshold float64
}

func (b ivExpansionBot) Name() string       { return b.name }
func (b ivExpansionBot) Category() Category { return CategoryDerivatives }

func (b ivExpansionBot) Analyze(fs FeatureSet) (*Vote, bool) {
	iv := fs.IV
	if iv == nil || *iv < b.threshold {
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
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.045, 0.03)
	return vote(b.name, CategoryDerivatives, direction, 4, entry, tp, sl, 2, fs,
		namef("implied vol %.2f elevated, regime confirms", *iv))
}

func derivativesBots() []Bot {
	return []Bot{
		fundingRateBot{name: "derivatives-funding-rate"},
		openInterestBot{name: "derivatives-open-interest"},
		longShortRatioBot{name: "derivatives-long-short-ratio-2x", highRatio: 2.0, lowRatio: 0.5},
		longShortRatioBot{name: "derivatives-long-short-ratio-3x", highRatio: 3.0, lowRatio: 0.33},
		putCallRatioBot{name: "derivatives-put-call-ratio", highRatio: 1.3, lowRatio: 0.7},
		ivExpansionBot{name: "derivatives-iv-expansion", threshold: 0.6},
	}
}
