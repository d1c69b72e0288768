package bots

// contrarianRSIBot fades the crowd more aggressively than the plain
// mean-reversion RSI bots, requiring a deeper extreme before voting, and
// is tagged CategoryContrarian so it participates in the contrarian
// amplification step of aggregation (spec.md §4.5 step 5).
type contrarianRSIBot struct {
	name                 string
	deepOversold, deepOverbought float64
}

func (b contrarianRSIBot) Name() string       { return b.name }
func (b contrarianRSIBot) Category() Category { return CategoryContrarian }

func (b contrarianRSIBot) Analyze(fs FeatureSet) (*Vote, bool) {
	rsi := fs.Features.RSI
	if rsi == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *rsi < b.deepOversold:
		direction = Long
	case *rsi > b.deepOverbought:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.045, 0.025)
	return vote(b.name, CategoryContrarian, direction, 7, entry, tp, sl, 2, fs,
		namef("deep RSI(%.1f) extreme, fading crowd", *rsi))
}

// contrarianFundingBot fades the same funding-rate crowding signal as the
// derivatives bot but at a more extreme threshold, voting higher
// confidence since it only fires on genuine dislocation.
type contrarianFundingBot struct {
	name      string
	threshold float64
}

func (b contrarianFundingBot) Name() string       { return b.name }
func (b contrarianFundingBot) Category() Category { return CategoryContrarian }

func (b contrarianFundingBot) Analyze(fs FeatureSet) (*Vote, bool) {
	fr := fs.FundingRate
	if fr == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *fr > b.threshold:
		direction = Short
	case *fr < -b.threshold:
		direction = Long
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.025)
	return vote(b.name, CategoryContrarian, direction, 7, entry, tp, sl, 2, fs,
		namef("extreme funding %.4f, fading crowd", *fr))
}

// contrarianSentimentBot fades sentiment extremes ("be fearful when
// others are greedy").
type contrarianSentimentBot struct{ name string }

func (b contrarianSentimentBot) Name() string       { return b.name }
func (b contrarianSentimentBot) Category() Category { return CategoryContrarian }

func (b contrarianSentimentBot) Analyze(fs FeatureSet) (*Vote, bool) {
	score := fs.SentimentScore
	if score == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *score > 0.7:
		direction = Short
	case *score < -0.7:
		direction = Long
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.025)
	return vote(b.name, CategoryContrarian, direction, 7, entry, tp, sl, 2, fs,
		namef("sentiment extreme %.2f, fading crowd", *score))
}

func contrarianBots() []Bot {
	return []Bot{
		contrarianRSIBot{name: "contrarian-rsi-deep", deepOversold: 20, deepOverbought: 80},
		contrarianFundingBot{name: "contrarian-funding-extreme-15bp", threshold: 0.0015},
		contrarianFundingBot{name: "contrarian-funding-extreme-25bp", threshold: 0.0025},
		contrarianSentimentBot{name: "contrarian-sentiment-extreme"},
	}
}
