package bots

// rsiReversionBot votes LONG when RSI is oversold, SHORT when overbought,
// grounded in the teacher's RSIStrategy.
type rsiReversionBot struct {
	name                      string
	period                    int
	oversold, overbought      float64
}

func (b rsiReversionBot) Name() string       { return b.name }
func (b rsiReversionBot) Category() Category { return CategoryMeanReversion }

func (b rsiReversionBot) Analyze(fs FeatureSet) (*Vote, bool) {
	rsi := fs.Features.RSI
	if rsi == nil {
		return nil, false
	}
	var direction Direction
	var confidence int
	switch {
	case *rsi < b.oversold:
		direction = Long
		confidence = 5 + int((b.oversold-*rsi)/3)
	case *rsi > b.overbought:
		direction = Short
		confidence = 5 + int((*rsi-b.overbought)/3)
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.03, 0.02)
	return vote(b.name, CategoryMeanReversion, direction, confidence, entry, tp, sl, 3, fs,
		namef("RSI(%d)=%.1f reversion", b.period, *rsi))
}

// bollingerReversionBot votes LONG at the lower band, SHORT at the upper,
// staging entry/TP/SL directly off the band levels.
type bollingerReversionBot struct {
	name   string
	period int
}

func (b bollingerReversionBot) Name() string       { return b.name }
func (b bollingerReversionBot) Category() Category { return CategoryMeanReversion }

func (b bollingerReversionBot) Analyze(fs FeatureSet) (*Vote, bool) {
	bb := fs.Features.Bollinger
	if bb == nil {
		return nil, false
	}
	price := fs.CurrentPrice
	switch {
	case price <= bb.Lower:
		return vote(b.name, CategoryMeanReversion, Long, 6, price, bb.Mid, bb.Lower*0.985, 3, fs, "price at lower Bollinger band")
	case price >= bb.Upper:
		return vote(b.name, CategoryMeanReversion, Short, 6, price, bb.Mid, bb.Upper*1.015, 3, fs, "price at upper Bollinger band")
	}
	return nil, false
}

// cciReversionBot votes against CCI extremes.
type cciReversionBot struct {
	name      string
	threshold float64
}

func (b cciReversionBot) Name() string       { return b.name }
func (b cciReversionBot) Category() Category { return CategoryMeanReversion }

func (b cciReversionBot) Analyze(fs FeatureSet) (*Vote, bool) {
	cci := fs.Features.CCI
	if cci == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *cci < -b.threshold:
		direction = Long
	case *cci > b.threshold:
		direction = Short
	default:
		return nil, false
	}
	confidence := 5 + int((absFloat(*cci)-b.threshold)/50)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.035, 0.02)
	return vote(b.name, CategoryMeanReversion, direction, confidence, entry, tp, sl, 2, fs,
		namef("CCI=%.1f extreme", *cci))
}

// williamsRReversionBot mirrors CCI using Williams %R.
type williamsRReversionBot struct{ name string }

func (b williamsRReversionBot) Name() string       { return b.name }
func (b williamsRReversionBot) Category() Category { return CategoryMeanReversion }

func (b williamsRReversionBot) Analyze(fs FeatureSet) (*Vote, bool) {
	wr := fs.Features.WilliamsR
	if wr == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *wr < -80:
		direction = Long
	case *wr > -20:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.03, 0.02)
	return vote(b.name, CategoryMeanReversion, direction, 6, entry, tp, sl, 2, fs,
		namef("Williams %%R=%.1f extreme", *wr))
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func meanReversionBots() []Bot {
	return []Bot{
		rsiReversionBot{name: "reversion-rsi-14", period: 14, oversold: 30, overbought: 70},
		rsiReversionBot{name: "reversion-rsi-7", period: 7, oversold: 25, overbought: 75},
		rsiReversionBot{name: "reversion-rsi-21", period: 21, oversold: 35, overbought: 65},
		rsiReversionBot{name: "reversion-rsi-10-tight", period: 10, oversold: 20, overbought: 80},
		bollingerReversionBot{name: "reversion-bollinger-20", period: 20},
		cciReversionBot{name: "reversion-cci-100", threshold: 100},
		cciReversionBot{name: "reversion-cci-150", threshold: 150},
		cciReversionBot{name: "reversion-cci-200", threshold: 200},
		williamsRReversionBot{name: "reversion-williams-r"},
	}
}
