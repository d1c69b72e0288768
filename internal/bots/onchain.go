package bots

// whaleActivityBot votes with elevated whale accumulation/distribution.
type whaleActivityBot struct {
	name      string
	threshold float64
}

func (b whaleActivityBot) Name() string       { return b.name }
func (b whaleActivityBot) Category() Category { return CategoryOnChain }

func (b whaleActivityBot) Analyze(fs FeatureSet) (*Vote, bool) {
	whale := fs.WhaleActivity
	if whale == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *whale > b.threshold:
		direction = Long
	case *whale < -b.threshold:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.045, 0.025)
	return vote(b.name, CategoryOnChain, direction, 6, entry, tp, sl, 2, fs,
		namef("whale activity signal %.2f", *whale))
}

// exchangeFlowBot votes LONG on net outflow from exchanges (supply
// leaving liquid venues), SHORT on net inflow.
type exchangeFlowBot struct{ name string }

func (b exchangeFlowBot) Name() string       { return b.name }
func (b exchangeFlowBot) Category() Category { return CategoryOnChain }

func (b exchangeFlowBot) Analyze(fs FeatureSet) (*Vote, bool) {
	flow := fs.ExchangeFlows
	if flow == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *flow < 0:
		direction = Long
	case *flow > 0:
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.022)
	return vote(b.name, CategoryOnChain, direction, 5, entry, tp, sl, 2, fs,
		namef("net exchange flow %.2f", *flow))
}

// onChainSignalBot votes directly from C2's normalized overall_signal.
type onChainSignalBot struct{ name string }

func (b onChainSignalBot) Name() string       { return b.name }
func (b onChainSignalBot) Category() Category { return CategoryOnChain }

func (b onChainSignalBot) Analyze(fs FeatureSet) (*Vote, bool) {
	signal := fs.OnChainSignal
	if signal == nil {
		return nil, false
	}
	var direction Direction
	switch *signal {
	case "bullish":
		direction = Long
	case "bearish":
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.022)
	return vote(b.name, CategoryOnChain, direction, 5, entry, tp, sl, 2, fs, "on-chain overall signal "+*signal)
}

func onChainBots() []Bot {
	return []Bot{
		whaleActivityBot{name: "onchain-whale-activity-moderate", threshold: 0.3},
		whaleActivityBot{name: "onchain-whale-activity-strong", threshold: 0.5},
		exchangeFlowBot{name: "onchain-exchange-flows"},
		onChainSignalBot{name: "onchain-overall-signal"},
	}
}
