package bots

// compositeMomentumScoreBot blends several normalized signals into one
// weighted score, grounded in the teacher's internal/ai/ml.PriceFeatures
// multi-signal composite (MomentumScore/TrendStrength blend) — generalized
// from a short-horizon price predictor into one more BotVote source,
// tagged CategoryAI since it plays the same "model-blended" role the
// aggregation engine's LLM refinement step plays at the recommendation
// level (spec.md §4.5 step 8), just at the single-bot level.
type compositeMomentumScoreBot struct{ name string }

func (b compositeMomentumScoreBot) Name() string       { return b.name }
func (b compositeMomentumScoreBot) Category() Category { return CategoryAI }

func (b compositeMomentumScoreBot) Analyze(fs FeatureSet) (*Vote, bool) {
	var score, weight float64

	if rsi := fs.Features.RSI; rsi != nil {
		score += ((*rsi - 50) / 50) * 0.25
		weight += 0.25
	}
	if macd := fs.Features.MACD; macd != nil {
		sign := 1.0
		if macd.Histogram < 0 {
			sign = -1.0
		}
		score += sign * 0.3
		weight += 0.3
	}
	if adx := fs.Features.ADX; adx != nil {
		regimeSign := 0.0
		switch fs.Features.Regime.Label {
		case "BULL":
			regimeSign = 1
		case "BEAR":
			regimeSign = -1
		}
		score += regimeSign * clampUnit(*adx/50) * 0.25
		weight += 0.25
	}
	if st := fs.Features.Stoch; st != nil {
		score += ((st.K - 50) / 50) * 0.2
		weight += 0.2
	}

	if weight == 0 {
		return nil, false
	}
	normalized := score / weight
	if absFloat(normalized) < 0.15 {
		return nil, false
	}

	direction := Long
	if normalized < 0 {
		direction = Short
	}
	confidence := 5 + int(absFloat(normalized)*10)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.045, 0.025)
	return vote(b.name, CategoryAI, direction, confidence, entry, tp, sl, 3, fs, "composite multi-signal score")
}

// regimeConfidenceWeightedBot votes purely off the regime classifier's own
// confidence, acting as the simplest possible "trust the model" bot.
type regimeConfidenceWeightedBot struct{ name string }

func (b regimeConfidenceWeightedBot) Name() string       { return b.name }
func (b regimeConfidenceWeightedBot) Category() Category { return CategoryAI }

func (b regimeConfidenceWeightedBot) Analyze(fs FeatureSet) (*Vote, bool) {
	regime := fs.Features.Regime
	if regime.Confidence < 0.6 {
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
	confidence := 4 + int(regime.Confidence*6)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.05, 0.028)
	return vote(b.name, CategoryAI, direction, confidence, entry, tp, sl, 3, fs, "high-confidence regime classification")
}

// divergenceScoreBot flags a simple RSI/price divergence: price extends to
// a new local direction while RSI fails to confirm, generalized from the
// teacher's momentum-predictor divergence features into a standalone vote.
type divergenceScoreBot struct{ name string }

func (b divergenceScoreBot) Name() string       { return b.name }
func (b divergenceScoreBot) Category() Category { return CategoryAI }

func (b divergenceScoreBot) Analyze(fs FeatureSet) (*Vote, bool) {
	rsi := fs.Features.RSI
	candles := fs.RawCandles
	if rsi == nil || len(candles) < 10 {
		return nil, false
	}
	recent := candles[len(candles)-10:]
	priceUp := recent[len(recent)-1].C > recent[0].C
	var direction Direction
	switch {
	case priceUp && *rsi < 45:
		direction = Short
	case !priceUp && *rsi > 55:
		direction = Long
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.022)
	return vote(b.name, CategoryAI, direction, 6, entry, tp, sl, 2, fs, "price/RSI divergence")
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func aiBots() []Bot {
	return []Bot{
		compositeMomentumScoreBot{name: "ai-composite-momentum-score"},
		regimeConfidenceWeightedBot{name: "ai-regime-confidence"},
		divergenceScoreBot{name: "ai-price-rsi-divergence"},
	}
}
