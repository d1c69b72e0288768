package bots

// sentimentScoreBot votes with the blended sentiment score at a given
// threshold, grounded in the teacher's internal/ai/sentiment.Analyzer
// overall score.
type sentimentScoreBot struct {
	name      string
	threshold float64
}

func (b sentimentScoreBot) Name() string       { return b.name }
func (b sentimentScoreBot) Category() Category { return CategorySentiment }

func (b sentimentScoreBot) Analyze(fs FeatureSet) (*Vote, bool) {
	score := fs.SentimentScore
	if score == nil {
		return nil, false
	}
	var direction Direction
	switch {
	case *score > b.threshold:
		direction = Long
	case *score < -b.threshold:
		direction = Short
	default:
		return nil, false
	}
	confidence := 5 + int(absFloat(*score)*5)
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.035, 0.02)
	return vote(b.name, CategorySentiment, direction, confidence, entry, tp, sl, 2, fs,
		namef("sentiment score %.2f", *score))
}

// sentimentRegimeConfirmBot only votes when sentiment direction agrees
// with the indicator regime, a lower-frequency but higher-confidence
// sentiment signal.
type sentimentRegimeConfirmBot struct{ name string }

func (b sentimentRegimeConfirmBot) Name() string       { return b.name }
func (b sentimentRegimeConfirmBot) Category() Category { return CategorySentiment }

func (b sentimentRegimeConfirmBot) Analyze(fs FeatureSet) (*Vote, bool) {
	score := fs.SentimentScore
	if score == nil {
		return nil, false
	}
	regime := fs.Features.Regime
	var direction Direction
	switch {
	case *score > 0.2 && regime.Label == "BULL":
		direction = Long
	case *score < -0.2 && regime.Label == "BEAR":
		direction = Short
	default:
		return nil, false
	}
	entry, tp, sl := defaultLevels(direction, fs.CurrentPrice, 0.04, 0.022)
	return vote(b.name, CategorySentiment, direction, 7, entry, tp, sl, 2, fs, "sentiment confirms regime")
}

func sentimentBots() []Bot {
	return []Bot{
		sentimentScoreBot{name: "sentiment-score-light", threshold: 0.2},
		sentimentScoreBot{name: "sentiment-score-moderate", threshold: 0.3},
		sentimentScoreBot{name: "sentiment-score-strong", threshold: 0.5},
		sentimentRegimeConfirmBot{name: "sentiment-regime-confirm"},
	}
}
