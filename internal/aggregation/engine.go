package aggregation

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	"signalengine/internal/bots"
	"signalengine/internal/providers"
)

// Refiner is the subset of providers.LLMRouter step 8 needs, kept as an
// interface so tests can substitute a fake instead of standing up real
// HTTP LLM clients and circuit breakers.
type Refiner interface {
	AnalyzeIndependent(ctx context.Context, prompt string, n int) []providers.LLMRefinement
}

// Engine runs the C5 algorithm for one coin at a time.
type Engine struct {
	refiner Refiner
}

func NewEngine(refiner Refiner) *Engine {
	return &Engine{refiner: refiner}
}

type scoredVote struct {
	bots.Vote
	effective float64 // confidence after step 2's regime multiplier, unclamped
}

// Aggregate runs the ten-step algorithm. A nil Decision means the coin was
// filtered out (no votes survived confidence gating) —
// spec.md §4.5 describes this as a null output, not an error.
func (e *Engine) Aggregate(ctx context.Context, in Input) *Decision {
	regime := string(in.Regime.Label)

	// Step 1: confidence gating.
	var gated []bots.Vote
	for _, v := range in.Votes {
		if v.Confidence >= 6 {
			gated = append(gated, v)
		}
	}
	if len(gated) == 0 {
		return nil
	}

	// Step 2: regime weighting.
	scored := make([]scoredVote, 0, len(gated))
	for _, v := range gated {
		mult := categoryWeight(v.BotCategory, regime)
		botWeight := in.BotWeights[v.BotName]
		if botWeight <= 0 {
			botWeight = 1.0
		}
		scored = append(scored, scoredVote{Vote: v, effective: float64(v.Confidence) * mult * botWeight})
	}

	// Step 3: weighted tallies.
	var longScore, shortScore float64
	var longConfs, shortConfs []int
	for _, s := range scored {
		switch s.Direction {
		case bots.Long:
			longScore += s.effective
			longConfs = append(longConfs, s.Confidence)
		case bots.Short:
			shortScore += s.effective
			shortConfs = append(shortConfs, s.Confidence)
		}
	}

	direction := bots.Long
	switch {
	case longScore > shortScore:
		direction = bots.Long
	case shortScore > longScore:
		direction = bots.Short
	default:
		if median(shortConfs) > median(longConfs) {
			direction = bots.Short
		}
	}

	var winning []scoredVote
	var winningScore, losingScore float64
	if direction == bots.Long {
		winningScore, losingScore = longScore, shortScore
	} else {
		winningScore, losingScore = shortScore, longScore
	}
	for _, s := range scored {
		if s.Direction == direction {
			winning = append(winning, s)
		}
	}
	if len(winning) == 0 {
		return nil
	}

	// Normalize the winning side's average effective confidence (on the
	// bots' native 1-10 scale, after regime/bot-weight multipliers) into a
	// [0,1] aggregate confidence, the scale every later step operates on.
	// The source docs describe steps 4-9 purely in terms of multiplicative
	// boosts without fixing this base scale explicitly; averaging and
	// dividing by 10 is the choice made here.
	var sumEffective float64
	for _, s := range winning {
		sumEffective += s.effective
	}
	confidence := clamp01((sumEffective / float64(len(winning))) / 10.0)

	var riskNotes []string

	// Step 4: consensus tier.
	total := winningScore + losingScore
	if total > 0 {
		agreement := winningScore / total
		switch {
		case agreement >= 0.80:
			confidence = clamp01(confidence * 1.15)
		case agreement < 0.50:
			confidence = clamp01(confidence * 0.7)
			riskNotes = append(riskNotes, "HIGH_UNCERTAINTY: low consensus agreement")
		}
	}

	// Step 5: contrarian amplification, capped once per recommendation.
	contrarianAgree := 0
	for _, s := range winning {
		if s.BotCategory == bots.CategoryContrarian && s.Confidence >= 7 {
			contrarianAgree++
		}
	}
	if contrarianAgree >= 3 {
		confidence = clamp01(confidence * 1.15)
	}

	// Step 6: multi-timeframe alignment.
	alignScore := 0
	dominantRegime := regime
	if len(in.TimeframeRegimes) > 0 {
		matching := 0
		for _, label := range in.TimeframeRegimes {
			if label == in.Regime.Label {
				matching++
			}
		}
		alignScore = alignmentScore(matching)
		confidence = clamp01(confidence * alignmentBoost(alignScore))
		dominantRegime = string(dominantTimeframeLabel(in.TimeframeRegimes, in.Regime.Label))
	}

	// Step 7: external-signal nudges, capped at +0.15 combined.
	var nudge float64
	if in.Sentiment != nil && classificationMatches(in.Sentiment.Classification, direction) {
		nudge += 0.10
	}
	if in.OnChain != nil && classificationMatches(in.OnChain.OverallSignal, direction) {
		nudge += 0.05
	}
	if nudge > 0.15 {
		nudge = 0.15
	}
	confidence = clamp01(confidence + nudge)

	// Step 8: AI refinement, non-fatal on failure.
	var reasoning, actionPlan, riskAssessment, marketContext *string
	if confidence >= 0.75 && e.refiner != nil {
		prompt := buildRefinementPrompt(in, direction, confidence, scored)
		refinements := e.refiner.AnalyzeIndependent(ctx, prompt, 2)
		if len(refinements) > 0 {
			confidence, riskNotes = applyRefinement(refinements, confidence, riskNotes)
			r := refinements[0]
			reasoning, actionPlan, riskAssessment, marketContext = &r.Reasoning, &r.ActionPlan, &r.RiskAssessment, &r.MarketContext
		}
	}

	// Step 9: price targets.
	entries, tps, sls := make([]float64, 0, len(winning)), make([]float64, 0, len(winning)), make([]float64, 0, len(winning))
	for _, s := range winning {
		entries = append(entries, s.Entry)
		tps = append(tps, s.TakeProfit)
		sls = append(sls, s.StopLoss)
	}
	avgEntry, avgTP, avgSL := medianFloat(entries), medianFloat(tps), medianFloat(sls)

	sign := 1.0
	if direction == bots.Short {
		sign = -1.0
	}
	change24h := sign * 0.02 * confidence
	change48h := sign * 0.04 * confidence
	change7d := sign * 0.08 * confidence
	predicted24h := in.CurrentPrice * (1 + change24h)
	predicted48h := in.CurrentPrice * (1 + change48h)
	predicted7d := in.CurrentPrice * (1 + change7d)

	var onchainSignal *string
	if in.OnChain != nil {
		s := in.OnChain.OverallSignal
		onchainSignal = &s
	}
	var sentimentScore *float64
	if in.Sentiment != nil {
		s := in.Sentiment.Score
		sentimentScore = &s
	}

	rec := Recommendation{
		ID:                      uuid.New(),
		RunID:                   in.RunID,
		Coin:                    in.Coin,
		Ticker:                  in.Ticker,
		CurrentPrice:            in.CurrentPrice,
		ConsensusDirection:      direction,
		AvgConfidence:           confidence,
		BotCount:                len(gated),
		LongBots:                len(longConfs),
		ShortBots:               len(shortConfs),
		AvgEntry:                avgEntry,
		AvgTakeProfit:           avgTP,
		AvgStopLoss:             avgSL,
		Predicted24h:            sanitizeFloat(predicted24h),
		Predicted48h:            sanitizeFloat(predicted48h),
		Predicted7d:             sanitizeFloat(predicted7d),
		PredictedChange24h:      sanitizeFloat(change24h),
		PredictedChange48h:      sanitizeFloat(change48h),
		PredictedChange7d:       sanitizeFloat(change7d),
		MarketRegime:            regime,
		RegimeConfidence:        in.Regime.Confidence,
		AIReasoning:             reasoning,
		ActionPlan:              actionPlan,
		RiskAssessment:          riskAssessment,
		MarketContext:           marketContext,
		TimeframeAlignmentScore: alignScore,
		DominantTimeframeRegime: dominantRegime,
		OnchainSignal:           onchainSignal,
		SocialSentimentScore:    sentimentScore,
		RiskNotes:               riskNotes,
		CreatedAt:               in.Timestamp,
	}

	// Step 10: finalization — persist one BotPrediction per gated vote,
	// winning and losing side alike, so bot_count stays equal to the number
	// of persisted rows for this (run_id, coin_symbol).
	predictions := make([]Prediction, 0, len(scored))
	for _, s := range scored {
		predictions = append(predictions, Prediction{
			BotName:           s.BotName,
			CoinSymbol:        in.Coin,
			EntryPrice:        s.Entry,
			TargetPrice:       s.TakeProfit,
			StopLoss:          s.StopLoss,
			PositionDirection: s.Direction,
			ConfidenceScore:   s.Confidence,
			Leverage:          s.Leverage,
			MarketRegime:      regime,
		})
	}

	return &Decision{Recommendation: rec, Predictions: predictions}
}

func classificationMatches(classification string, direction bots.Direction) bool {
	switch direction {
	case bots.Long:
		return classification == "bullish"
	case bots.Short:
		return classification == "bearish"
	default:
		return false
	}
}

func applyRefinement(refinements []providers.LLMRefinement, confidence float64, notes []string) (float64, []string) {
	clip := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 0.95 {
			return 0.95
		}
		return v
	}
	if len(refinements) == 1 {
		return clip(refinements[0].RefinedConfidence), notes
	}
	a, b := clip(refinements[0].RefinedConfidence), clip(refinements[1].RefinedConfidence)
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff > 0.10:
		min := a
		if b < a {
			min = b
		}
		return min, append(notes, "HIGH_UNCERTAINTY: independent LLM refinements disagree")
	case diff <= 0.05:
		avg := (a + b) / 2
		return clip(avg * 1.08), notes
	default:
		return (a + b) / 2, notes
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func median(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}

func medianFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func sanitizeFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
