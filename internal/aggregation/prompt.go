package aggregation

import (
	"fmt"
	"strings"

	"signalengine/internal/bots"
	"signalengine/internal/indicators"
)

// dominantTimeframeLabel picks the most frequently occurring regime label
// across the timeframe map, breaking ties toward the primary regime.
func dominantTimeframeLabel(tfs map[string]indicators.RegimeLabel, primary indicators.RegimeLabel) indicators.RegimeLabel {
	counts := make(map[indicators.RegimeLabel]int)
	for _, label := range tfs {
		counts[label]++
	}
	best, bestCount := primary, -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label == primary) {
			best, bestCount = label, count
		}
	}
	return best
}

// buildRefinementPrompt renders the structured prompt the LLM router's
// clients parse back into a CONFIDENCE/REASONING/ACTION_PLAN/RISK shape
// (providers.HTTPLLMClient.parseRefinement), grounded in the teacher's
// internal/ai/llm.Analyzer prompt-construction pattern.
func buildRefinementPrompt(in Input, direction bots.Direction, preConfidence float64, votes []scoredVote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Coin: %s (%s)\nCurrent price: %.6f\nRegime: %s (confidence %.2f)\n",
		in.Coin, in.Ticker, in.CurrentPrice, in.Regime.Label, in.Regime.Confidence)
	fmt.Fprintf(&b, "Consensus direction: %s, pre-refinement confidence: %.2f\n", direction, preConfidence)
	fmt.Fprintf(&b, "Bot votes considered: %d\n", len(votes))

	if in.Sentiment != nil {
		fmt.Fprintf(&b, "Sentiment: %s (score %.2f)\n", in.Sentiment.Classification, in.Sentiment.Score)
	}
	if in.OnChain != nil {
		fmt.Fprintf(&b, "On-chain signal: %s\n", in.OnChain.OverallSignal)
	}

	b.WriteString("Review this consensus and respond with CONFIDENCE, REASONING, ACTION_PLAN, and RISK sections.\n")
	return b.String()
}
