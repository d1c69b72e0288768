package bots

import "signalengine/internal/store"

// All returns every registered bot across all twelve categories,
// unfiltered. The count is a configuration choice, not a fixed constant
// (spec.md §9 leaves the exact bank size open); this registry currently
// instantiates 63 bots, three to ten parameterized variants per category,
// rather than one struct per bot.
func All() []Bot {
	var out []Bot
	out = append(out, trendBots()...)
	out = append(out, meanReversionBots()...)
	out = append(out, momentumBots()...)
	out = append(out, volumeBots()...)
	out = append(out, volatilityBots()...)
	out = append(out, patternBots()...)
	out = append(out, derivativesBots()...)
	out = append(out, contrarianBots()...)
	out = append(out, onChainBots()...)
	out = append(out, sentimentBots()...)
	out = append(out, specializedBots()...)
	out = append(out, aiBots()...)
	return out
}

// Enabled filters the full bank down to the bots eligible to vote this
// scan, consulting the immutable per-regime snapshot C8 wrote at scan
// start (spec.md §4.4: "Bank exposes enabled_bots(regime) -> [Bot]
// consulting BotAccuracyMetrics.is_enabled + probation status"). A bot
// absent from the snapshot (never scored in this regime yet) is treated
// as enabled at default guardrails, matching the store's zero-row default
// in GetBotAccuracyMetrics.
func Enabled(snapshot map[string]store.BotSnapshot) []Bot {
	all := All()
	out := make([]Bot, 0, len(all))
	for _, b := range all {
		s, ok := snapshot[b.Name()]
		if !ok {
			out = append(out, b)
			continue
		}
		if s.PermanentlyOff || !s.IsEnabled {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Guardrails resolves the leverage ceiling and confidence floor a bot
// should be invoked with, folding the snapshot's per-bot probation
// tightening into the FeatureSet the orchestrator builds once per coin.
func Guardrails(botName string, snapshot map[string]store.BotSnapshot) (maxLeverage int, minConfidence float64) {
	s, ok := snapshot[botName]
	if !ok {
		return 5, 0
	}
	max := s.MaxLeverage
	if max <= 0 {
		max = 5
	}
	return max, s.MinConfidence
}
