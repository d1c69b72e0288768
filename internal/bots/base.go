package bots

import (
	"fmt"
	"math"
)

// finite reports whether v is safe to vote with.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clampConfidence forces an integer confidence into [1, 10].
func clampConfidence(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// clampLeverage forces an integer leverage into [1, max].
func clampLeverage(v, max int) int {
	if max <= 0 {
		max = 1
	}
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}

// defaultLevels derives entry/TP/SL around the current price using a
// directional percent move, the convention every bot in this package uses
// unless it stages its own levels from an indicator (e.g. Bollinger
// bands). pct is expressed as a fraction (0.03 == 3%).
func defaultLevels(direction Direction, price, tpPct, slPct float64) (entry, tp, sl float64) {
	entry = price
	if direction == Long {
		return entry, entry * (1 + tpPct), entry * (1 - slPct)
	}
	return entry, entry * (1 - tpPct), entry * (1 + slPct)
}

// vote builds a Vote after validating every numeric field is finite and
// positive; bots call this as their single exit point so an accidental
// NaN/Inf anywhere in the computation becomes an abstain, not a bad
// write, per spec.md §4.4. It also enforces the per-bot guardrail floor
// C8's probation state carries in fs: a bot whose confidence falls below
// fs.MinConfidence abstains instead of voting, per spec.md §4.8.
func vote(botName string, category Category, direction Direction, confidence int, entry, tp, sl float64, leverage int, fs FeatureSet, rationale string) (*Vote, bool) {
	if !finite(entry) || !finite(tp) || !finite(sl) || entry <= 0 || tp <= 0 || sl <= 0 {
		return nil, false
	}
	clamped := clampConfidence(confidence)
	if fs.MinConfidence > 0 && float64(clamped)/10.0 < fs.MinConfidence {
		return nil, false
	}
	return &Vote{
		BotName:     botName,
		Direction:   direction,
		Confidence:  clamped,
		Entry:       entry,
		TakeProfit:  tp,
		StopLoss:    sl,
		Leverage:    clampLeverage(leverage, guardrailMaxLeverage(fs)),
		Rationale:   rationale,
		BotCategory: category,
	}, true
}

func namef(template string, args ...interface{}) string {
	return fmt.Sprintf(template, args...)
}

// guardrailMaxLeverage resolves the effective leverage ceiling, defaulting
// to 5 per spec.md §4.4 when the caller's snapshot left it unset.
func guardrailMaxLeverage(fs FeatureSet) int {
	if fs.MaxLeverage <= 0 {
		return 5
	}
	return fs.MaxLeverage
}
