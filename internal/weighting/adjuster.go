// Package weighting implements C8: the adaptive per-bot, per-regime weight
// and lifecycle management that reads C7's finalized outcomes and feeds the
// scan orchestrator's next BotSnapshot, grounded in the teacher's
// internal/circuit.Breaker (Closed/Open/HalfOpen lifecycle, consecutive
// counters, cooldown-with-backoff), generalized from "cool an unreliable
// provider down" to "demote, disable, and re-enable an unreliable bot",
// per spec.md §4.8.
package weighting

import (
	"time"

	"signalengine/internal/store"
)

// regimes is the fixed set C8 rolls accuracy up per, spec.md §4.3's four
// labels.
var regimes = []string{"BULL", "BEAR", "SIDEWAYS", "VOLATILE"}

const (
	accuracyWindowShort = 7 * 24 * time.Hour
	accuracyWindowLong  = 30 * 24 * time.Hour

	minWeight = 0.2
	maxWeight = 2.0

	disableAccuracyThreshold    = 0.35
	disableMinPredictions       = 50
	reenableAfter               = 7 * 24 * time.Hour
	probationMinPredictions     = 20
	probationPassAccuracy       = 0.50
	permanentDisableAfterTimes  = 3
)
