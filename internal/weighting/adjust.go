package weighting

import (
	"context"
	"fmt"
	"time"

	"signalengine/internal/logging"
	"signalengine/internal/store"
)

// AdjustWeights applies spec.md §4.8's daily per-(bot,regime) weight table
// to each bot's current_weight and auto-disables bots whose accuracy has
// collapsed, run once daily at a fixed hour.
func (a *Adjuster) AdjustWeights(ctx context.Context) error {
	log := logging.Default().WithComponent("weighting")

	names, err := a.repo.AllBotNames(ctx)
	if err != nil {
		return fmt.Errorf("list bot names: %w", err)
	}

	for _, name := range names {
		for _, regime := range regimes {
			if err := a.adjustOne(ctx, name, regime); err != nil {
				log.WithError(err).Debug("adjust weight failed", "bot", name, "regime", regime)
			}
		}
	}
	return nil
}

func (a *Adjuster) adjustOne(ctx context.Context, bot, regime string) error {
	m, err := a.repo.GetBotAccuracyMetrics(ctx, bot, regime)
	if err != nil {
		return err
	}
	if !m.IsEnabled {
		return nil // disabled bots are untouched until the lifecycle job re-enables them
	}

	from := m.CurrentWeight
	to, reason := nextWeight(from, m.AccuracyRate)
	if to != from {
		m.CurrentWeight = to
		m.WeightHistory = append(m.WeightHistory, store.WeightHistoryEntry{
			At: time.Now().UTC(), From: from, To: to, Reason: reason,
		})
	}

	if m.AccuracyRate < disableAccuracyThreshold && m.TotalPredictions >= disableMinPredictions {
		now := time.Now().UTC()
		disableReason := fmt.Sprintf("accuracy %.2f below %.2f over %d predictions", m.AccuracyRate, disableAccuracyThreshold, m.TotalPredictions)
		m.IsEnabled = false
		m.AutoDisabledAt = &now
		m.AutoDisabledReason = &disableReason

		prob, perr := a.repo.GetBotProbationStatus(ctx, bot)
		if perr == nil {
			prob.TimesDisabled++
			if prob.TimesDisabled >= permanentDisableAfterTimes {
				prob.PermanentlyDisabled = true
			}
			_ = a.repo.UpsertBotProbationStatus(ctx, prob)
		}
	}

	return a.repo.UpsertBotAccuracyMetrics(ctx, m)
}

// nextWeight applies the four-tier accuracy->weight multiplier table,
// clamped to [minWeight, maxWeight].
func nextWeight(current, accuracy float64) (weight float64, reason string) {
	switch {
	case accuracy >= 0.70:
		return clampWeight(current * 1.30), "accuracy >= 0.70"
	case accuracy >= 0.60:
		return clampWeight(current * 1.10), "accuracy in [0.60, 0.70)"
	case accuracy >= 0.50:
		return current, "accuracy in [0.50, 0.60), unchanged"
	default:
		return clampWeight(current * 0.50), "accuracy < 0.50"
	}
}

func clampWeight(w float64) float64 {
	if w > maxWeight {
		return maxWeight
	}
	if w < minWeight {
		return minWeight
	}
	return w
}
