package weighting

import (
	"context"
	"fmt"

	"signalengine/internal/logging"
	"signalengine/internal/store"
)

// Adjuster runs the C8 rollup, weight-adjustment, and lifecycle jobs over
// the bot roster the repository has ever recorded.
type Adjuster struct {
	repo *store.Repository
}

func NewAdjuster(repo *store.Repository) *Adjuster {
	return &Adjuster{repo: repo}
}

// RecomputeAccuracy refreshes every (bot, regime) pair's rolling 7d/30d
// accuracy windows, run every 6 hours per spec.md §4.8.
func (a *Adjuster) RecomputeAccuracy(ctx context.Context) error {
	log := logging.Default().WithComponent("weighting")

	names, err := a.repo.AllBotNames(ctx)
	if err != nil {
		return fmt.Errorf("list bot names: %w", err)
	}

	for _, name := range names {
		for _, regime := range regimes {
			if err := a.recomputeOne(ctx, name, regime); err != nil {
				log.WithError(err).Debug("recompute accuracy failed", "bot", name, "regime", regime)
			}
		}
	}
	return nil
}

func (a *Adjuster) recomputeOne(ctx context.Context, bot, regime string) error {
	m, err := a.repo.GetBotAccuracyMetrics(ctx, bot, regime)
	if err != nil {
		return err
	}

	short, err := a.repo.ComputeAccuracyWindow(ctx, bot, regime, accuracyWindowShort)
	if err != nil {
		return err
	}
	long, err := a.repo.ComputeAccuracyWindow(ctx, bot, regime, accuracyWindowLong)
	if err != nil {
		return err
	}

	m.Last7dAccuracy = short.AccuracyRate
	m.Last30dAccuracy = long.AccuracyRate
	m.TotalPredictions = long.TotalPredictions
	m.CorrectPredictions = long.CorrectPredictions
	m.AccuracyRate = long.AccuracyRate
	m.AvgProfitLoss = long.AvgProfitLoss
	m.WinRate = long.WinRate

	return a.repo.UpsertBotAccuracyMetrics(ctx, m)
}
