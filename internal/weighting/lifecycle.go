package weighting

import (
	"context"
	"fmt"
	"time"

	"signalengine/internal/logging"
	"signalengine/internal/store"
)

// ProcessLifecycle re-enables bots whose 7-day disable cooldown has
// elapsed (entering probation) and resolves probation once a bot has
// accumulated enough predictions to judge it, per spec.md §4.8.
func (a *Adjuster) ProcessLifecycle(ctx context.Context) error {
	log := logging.Default().WithComponent("weighting")

	names, err := a.repo.AllBotNames(ctx)
	if err != nil {
		return fmt.Errorf("list bot names: %w", err)
	}

	for _, name := range names {
		if err := a.processOne(ctx, name); err != nil {
			log.WithError(err).Debug("process lifecycle failed", "bot", name)
		}
	}
	return nil
}

func (a *Adjuster) processOne(ctx context.Context, bot string) error {
	prob, err := a.repo.GetBotProbationStatus(ctx, bot)
	if err != nil {
		return err
	}

	if prob.PermanentlyDisabled {
		return nil
	}

	if prob.IsOnProbation {
		return a.resolveProbation(ctx, bot, prob)
	}

	return a.maybeReenable(ctx, bot, prob)
}

// maybeReenable re-enables a bot 7 days after its most recent auto-disable,
// across every regime row (AdjustWeights disables one regime row at a
// time, but re-enable and probation guardrails are bot-wide, per spec.md
// §4.8).
func (a *Adjuster) maybeReenable(ctx context.Context, bot string, prob *store.BotProbationStatus) error {
	var disabledAt *time.Time
	for _, regime := range regimes {
		m, err := a.repo.GetBotAccuracyMetrics(ctx, bot, regime)
		if err != nil {
			continue
		}
		if !m.IsEnabled && m.AutoDisabledAt != nil && (disabledAt == nil || m.AutoDisabledAt.After(*disabledAt)) {
			disabledAt = m.AutoDisabledAt
		}
	}
	if disabledAt == nil || time.Since(*disabledAt) < reenableAfter {
		return nil
	}

	for _, regime := range regimes {
		m, err := a.repo.GetBotAccuracyMetrics(ctx, bot, regime)
		if err != nil {
			continue
		}
		if m.IsEnabled {
			continue
		}
		m.IsEnabled = true
		m.AutoDisabledAt = nil
		m.AutoDisabledReason = nil
		if err := a.repo.UpsertBotAccuracyMetrics(ctx, m); err != nil {
			return err
		}
	}

	probation := store.ProbationGuardrails(bot)
	probation.TimesDisabled = prob.TimesDisabled
	probation.TimesReenabled = prob.TimesReenabled + 1
	now := time.Now().UTC()
	probation.IsOnProbation = true
	probation.ProbationStart = &now
	probation.ProbationPredictionsCount = 0
	probation.ProbationCorrectCount = 0
	return a.repo.UpsertBotProbationStatus(ctx, &probation)
}

// resolveProbation ends probation once the bot has accumulated at least 20
// predictions since entering it, restoring default guardrails on a pass or
// disabling for another 7 days on a fail.
func (a *Adjuster) resolveProbation(ctx context.Context, bot string, prob *store.BotProbationStatus) error {
	if prob.ProbationPredictionsCount < probationMinPredictions {
		return nil
	}

	passRate := 0.0
	if prob.ProbationPredictionsCount > 0 {
		passRate = float64(prob.ProbationCorrectCount) / float64(prob.ProbationPredictionsCount)
	}

	if passRate >= probationPassAccuracy {
		restored := store.DefaultGuardrails(bot)
		restored.TimesDisabled = prob.TimesDisabled
		restored.TimesReenabled = prob.TimesReenabled
		return a.repo.UpsertBotProbationStatus(ctx, &restored)
	}

	now := time.Now().UTC()
	prob.IsOnProbation = false
	prob.IsProbationMode = false
	prob.TimesDisabled++
	if prob.TimesDisabled >= permanentDisableAfterTimes {
		prob.PermanentlyDisabled = true
	}
	if err := a.repo.UpsertBotProbationStatus(ctx, prob); err != nil {
		return err
	}

	disableReason := fmt.Sprintf("probation accuracy %.2f below %.2f", passRate, probationPassAccuracy)
	for _, regime := range regimes {
		m, err := a.repo.GetBotAccuracyMetrics(ctx, bot, regime)
		if err != nil {
			continue
		}
		m.IsEnabled = false
		m.AutoDisabledAt = &now
		m.AutoDisabledReason = &disableReason
		_ = a.repo.UpsertBotAccuracyMetrics(ctx, m)
	}
	return nil
}

// RecordProbationPrediction is called by C7 when finalizing a prediction
// made by a bot currently on probation, incrementing the probation tally
// that ProcessLifecycle later judges.
func RecordProbationPrediction(prob *store.BotProbationStatus, correct bool) {
	prob.ProbationPredictionsCount++
	if correct {
		prob.ProbationCorrectCount++
	}
}
