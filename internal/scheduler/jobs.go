package scheduler

import (
	"context"

	"github.com/google/uuid"

	"signalengine/internal/outcome"
	"signalengine/internal/scan"
	"signalengine/internal/store"
	"signalengine/internal/weighting"
)

// Cadences spec.md §4.9 and §4.6-4.8 name explicitly.
const (
	SpecEvery15Min  = "*/15 * * * *"
	SpecEvery6Hours = "0 */6 * * *"
	SpecDailyAt2AM  = "0 2 * * *"
)

// RegisterDefaultJobs wires the orchestrator's configured scan profiles and
// the C7/C8 background jobs onto the scheduler, in the cadences spec.md
// names: scans per profile, price sampling and horizon evaluation every 15
// minutes, accuracy rollups every 6 hours, and weight adjustment plus
// lifecycle processing once daily.
func RegisterDefaultJobs(
	s *Scheduler,
	orch *Orchestrator,
	profiles []scan.Profile,
	botWeightsFn func(ctx context.Context) (map[string]store.BotSnapshot, error),
	tracker *outcome.Tracker,
	adjuster *weighting.Adjuster,
) error {
	for _, p := range profiles {
		profile := p
		if err := s.Register(Job{
			Name: "scan:" + profile.Name,
			Spec: profile.CronSpec,
			Run: func(ctx context.Context) {
				weights, err := botWeightsFn(ctx)
				if err != nil {
					weights = map[string]store.BotSnapshot{}
				}
				_, _ = orch.StartScan(ctx, profile, weights)
			},
		}); err != nil {
			return err
		}
	}

	if err := s.Register(Job{
		Name: "outcome:sample-and-detect",
		Spec: SpecEvery15Min,
		Run:  tracker.SampleAndDetectOnce,
	}); err != nil {
		return err
	}
	if err := s.Register(Job{
		Name: "outcome:evaluate-horizons",
		Spec: SpecEvery15Min,
		Run:  tracker.EvaluateHorizonsOnce,
	}); err != nil {
		return err
	}
	if err := s.Register(Job{
		Name: "weighting:recompute-accuracy",
		Spec: SpecEvery6Hours,
		Run: func(ctx context.Context) {
			_ = adjuster.RecomputeAccuracy(ctx)
		},
	}); err != nil {
		return err
	}
	if err := s.Register(Job{
		Name: "weighting:adjust-and-lifecycle",
		Spec: SpecDailyAt2AM,
		Run: func(ctx context.Context) {
			_ = adjuster.AdjustWeights(ctx)
			_ = adjuster.ProcessLifecycle(ctx)
		},
	}); err != nil {
		return err
	}
	return nil
}

// Orchestrator is the subset of scan.Orchestrator the scheduler needs,
// kept as an interface so tests can substitute a fake.
type Orchestrator interface {
	StartScan(ctx context.Context, p scan.Profile, botWeights map[string]store.BotSnapshot) (uuid.UUID, error)
}
