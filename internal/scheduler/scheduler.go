// Package scheduler implements C9: the cron-like trigger layer that fires
// scans and the C7/C8 background jobs on their configured cadences,
// grounded in the teacher's internal/scanner.Scanner.Start ticker-driven
// background loop, generalized from a single hardcoded ticker to a set of
// named robfig/cron/v3 entries, each single-flight and coalescing on a
// missed slot rather than catching up, per spec.md §4.9.
package scheduler

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"signalengine/internal/logging"
)

// Job is one named unit of scheduled work.
type Job struct {
	Name string
	Spec string // standard 5-field cron expression
	Run  func(ctx context.Context)
}

// Scheduler wraps a robfig/cron instance with single-flight guarding per
// job name: cron's own semantics already coalesce a missed tick (it fires
// at the next matching time rather than queuing a backlog), so the only
// extra guarantee this adds is that a still-running invocation blocks a
// concurrent one instead of running both at once.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]*atomic.Bool
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]*atomic.Bool),
	}
}

// Register adds a job to the schedule. Safe to call only before Start.
func (s *Scheduler) Register(j Job) error {
	running := &atomic.Bool{}
	s.jobs[j.Name] = running

	_, err := s.cron.AddFunc(j.Spec, func() {
		if !running.CompareAndSwap(false, true) {
			logging.Default().WithComponent("scheduler").Debug("job still running, skipping this slot", "job", j.Name)
			return
		}
		defer running.Store(false)

		ctx := context.Background()
		log := logging.Default().WithComponent("scheduler").WithField("job", j.Name)
		log.Info("job started")
		j.Run(ctx)
		log.Info("job finished")
	})
	return err
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler, waiting for any in-flight job invocation to
// finish before returning.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
