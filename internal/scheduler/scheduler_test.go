package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRegisterSkipsConcurrentInvocation simulates a cron tick firing while
// the previous invocation is still "running" by calling the registered
// func's guard logic directly instead of waiting on a real cron schedule.
func TestRegisterSkipsConcurrentInvocation(t *testing.T) {
	s := New()

	var running atomic.Bool
	var starts, skips int32
	release := make(chan struct{})

	err := s.Register(Job{
		Name: "slow-job",
		Spec: "@every 1h",
		Run: func(ctx context.Context) {
			if !running.CompareAndSwap(false, true) {
				atomic.AddInt32(&skips, 1)
				return
			}
			defer running.Store(false)
			atomic.AddInt32(&starts, 1)
			<-release
		},
	})
	assert.NoError(t, err)

	entries := s.cron.Entries()
	if assert.Len(t, entries, 1) {
		go entries[0].Job.Run()
		time.Sleep(20 * time.Millisecond)
		entries[0].Job.Run() // second invocation while the first is blocked on release

		close(release)
		time.Sleep(20 * time.Millisecond)

		assert.EqualValues(t, 1, atomic.LoadInt32(&starts))
		// Register's own guard drops the second call before Run is entered,
		// so Run's inner guard never sees it.
		assert.EqualValues(t, 0, atomic.LoadInt32(&skips))
	}
}

func TestRegisterRejectsInvalidCronSpec(t *testing.T) {
	s := New()
	err := s.Register(Job{Name: "bad", Spec: "not-a-cron-spec", Run: func(ctx context.Context) {}})
	assert.Error(t, err)
}
