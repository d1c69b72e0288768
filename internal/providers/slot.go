package providers

import (
	"time"

	"golang.org/x/time/rate"

	"signalengine/internal/circuit"
)

// Slot pairs one ordered client with its rate budget and cooldown breaker.
// Router algorithms consult it before every call, mirroring the teacher's
// internal/binance/rate_limiter.go weight-budget bookkeeping generalized
// from one exchange's request weight to a per-second/per-minute token pair.
type Slot struct {
	ID        string
	perSecond *rate.Limiter
	perMinute *rate.Limiter
	breaker   *circuit.Breaker
}

// NewSlot builds a slot with independent per-second and per-minute token
// buckets and a fresh cooldown breaker.
func NewSlot(id string, perSecond, perMinute float64) *Slot {
	return &Slot{
		ID:        id,
		perSecond: rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
		perMinute: rate.NewLimiter(rate.Limit(perMinute/60.0), int(perMinute)+1),
		breaker:   circuit.New(circuit.DefaultConfig()),
	}
}

// Acquire reports whether this slot currently has rate budget and is not
// cooling down. It never blocks — an exhausted slot is simply skipped in
// favor of the next client in the fallback order (spec.md §4.2 step 1).
func (s *Slot) Acquire() bool {
	if !s.breaker.Allow() {
		return false
	}
	return s.perSecond.Allow() && s.perMinute.Allow()
}

// RecordSuccess closes the slot's breaker.
func (s *Slot) RecordSuccess() { s.breaker.RecordSuccess() }

// RecordRateLimited marks the slot cooling, honoring an explicit reset hint
// when the provider supplied one, or falling back to the breaker's own
// exponential cooldown.
func (s *Slot) RecordRateLimited(resetHintSeconds *int) {
	if resetHintSeconds != nil {
		s.breaker.TripUntil(time.Now().Add(time.Duration(*resetHintSeconds)*time.Second), "rate_limited")
		return
	}
	s.breaker.RecordFailure("rate_limited")
}

// RecordTransientError records a retryable failure against the slot.
func (s *Slot) RecordTransientError(reason string) { s.breaker.RecordFailure(reason) }
