// Package circuit implements a generic Closed/Open/HalfOpen cooldown state
// machine. It is used by internal/providers to cool a data provider client
// down after repeated rate-limit/transient-error outcomes, the same
// Closed/Open/HalfOpen shape as a trading-loss circuit breaker but tripped by
// a different signal and carrying no trade-specific payload.
package circuit

import (
	"sync"
	"time"
)

// State is the breaker's current mode.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Config tunes how many consecutive failures trip the breaker and how long
// it stays open before probing again.
type Config struct {
	FailureThreshold int           // consecutive failures before tripping
	CooldownBase     time.Duration // initial cooldown once tripped
	CooldownMax      time.Duration // cap on exponential cooldown growth
}

// DefaultConfig returns sane defaults for a provider-client cooldown breaker.
func DefaultConfig() Config {
	return Config{FailureThreshold: 3, CooldownBase: 5 * time.Second, CooldownMax: 5 * time.Minute}
}

// Breaker is a mutex-guarded cooldown state machine for one client.
type Breaker struct {
	mu                sync.Mutex
	cfg               Config
	state             State
	consecutiveFails  int
	cooldownUntil     time.Time
	currentCooldown   time.Duration
	tripReason        string
}

// New creates a breaker in the Closed state.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg = DefaultConfig()
	}
	return &Breaker{cfg: cfg, state: StateClosed, currentCooldown: cfg.CooldownBase}
}

// Allow reports whether a call may proceed, transitioning Open->HalfOpen once
// the cooldown has elapsed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if time.Now().Before(b.cooldownUntil) {
			return false
		}
		b.state = StateHalfOpen
	}
	return true
}

// RecordSuccess closes the breaker and resets failure bookkeeping.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.consecutiveFails = 0
	b.currentCooldown = b.cfg.CooldownBase
	b.tripReason = ""
}

// RecordFailure counts a failure (rate_limited or transient_error outcome)
// and trips the breaker once the threshold is hit. A failure observed while
// HalfOpen re-trips immediately and doubles the cooldown, up to CooldownMax.
func (b *Breaker) RecordFailure(reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFails++
	b.tripReason = reason

	if b.state == StateHalfOpen {
		b.trip()
		return
	}
	if b.consecutiveFails >= b.cfg.FailureThreshold {
		b.trip()
	}
}

// TripUntil forces the breaker open until the given instant, used when a
// provider's rate-limit response carries an explicit reset hint.
func (b *Breaker) TripUntil(until time.Time, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateOpen
	b.cooldownUntil = until
	b.tripReason = reason
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.cooldownUntil = time.Now().Add(b.currentCooldown)
	b.currentCooldown *= 2
	if b.currentCooldown > b.cfg.CooldownMax {
		b.currentCooldown = b.cfg.CooldownMax
	}
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reason returns the reason the breaker last tripped.
func (b *Breaker) Reason() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripReason
}
