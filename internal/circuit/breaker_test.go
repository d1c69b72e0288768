package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerTripsAfterThreshold(t *testing.T) {
	b := New(Config{FailureThreshold: 3, CooldownBase: 50 * time.Millisecond, CooldownMax: time.Second})

	assert.True(t, b.Allow())
	b.RecordFailure("rate_limited")
	b.RecordFailure("rate_limited")
	assert.Equal(t, StateClosed, b.State())
	b.RecordFailure("rate_limited")

	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerHalfOpensAfterCooldown(t *testing.T) {
	b := New(Config{FailureThreshold: 1, CooldownBase: 10 * time.Millisecond, CooldownMax: time.Second})
	b.RecordFailure("transient_error")
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())
}

func TestBreakerRecoversOnSuccess(t *testing.T) {
	b := New(Config{FailureThreshold: 1, CooldownBase: 5 * time.Millisecond, CooldownMax: time.Second})
	b.RecordFailure("rate_limited")
	time.Sleep(10 * time.Millisecond)
	b.Allow()
	b.RecordSuccess()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerFailureWhileHalfOpenRetripsImmediately(t *testing.T) {
	b := New(Config{FailureThreshold: 5, CooldownBase: 5 * time.Millisecond, CooldownMax: time.Second})
	b.TripUntil(time.Now().Add(5*time.Millisecond), "transient_error")
	time.Sleep(10 * time.Millisecond)
	b.Allow()
	assert.Equal(t, StateHalfOpen, b.State())

	b.RecordFailure("transient_error")
	assert.Equal(t, StateOpen, b.State())
}
