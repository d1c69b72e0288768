package providers

import (
	"context"
	"math/rand"
	"time"

	"signalengine/internal/logging"
	"signalengine/internal/metrics"
)

// fetchWithFallback implements the C2 ordered-fallback algorithm exactly as
// spec.md §4.2 describes it: skip clients whose budget is exhausted or who
// are cooling down, apply a per-call deadline, retry a transient error once
// against the same client with jitter, and move to the next client on any
// other failure. It is generic over the value kind so one implementation
// serves OHLCV, derivatives, options, on-chain, and sentiment routers alike.
func fetchWithFallback[V any](ctx context.Context, kind Kind, symbol string, slots []*Slot, deadline time.Duration, call func(ctx context.Context, slotID string) Outcome[V]) (V, error) {
	var zero V
	log := logging.ProviderContext(string(kind), "", symbol)

	for _, s := range slots {
		if !s.Acquire() {
			metrics.RecordProviderCooldownSkip(string(kind), s.ID)
			continue
		}

		out := callWithDeadline(ctx, deadline, s.ID, call)

		switch out.Kind {
		case OutcomeOK:
			s.RecordSuccess()
			metrics.RecordProviderOutcome(string(kind), s.ID, "ok")
			return out.Value, nil

		case OutcomeRateLimited:
			s.RecordRateLimited(out.ResetHint)
			metrics.RecordProviderOutcome(string(kind), s.ID, "rate_limited")
			metrics.RecordProviderFallback(string(kind), s.ID)
			log.Debug("client rate limited, trying next", "client_id", s.ID)
			continue

		case OutcomeTransientError:
			time.Sleep(jitter(100*time.Millisecond, 400*time.Millisecond))
			retry := callWithDeadline(ctx, deadline, s.ID, call)
			if retry.Kind == OutcomeOK {
				s.RecordSuccess()
				metrics.RecordProviderOutcome(string(kind), s.ID, "ok")
				return retry.Value, nil
			}
			s.RecordTransientError(out.Reason)
			metrics.RecordProviderOutcome(string(kind), s.ID, "transient_error")
			metrics.RecordProviderFallback(string(kind), s.ID)
			log.Debug("client transient error after retry, trying next", "client_id", s.ID, "reason", out.Reason)
			continue

		case OutcomePermanentError, OutcomeUnsupported:
			metrics.RecordProviderOutcome(string(kind), s.ID, string(out.Kind))
			metrics.RecordProviderFallback(string(kind), s.ID)
			log.Debug("client permanent error or unsupported, trying next", "client_id", s.ID, "reason", out.Reason)
			continue
		}
	}

	metrics.RecordProviderExhausted(string(kind))
	return zero, &UnavailableError{Kind: string(kind), Symbol: symbol}
}

func callWithDeadline[V any](ctx context.Context, deadline time.Duration, slotID string, call func(ctx context.Context, slotID string) Outcome[V]) Outcome[V] {
	cctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	return call(cctx, slotID)
}

func jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// Deadlines per kind, spec.md §4.2.
const (
	DeadlineOHLCV       = 8 * time.Second
	DeadlineDerivatives = 5 * time.Second
	DeadlineOptions     = 5 * time.Second
	DeadlineOnChain     = 5 * time.Second
	DeadlineSentiment   = 6 * time.Second
)
