// Package providers implements C1 (provider clients) and C2 (the
// multi-provider router). Every client reports a typed Outcome instead of
// panicking or returning a zero value for "no data" — spec.md §4.1.
package providers

import "fmt"

// OutcomeKind tags how a client call resolved.
type OutcomeKind string

const (
	OutcomeOK              OutcomeKind = "ok"
	OutcomeRateLimited     OutcomeKind = "rate_limited"
	OutcomeTransientError  OutcomeKind = "transient_error"
	OutcomePermanentError  OutcomeKind = "permanent_error"
	OutcomeUnsupported     OutcomeKind = "unsupported"
)

// Outcome is the typed result of a single provider-client call. Exactly one
// of Value (when Kind == OutcomeOK) or Reason is meaningful.
type Outcome[T any] struct {
	Kind       OutcomeKind
	Value      T
	Reason     string
	ResetHint  *int // seconds until rate-limit reset, if the provider supplied one
}

// OK wraps a successful value.
func OK[T any](v T) Outcome[T] { return Outcome[T]{Kind: OutcomeOK, Value: v} }

// RateLimited reports a rate-limit outcome, optionally with a reset hint in seconds.
func RateLimited[T any](resetSeconds *int) Outcome[T] {
	return Outcome[T]{Kind: OutcomeRateLimited, ResetHint: resetSeconds}
}

// Transient reports a retryable failure (timeout, 5xx).
func Transient[T any](reason string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeTransientError, Reason: reason}
}

// Permanent reports a non-retryable failure (4xx other than rate limit).
func Permanent[T any](reason string) Outcome[T] {
	return Outcome[T]{Kind: OutcomePermanentError, Reason: reason}
}

// Unsupported reports that this client kind never supports the request.
func Unsupported[T any](reason string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeUnsupported, Reason: reason}
}

// UnavailableError is returned by the router when every client for a kind
// fails; callers must treat it as "absent feature", never as a zero value.
type UnavailableError struct {
	Kind   string
	Symbol string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("unavailable(%s, %s): all providers exhausted", e.Kind, e.Symbol)
}

// Kind identifies a data kind the router fans out for.
type Kind string

const (
	KindOHLCV       Kind = "ohlcv"
	KindDerivatives Kind = "derivatives"
	KindOptions     Kind = "options"
	KindOnChain     Kind = "onchain"
	KindSentiment   Kind = "sentiment"
	KindLLM         Kind = "llm"
)
