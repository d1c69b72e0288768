package providers

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"signalengine/internal/logging"
)

// LLMRouter fans out AI-refinement calls across ordered LLM clients. LLM
// refinement is the single highest-latency, least-reliable call in the
// pipeline (spec.md §4.5 step 8), so each client additionally sits behind
// its own gobreaker.CircuitBreaker on top of the ordinary cooldown Slot —
// a client that keeps erroring gets skipped outright for a cooldown window
// instead of paying its deadline on every scan.
type LLMRouter struct {
	clients   []LLMClient
	slots     []*Slot
	breakers  map[string]*gobreaker.CircuitBreaker
}

func NewLLMRouter(clients []LLMClient, perSecond, perMinute float64) *LLMRouter {
	r := &LLMRouter{clients: clients, breakers: make(map[string]*gobreaker.CircuitBreaker)}
	for _, c := range clients {
		r.slots = append(r.slots, NewSlot(c.ID(), perSecond, perMinute))
		id := c.ID()
		r.breakers[id] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "llm-" + id,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 4 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.WithComponent("llm-router").Info("breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return r
}

func (r *LLMRouter) clientByID(id string) LLMClient {
	for _, c := range r.clients {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Analyze requests AI refinement for a structured prompt. A gobreaker trip
// surfaces as a transient_error outcome for that client so fallback to the
// next LLM client proceeds normally; if every client is tripped or fails,
// the caller (C5 aggregation) must treat this as non-fatal and keep the
// pre-refinement confidence, per spec.md §4.5 step 8.
func (r *LLMRouter) Analyze(ctx context.Context, prompt string) (LLMRefinement, error) {
	return fetchWithFallback(ctx, KindLLM, "refinement", r.slots, llmDeadline, func(cctx context.Context, id string) Outcome[LLMRefinement] {
		breaker := r.breakers[id]
		result, err := breaker.Execute(func() (interface{}, error) {
			out := r.clientByID(id).Analyze(prompt)
			if out.Kind != OutcomeOK {
				return out, &clientError{out.Reason}
			}
			return out, nil
		})
		if err != nil {
			if out, ok := result.(Outcome[LLMRefinement]); ok && out.Kind != "" {
				return out
			}
			return Transient[LLMRefinement](err.Error())
		}
		return result.(Outcome[LLMRefinement])
	})
}

// AnalyzeIndependent queries up to n distinct LLM clients directly (each
// still behind its own breaker and rate slot) rather than stopping at the
// first success, so C5 step 8 can compare independent refinements for
// disagreement instead of only ever seeing one. Clients that error or trip
// their breaker are simply omitted from the result; the caller may end up
// with 0, 1, or n values.
func (r *LLMRouter) AnalyzeIndependent(ctx context.Context, prompt string, n int) []LLMRefinement {
	var out []LLMRefinement
	for _, c := range r.clients {
		if len(out) >= n {
			break
		}
		if ctx.Err() != nil {
			break
		}
		id := c.ID()
		slot := r.slotByID(id)
		if slot != nil && !slot.Acquire() {
			continue
		}
		result, err := r.breakers[id].Execute(func() (interface{}, error) {
			res := c.Analyze(prompt)
			if res.Kind != OutcomeOK {
				return res, &clientError{res.Reason}
			}
			return res, nil
		})
		if err != nil {
			if slot != nil {
				slot.RecordTransientError(err.Error())
			}
			continue
		}
		if slot != nil {
			slot.RecordSuccess()
		}
		if res, ok := result.(Outcome[LLMRefinement]); ok && res.Kind == OutcomeOK {
			out = append(out, res.Value)
		}
	}
	return out
}

func (r *LLMRouter) slotByID(id string) *Slot {
	for i, c := range r.clients {
		if c.ID() == id {
			return r.slots[i]
		}
	}
	return nil
}

const llmDeadline = 12 * time.Second

type clientError struct{ reason string }

func (e *clientError) Error() string { return e.reason }
