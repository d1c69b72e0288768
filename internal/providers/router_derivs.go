package providers

import (
	"context"
	"fmt"
)

// DerivativesRouter fans out derivatives fetches across ordered clients.
type DerivativesRouter struct {
	clients []DerivativesClient
	slots   []*Slot
	cache   *ResponseCache
}

func NewDerivativesRouter(clients []DerivativesClient, cache *ResponseCache, perSecond, perMinute float64) *DerivativesRouter {
	r := &DerivativesRouter{clients: clients, cache: cache}
	for _, c := range clients {
		r.slots = append(r.slots, NewSlot(c.ID(), perSecond, perMinute))
	}
	return r
}

func (r *DerivativesRouter) clientByID(id string) DerivativesClient {
	for _, c := range r.clients {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Derivs fetches funding/open-interest/long-short data for a symbol.
func (r *DerivativesRouter) Derivs(ctx context.Context, symbol string) (Derivatives, error) {
	symbol = CanonicalSymbol(symbol)
	cacheKey := fmt.Sprintf("derivs:%s", symbol)
	if cached, ok := Get[Derivatives](ctx, r.cache, cacheKey); ok {
		return cached, nil
	}
	v, err := fetchWithFallback(ctx, KindDerivatives, symbol, r.slots, DeadlineDerivatives, func(cctx context.Context, id string) Outcome[Derivatives] {
		return r.clientByID(id).Derivs(symbol)
	})
	if err != nil {
		return Derivatives{}, err
	}
	Set(ctx, r.cache, cacheKey, v)
	return v, nil
}

// OptionsRouter fans out options fetches across ordered clients. Most
// symbols will receive `unsupported` from every client — the allowlist
// itself lives in config, not here.
type OptionsRouter struct {
	clients []OptionsClient
	slots   []*Slot
}

func NewOptionsRouter(clients []OptionsClient, perSecond, perMinute float64) *OptionsRouter {
	r := &OptionsRouter{clients: clients}
	for _, c := range clients {
		r.slots = append(r.slots, NewSlot(c.ID(), perSecond, perMinute))
	}
	return r
}

func (r *OptionsRouter) clientByID(id string) OptionsClient {
	for _, c := range r.clients {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

func (r *OptionsRouter) Options(ctx context.Context, symbol string) (Options, error) {
	symbol = CanonicalSymbol(symbol)
	return fetchWithFallback(ctx, KindOptions, symbol, r.slots, DeadlineOptions, func(cctx context.Context, id string) Outcome[Options] {
		return r.clientByID(id).Options(symbol)
	})
}

// OnChainRouter fans out on-chain fetches across ordered clients.
type OnChainRouter struct {
	clients []OnChainClient
	slots   []*Slot
}

func NewOnChainRouter(clients []OnChainClient, perSecond, perMinute float64) *OnChainRouter {
	r := &OnChainRouter{clients: clients}
	for _, c := range clients {
		r.slots = append(r.slots, NewSlot(c.ID(), perSecond, perMinute))
	}
	return r
}

func (r *OnChainRouter) clientByID(id string) OnChainClient {
	for _, c := range r.clients {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

func (r *OnChainRouter) OnChain(ctx context.Context, symbol string) (OnChain, error) {
	symbol = CanonicalSymbol(symbol)
	return fetchWithFallback(ctx, KindOnChain, symbol, r.slots, DeadlineOnChain, func(cctx context.Context, id string) Outcome[OnChain] {
		return r.clientByID(id).OnChain(symbol)
	})
}

// SentimentRouter fans out sentiment fetches across ordered clients.
type SentimentRouter struct {
	clients []SentimentClient
	slots   []*Slot
}

func NewSentimentRouter(clients []SentimentClient, perSecond, perMinute float64) *SentimentRouter {
	r := &SentimentRouter{clients: clients}
	for _, c := range clients {
		r.slots = append(r.slots, NewSlot(c.ID(), perSecond, perMinute))
	}
	return r
}

func (r *SentimentRouter) clientByID(id string) SentimentClient {
	for _, c := range r.clients {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

func (r *SentimentRouter) Sentiment(ctx context.Context, symbol string) (Sentiment, error) {
	symbol = CanonicalSymbol(symbol)
	return fetchWithFallback(ctx, KindSentiment, symbol, r.slots, DeadlineSentiment, func(cctx context.Context, id string) Outcome[Sentiment] {
		return r.clientByID(id).Sentiment(symbol)
	})
}
