package providers

import (
	"context"
	"fmt"
)

// OHLCVRouter fans out top_coins/ohlcv fetches across an ordered list of
// OHLCV clients, per spec.md §4.2.
type OHLCVRouter struct {
	clients []OHLCVClient
	slots   []*Slot
	cache   *ResponseCache
}

// NewOHLCVRouter builds a router over clients in priority order. perSecond
// and perMinute set each client's own rate budget (uniform here; a real
// deployment may tune per-provider via config).
func NewOHLCVRouter(clients []OHLCVClient, cache *ResponseCache, perSecond, perMinute float64) *OHLCVRouter {
	r := &OHLCVRouter{clients: clients, cache: cache}
	for _, c := range clients {
		r.slots = append(r.slots, NewSlot(c.ID(), perSecond, perMinute))
	}
	return r
}

func (r *OHLCVRouter) clientByID(id string) OHLCVClient {
	for _, c := range r.clients {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// TopCoins resolves the scan universe.
func (r *OHLCVRouter) TopCoins(ctx context.Context, req TopCoinsRequest) ([]Coin, error) {
	return fetchWithFallback(ctx, KindOHLCV, "universe", r.slots, DeadlineOHLCV, func(cctx context.Context, id string) Outcome[[]Coin] {
		return r.clientByID(id).TopCoins(req)
	})
}

// OHLCV fetches a candle series for one symbol/timeframe, read-through a
// short-TTL cache so repeated requests within one scan don't re-hit the
// network.
func (r *OHLCVRouter) OHLCV(ctx context.Context, symbol, timeframe string, depth int) (OHLCVSeries, error) {
	symbol = CanonicalSymbol(symbol)
	cacheKey := fmt.Sprintf("ohlcv:%s:%s:%d", symbol, timeframe, depth)

	if cached, ok := Get[OHLCVSeries](ctx, r.cache, cacheKey); ok {
		return cached, nil
	}

	series, err := fetchWithFallback(ctx, KindOHLCV, symbol, r.slots, DeadlineOHLCV, func(cctx context.Context, id string) Outcome[OHLCVSeries] {
		return r.clientByID(id).OHLCV(symbol, timeframe, depth)
	})
	if err != nil {
		return OHLCVSeries{}, err
	}
	Set(ctx, r.cache, cacheKey, series)
	return series, nil
}
