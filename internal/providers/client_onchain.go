package providers

import (
	"context"
	"fmt"
	"time"
)

// GlassnodeOnChainClient is a concrete C1 on-chain client against
// Glassnode-shaped endpoints, normalizing whale/exchange-flow/network
// metrics into a single overall signal per spec.md §4.1.
type GlassnodeOnChainClient struct {
	httpBase
	apiKey string
}

func NewGlassnodeOnChainClient(apiKey string) *GlassnodeOnChainClient {
	return &GlassnodeOnChainClient{
		httpBase: newHTTPBase("glassnode", "https://api.glassnode.com/v1/metrics", 5*time.Second),
		apiKey:   apiKey,
	}
}

func (c *GlassnodeOnChainClient) ID() string { return c.id }

type glassnodePoint struct {
	T int64   `json:"t"`
	V float64 `json:"v"`
}

func (c *GlassnodeOnChainClient) OnChain(symbol string) Outcome[OnChain] {
	ctx, cancel := context.WithTimeout(context.Background(), DeadlineOnChain)
	defer cancel()

	headers := map[string]string{"X-Api-Key": c.apiKey}

	var whale []glassnodePoint
	out := doJSON(ctx, c.httpBase, fmt.Sprintf("/distribution/balance_exchanges?a=%s", symbol), headers, &whale)
	if out.Kind != OutcomeOK {
		return Outcome[OnChain]{Kind: out.Kind, Reason: out.Reason, ResetHint: out.ResetHint}
	}
	if len(whale) == 0 {
		return Unsupported[OnChain]("no on-chain coverage for symbol")
	}

	var flows []glassnodePoint
	flowsOut := doJSON(ctx, c.httpBase, fmt.Sprintf("/transactions/transfers_volume_exchanges_net?a=%s", symbol), headers, &flows)
	if flowsOut.Kind != OutcomeOK {
		return Outcome[OnChain]{Kind: flowsOut.Kind, Reason: flowsOut.Reason, ResetHint: flowsOut.ResetHint}
	}

	var activity []glassnodePoint
	actOut := doJSON(ctx, c.httpBase, fmt.Sprintf("/addresses/active_count?a=%s", symbol), headers, &activity)
	if actOut.Kind != OutcomeOK {
		return Outcome[OnChain]{Kind: actOut.Kind, Reason: actOut.Reason, ResetHint: actOut.ResetHint}
	}

	whaleVal := latest(whale)
	flowVal := latest(flows)
	activityVal := latest(activity)

	signal := "neutral"
	switch {
	case flowVal < 0 && whaleVal < 0:
		signal = "bullish" // net outflow from exchanges + falling exchange balances
	case flowVal > 0 && whaleVal > 0:
		signal = "bearish"
	}

	return OK(OnChain{
		WhaleActivity:   whaleVal,
		ExchangeFlows:   flowVal,
		NetworkActivity: activityVal,
		OverallSignal:   signal,
	})
}

func latest(points []glassnodePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1].V
}
