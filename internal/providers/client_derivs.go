package providers

import (
	"context"
	"fmt"
	"time"
)

// binanceFundingRow mirrors Binance futures' funding-rate endpoint.
type binanceFundingRow struct {
	Symbol      string `json:"symbol"`
	FundingRate string `json:"fundingRate"`
}

type binanceOpenInterestRow struct {
	OpenInterest string `json:"openInterest"`
}

type binanceLongShortRow struct {
	LongShortRatio string `json:"longShortRatio"`
}

// BinanceDerivativesClient is a concrete C1 derivatives client against
// Binance USDT-margined futures public endpoints.
type BinanceDerivativesClient struct {
	httpBase
}

func NewBinanceDerivativesClient() *BinanceDerivativesClient {
	return &BinanceDerivativesClient{httpBase: newHTTPBase("binance-futures", "https://fapi.binance.com/fapi/v1", 5*time.Second)}
}

func (c *BinanceDerivativesClient) ID() string { return c.id }

func (c *BinanceDerivativesClient) Derivs(symbol string) Outcome[Derivatives] {
	ctx, cancel := context.WithTimeout(context.Background(), DeadlineDerivatives)
	defer cancel()

	pair := symbol + "USDT"

	var funding []binanceFundingRow
	out := doJSON(ctx, c.httpBase, fmt.Sprintf("/fundingRate?symbol=%s&limit=1", pair), nil, &funding)
	if out.Kind != OutcomeOK {
		return Outcome[Derivatives]{Kind: out.Kind, Reason: out.Reason, ResetHint: out.ResetHint}
	}
	if len(funding) == 0 {
		return Unsupported[Derivatives]("no funding data for symbol")
	}

	var oi binanceOpenInterestRow
	oiOut := doJSON(ctx, c.httpBase, fmt.Sprintf("/openInterest?symbol=%s", pair), nil, &oi)
	if oiOut.Kind != OutcomeOK {
		return Outcome[Derivatives]{Kind: oiOut.Kind, Reason: oiOut.Reason, ResetHint: oiOut.ResetHint}
	}

	var ratios []binanceLongShortRow
	lsOut := doJSON(ctx, c.httpBase, fmt.Sprintf("/globalLongShortAccountRatio?symbol=%s&period=5m&limit=1", pair), nil, &ratios)
	if lsOut.Kind != OutcomeOK {
		return Outcome[Derivatives]{Kind: lsOut.Kind, Reason: lsOut.Reason, ResetHint: lsOut.ResetHint}
	}

	result := Derivatives{
		FundingRate:  parseFloatField(funding[0].FundingRate),
		OpenInterest: parseFloatField(oi.OpenInterest),
	}
	if len(ratios) > 0 {
		result.LongShortRatio = parseFloatField(ratios[0].LongShortRatio)
	}
	return OK(result)
}

func parseFloatField(s string) float64 {
	var f float64
	fmt.Sscanf(s, "%f", &f)
	return f
}

// DeribitOptionsClient is a concrete C1 options client against Deribit's
// public options-summary endpoint. Only symbols on the configured
// allowlist (owned by the scan orchestrator, §4.1) are ever queried — this
// client itself just reports unsupported for anything Deribit doesn't list.
type DeribitOptionsClient struct {
	httpBase
}

func NewDeribitOptionsClient() *DeribitOptionsClient {
	return &DeribitOptionsClient{httpBase: newHTTPBase("deribit", "https://www.deribit.com/api/v2/public", 5*time.Second)}
}

func (c *DeribitOptionsClient) ID() string { return c.id }

type deribitBookSummaryResult struct {
	Result []struct {
		PutCallRatio    float64 `json:"put_call_ratio"`
		MarkIV          float64 `json:"mark_iv"`
		UnderlyingPrice float64 `json:"underlying_price"`
	} `json:"result"`
}

func (c *DeribitOptionsClient) Options(symbol string) Outcome[Options] {
	ctx, cancel := context.WithTimeout(context.Background(), DeadlineOptions)
	defer cancel()

	var resp deribitBookSummaryResult
	out := doJSON(ctx, c.httpBase, fmt.Sprintf("/get_book_summary_by_currency?currency=%s&kind=option", symbol), nil, &resp)
	if out.Kind != OutcomeOK {
		return Outcome[Options]{Kind: out.Kind, Reason: out.Reason, ResetHint: out.ResetHint}
	}
	if len(resp.Result) == 0 {
		return Unsupported[Options]("no options market for symbol")
	}

	var pcrSum, ivSum float64
	for _, r := range resp.Result {
		pcrSum += r.PutCallRatio
		ivSum += r.MarkIV
	}
	n := float64(len(resp.Result))
	return OK(Options{
		PutCallRatio:    pcrSum / n,
		IV:              ivSum / n,
		MaxPain:         0,
		UnusualActivity: n > 50,
	})
}
