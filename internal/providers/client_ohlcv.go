package providers

import (
	"context"
	"fmt"
	"time"
)

// coinGeckoMarketRow mirrors the subset of a CoinGecko /coins/markets row
// this client normalizes into a Coin.
type coinGeckoMarketRow struct {
	Symbol                string  `json:"symbol"`
	Name                  string  `json:"name"`
	CurrentPrice          float64 `json:"current_price"`
	MarketCap             float64 `json:"market_cap"`
	MarketCapRank         int     `json:"market_cap_rank"`
}

type coinGeckoOHLCRow [6]float64 // [time_ms, open, high, low, close, volume] for exchange-style candles

// CoinGeckoOHLCVClient is a concrete C1 OHLCV client against CoinGecko's
// public market-data API.
type CoinGeckoOHLCVClient struct {
	httpBase
}

func NewCoinGeckoOHLCVClient(apiKey string) *CoinGeckoOHLCVClient {
	return &CoinGeckoOHLCVClient{httpBase: newHTTPBase("coingecko", "https://api.coingecko.com/api/v3", 8*time.Second)}
}

func (c *CoinGeckoOHLCVClient) ID() string { return c.id }

func (c *CoinGeckoOHLCVClient) TopCoins(req TopCoinsRequest) Outcome[[]Coin] {
	ctx, cancel := context.WithTimeout(context.Background(), DeadlineOHLCV)
	defer cancel()

	category := ""
	if req.Scope == "alt" {
		category = "&category=ethereum-ecosystem"
	}
	path := fmt.Sprintf("/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1%s", req.Limit, category)

	var rows []coinGeckoMarketRow
	out := doJSON(ctx, c.httpBase, path, nil, &rows)
	if out.Kind != OutcomeOK {
		return Outcome[[]Coin]{Kind: out.Kind, Reason: out.Reason, ResetHint: out.ResetHint}
	}

	coins := make([]Coin, 0, len(rows))
	for _, r := range rows {
		if req.MinPrice != nil && r.CurrentPrice < *req.MinPrice {
			continue
		}
		if req.MaxPrice != nil && r.CurrentPrice > *req.MaxPrice {
			continue
		}
		coins = append(coins, Coin{
			Symbol:       r.Symbol,
			Name:         r.Name,
			CurrentPrice: r.CurrentPrice,
			MarketCap:    r.MarketCap,
			Rank:         r.MarketCapRank,
		})
	}
	return OK(coins)
}

func (c *CoinGeckoOHLCVClient) OHLCV(symbol, timeframe string, depth int) Outcome[OHLCVSeries] {
	ctx, cancel := context.WithTimeout(context.Background(), DeadlineOHLCV)
	defer cancel()

	days := depth
	path := fmt.Sprintf("/coins/%s/ohlc?vs_currency=usd&days=%d", symbol, days)

	var rows []coinGeckoOHLCRow
	out := doJSON(ctx, c.httpBase, path, nil, &rows)
	if out.Kind != OutcomeOK {
		return Outcome[OHLCVSeries]{Kind: out.Kind, Reason: out.Reason, ResetHint: out.ResetHint}
	}

	candles := make([]Candle, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, Candle{
			T: time.UnixMilli(int64(r[0])),
			O: r[1], H: r[2], L: r[3], C: r[4], V: 0,
		})
	}
	return OK(OHLCVSeries{Symbol: symbol, Timeframe: timeframe, Candles: candles})
}

// BinanceOHLCVClient is a second ordered C1 client backed by Binance's
// public klines endpoint, used as a fallback in front of/behind CoinGecko.
type BinanceOHLCVClient struct {
	httpBase
}

func NewBinanceOHLCVClient() *BinanceOHLCVClient {
	return &BinanceOHLCVClient{httpBase: newHTTPBase("binance", "https://api.binance.com/api/v3", 8*time.Second)}
}

func (c *BinanceOHLCVClient) ID() string { return c.id }

// TopCoins is unsupported on this client — Binance's public API has no
// ranked-universe endpoint; it only serves individual-symbol data.
func (c *BinanceOHLCVClient) TopCoins(req TopCoinsRequest) Outcome[[]Coin] {
	return Unsupported[[]Coin]("binance client does not serve a ranked universe")
}

type binanceKline [12]interface{}

func (c *BinanceOHLCVClient) OHLCV(symbol, timeframe string, depth int) Outcome[OHLCVSeries] {
	ctx, cancel := context.WithTimeout(context.Background(), DeadlineOHLCV)
	defer cancel()

	interval := binanceInterval(timeframe)
	path := fmt.Sprintf("/klines?symbol=%sUSDT&interval=%s&limit=%d", symbol, interval, depth)

	var rows []binanceKline
	out := doJSON(ctx, c.httpBase, path, nil, &rows)
	if out.Kind != OutcomeOK {
		return Outcome[OHLCVSeries]{Kind: out.Kind, Reason: out.Reason, ResetHint: out.ResetHint}
	}

	candles := make([]Candle, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, Candle{
			T: time.UnixMilli(toInt64(r[0])),
			O: toFloat(r[1]), H: toFloat(r[2]), L: toFloat(r[3]), C: toFloat(r[4]), V: toFloat(r[5]),
		})
	}
	return OK(OHLCVSeries{Symbol: symbol, Timeframe: timeframe, Candles: candles})
}

func binanceInterval(timeframe string) string {
	switch timeframe {
	case "1h":
		return "1h"
	case "4h":
		return "4h"
	case "1w":
		return "1w"
	default:
		return "1d"
	}
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		var f float64
		fmt.Sscanf(t, "%f", &f)
		return f
	default:
		return 0
	}
}

func toInt64(v interface{}) int64 {
	if f, ok := v.(float64); ok {
		return int64(f)
	}
	return 0
}
