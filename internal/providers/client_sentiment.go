package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BlendedSentimentClient is a concrete C1 sentiment client that fetches
// the Fear & Greed index and CryptoPanic news sentiment concurrently and
// blends them, grounded in the teacher's internal/ai/sentiment.Analyzer
// (alternative.me fear/greed + CryptoPanic news sources fetched in
// parallel and combined into one score).
type BlendedSentimentClient struct {
	fearGreed   httpBase
	cryptoPanic httpBase
	panicAPIKey string
}

func NewBlendedSentimentClient(cryptoPanicAPIKey string) *BlendedSentimentClient {
	return &BlendedSentimentClient{
		fearGreed:   newHTTPBase("alternative.me", "https://api.alternative.me", 6*time.Second),
		cryptoPanic: newHTTPBase("cryptopanic", "https://cryptopanic.com/api/v1", 6*time.Second),
		panicAPIKey: cryptoPanicAPIKey,
	}
}

func (c *BlendedSentimentClient) ID() string { return "blended-sentiment" }

type fearGreedResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
	} `json:"data"`
}

type cryptoPanicResponse struct {
	Results []struct {
		Title    string `json:"title"`
		Votes    struct {
			Positive int `json:"positive"`
			Negative int `json:"negative"`
		} `json:"votes"`
	} `json:"results"`
}

func (c *BlendedSentimentClient) Sentiment(symbol string) Outcome[Sentiment] {
	ctx, cancel := context.WithTimeout(context.Background(), DeadlineSentiment)
	defer cancel()

	var wg sync.WaitGroup
	var fgOut Outcome[fearGreedResponse]
	var newsOut Outcome[cryptoPanicResponse]

	wg.Add(2)
	go func() {
		defer wg.Done()
		var resp fearGreedResponse
		fgOut = doJSON(ctx, c.fearGreed, "/fng/?limit=1", nil, &resp)
	}()
	go func() {
		defer wg.Done()
		var resp cryptoPanicResponse
		headers := map[string]string{}
		path := fmt.Sprintf("/posts/?auth_token=%s&currencies=%s", c.panicAPIKey, symbol)
		newsOut = doJSON(ctx, c.cryptoPanic, path, headers, &resp)
	}()
	wg.Wait()

	if fgOut.Kind != OutcomeOK && newsOut.Kind != OutcomeOK {
		// both sources failed identically — surface the fear/greed outcome,
		// the router will classify and potentially retry/fallback
		return Outcome[Sentiment]{Kind: fgOut.Kind, Reason: fgOut.Reason, ResetHint: fgOut.ResetHint}
	}

	var breakdown []SourceBreakdown
	var total, weight float64

	if fgOut.Kind == OutcomeOK && len(fgOut.Value.Data) > 0 {
		fgScore := fearGreedToScore(fgOut.Value.Data[0].Value)
		breakdown = append(breakdown, SourceBreakdown{Source: "fear_greed", Score: fgScore, Weight: 0.5})
		total += fgScore * 0.5
		weight += 0.5
	}

	if newsOut.Kind == OutcomeOK {
		newsScore := newsSentimentScore(newsOut.Value)
		breakdown = append(breakdown, SourceBreakdown{Source: "cryptopanic", Score: newsScore, Weight: 0.5})
		total += newsScore * 0.5
		weight += 0.5
	}

	if weight == 0 {
		return Unsupported[Sentiment]("no sentiment sources available")
	}

	score := total / weight
	classification := "neutral"
	switch {
	case score > 0.2:
		classification = "bullish"
	case score < -0.2:
		classification = "bearish"
	}

	return OK(Sentiment{
		Score:          score,
		Volume:         len(newsOut.Value.Results),
		Classification: classification,
		PerSource:      breakdown,
	})
}

func fearGreedToScore(value string) float64 {
	var idx float64
	fmt.Sscanf(value, "%f", &idx)
	// 0-100 fear/greed index rescaled to [-1, 1]
	return (idx - 50) / 50
}

func newsSentimentScore(resp cryptoPanicResponse) float64 {
	if len(resp.Results) == 0 {
		return 0
	}
	var pos, neg int
	for _, item := range resp.Results {
		pos += item.Votes.Positive
		neg += item.Votes.Negative
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
