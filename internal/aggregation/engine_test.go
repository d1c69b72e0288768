package aggregation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"signalengine/internal/bots"
	"signalengine/internal/indicators"
	"signalengine/internal/providers"
)

type fakeRefiner struct {
	results []providers.LLMRefinement
}

func (f fakeRefiner) AnalyzeIndependent(ctx context.Context, prompt string, n int) []providers.LLMRefinement {
	return f.results
}

func longVote(name string, category bots.Category, confidence int) bots.Vote {
	return bots.Vote{
		BotName: name, Direction: bots.Long, Confidence: confidence,
		Entry: 100, TakeProfit: 110, StopLoss: 95, Leverage: 3, BotCategory: category,
	}
}

func shortVote(name string, category bots.Category, confidence int) bots.Vote {
	return bots.Vote{
		BotName: name, Direction: bots.Short, Confidence: confidence,
		Entry: 100, TakeProfit: 90, StopLoss: 105, Leverage: 3, BotCategory: category,
	}
}

func TestAggregateReturnsNilWhenAllVotesGated(t *testing.T) {
	e := NewEngine(nil)
	in := Input{
		CurrentPrice: 100,
		Votes:        []bots.Vote{longVote("b1", bots.CategoryTrend, 5)},
		Regime:       indicators.Regime{Label: indicators.RegimeBull, Confidence: 0.8},
	}
	assert.Nil(t, e.Aggregate(context.Background(), in))
}

func TestAggregatePicksMajoritySide(t *testing.T) {
	e := NewEngine(nil)
	in := Input{
		CurrentPrice: 100,
		Votes: []bots.Vote{
			longVote("b1", bots.CategoryTrend, 8),
			longVote("b2", bots.CategoryTrend, 8),
			longVote("b3", bots.CategoryMomentum, 7),
			shortVote("b4", bots.CategoryMeanReversion, 6),
		},
		Regime: indicators.Regime{Label: indicators.RegimeBull, Confidence: 0.8},
	}
	d := e.Aggregate(context.Background(), in)
	if assert.NotNil(t, d) {
		assert.Equal(t, bots.Long, d.Recommendation.ConsensusDirection)
		assert.Equal(t, 3, d.Recommendation.LongBots)
		assert.Equal(t, 1, d.Recommendation.ShortBots)
		assert.Len(t, d.Predictions, d.Recommendation.BotCount)
		assert.GreaterOrEqual(t, d.Recommendation.AvgConfidence, 0.0)
		assert.LessOrEqual(t, d.Recommendation.AvgConfidence, 1.0)
	}
}

func TestAggregateAppliesContrarianAmplification(t *testing.T) {
	e := NewEngine(nil)
	base := Input{
		CurrentPrice: 100,
		Votes: []bots.Vote{
			longVote("b1", bots.CategoryTrend, 9),
			longVote("b2", bots.CategoryMomentum, 9),
		},
		Regime: indicators.Regime{Label: indicators.RegimeBull, Confidence: 0.9},
	}
	withoutContrarian := e.Aggregate(context.Background(), base)

	withContrarian := base
	withContrarian.Votes = append([]bots.Vote{}, base.Votes...)
	withContrarian.Votes = append(withContrarian.Votes,
		longVote("c1", bots.CategoryContrarian, 8),
		longVote("c2", bots.CategoryContrarian, 8),
		longVote("c3", bots.CategoryContrarian, 8),
	)
	withContrarianResult := e.Aggregate(context.Background(), withContrarian)

	if assert.NotNil(t, withoutContrarian) && assert.NotNil(t, withContrarianResult) {
		assert.GreaterOrEqual(t, withContrarianResult.Recommendation.AvgConfidence, withoutContrarian.Recommendation.AvgConfidence)
	}
}

func TestAggregateSkipsRefinementBelowThreshold(t *testing.T) {
	e := NewEngine(fakeRefiner{results: []providers.LLMRefinement{{RefinedConfidence: 0.9}}})
	in := Input{
		CurrentPrice: 100,
		Votes:        []bots.Vote{longVote("b1", bots.CategoryOnChain, 6)},
		Regime:       indicators.Regime{Label: indicators.RegimeSideways, Confidence: 0.5},
	}
	d := e.Aggregate(context.Background(), in)
	if assert.NotNil(t, d) {
		assert.Nil(t, d.Recommendation.AIReasoning)
	}
}

func TestAggregateAppliesRefinementAboveThreshold(t *testing.T) {
	e := NewEngine(fakeRefiner{results: []providers.LLMRefinement{
		{RefinedConfidence: 0.80, Reasoning: "strong setup"},
		{RefinedConfidence: 0.82},
	}})
	in := Input{
		CurrentPrice: 100,
		Votes: []bots.Vote{
			longVote("b1", bots.CategoryTrend, 10),
			longVote("b2", bots.CategoryMomentum, 10),
			longVote("b3", bots.CategoryDerivatives, 10),
		},
		Regime: indicators.Regime{Label: indicators.RegimeBull, Confidence: 0.9},
	}
	d := e.Aggregate(context.Background(), in)
	if assert.NotNil(t, d) {
		assert.LessOrEqual(t, d.Recommendation.AvgConfidence, 0.95)
	}
}

func TestAggregateFlagsHighUncertaintyOnLLMDisagreement(t *testing.T) {
	e := NewEngine(fakeRefiner{results: []providers.LLMRefinement{
		{RefinedConfidence: 0.90},
		{RefinedConfidence: 0.60},
	}})
	in := Input{
		CurrentPrice: 100,
		Votes: []bots.Vote{
			longVote("b1", bots.CategoryTrend, 10),
			longVote("b2", bots.CategoryMomentum, 10),
			longVote("b3", bots.CategoryDerivatives, 10),
		},
		Regime: indicators.Regime{Label: indicators.RegimeBull, Confidence: 0.9},
	}
	d := e.Aggregate(context.Background(), in)
	if assert.NotNil(t, d) {
		found := false
		for _, note := range d.Recommendation.RiskNotes {
			if note == "HIGH_UNCERTAINTY: independent LLM refinements disagree" {
				found = true
			}
		}
		assert.True(t, found)
		assert.Equal(t, 0.60, d.Recommendation.AvgConfidence)
	}
}

func TestAggregateKeepsFiniteProjectionsAtZeroPrice(t *testing.T) {
	e := NewEngine(nil)
	in := Input{
		CurrentPrice: 0,
		Votes: []bots.Vote{
			longVote("b1", bots.CategoryTrend, 9),
		},
		Regime: indicators.Regime{Label: indicators.RegimeBull, Confidence: 0.8},
	}
	d := e.Aggregate(context.Background(), in)
	if assert.NotNil(t, d) {
		assert.NotNil(t, d.Recommendation.Predicted24h)
		assert.Equal(t, 0.0, *d.Recommendation.Predicted24h)
	}
}
