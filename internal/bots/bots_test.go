package bots

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"signalengine/internal/indicators"
	"signalengine/internal/store"
)

func f(v float64) *float64 { return &v }

func TestAllReturnsBotCountWithinSpecRange(t *testing.T) {
	all := All()
	assert.GreaterOrEqual(t, len(all), 54)
	assert.LessOrEqual(t, len(all), 87)
}

func TestAllBotNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range All() {
		assert.False(t, seen[b.Name()], "duplicate bot name %q", b.Name())
		seen[b.Name()] = true
	}
}

func TestRSIReversionBotAbstainsWithoutRSI(t *testing.T) {
	b := rsiReversionBot{name: "x", period: 14, oversold: 30, overbought: 70}
	_, ok := b.Analyze(FeatureSet{CurrentPrice: 100})
	assert.False(t, ok)
}

func TestRSIReversionBotVotesLongWhenOversold(t *testing.T) {
	b := rsiReversionBot{name: "x", period: 14, oversold: 30, overbought: 70}
	fs := FeatureSet{
		CurrentPrice: 100,
		Features:     indicators.FeatureVector{RSI: f(20)},
		MaxLeverage:  5,
	}
	v, ok := b.Analyze(fs)
	if assert.True(t, ok) {
		assert.Equal(t, Long, v.Direction)
		assert.GreaterOrEqual(t, v.Confidence, 1)
		assert.LessOrEqual(t, v.Confidence, 10)
	}
}

func TestRSIReversionBotVotesShortWhenOverbought(t *testing.T) {
	b := rsiReversionBot{name: "x", period: 14, oversold: 30, overbought: 70}
	fs := FeatureSet{
		CurrentPrice: 100,
		Features:     indicators.FeatureVector{RSI: f(85)},
		MaxLeverage:  5,
	}
	v, ok := b.Analyze(fs)
	if assert.True(t, ok) {
		assert.Equal(t, Short, v.Direction)
	}
}

func TestRSIReversionBotAbstainsInNeutralZone(t *testing.T) {
	b := rsiReversionBot{name: "x", period: 14, oversold: 30, overbought: 70}
	fs := FeatureSet{CurrentPrice: 100, Features: indicators.FeatureVector{RSI: f(50)}}
	_, ok := b.Analyze(fs)
	assert.False(t, ok)
}

func TestVoteAbstainsOnNonPositiveLevels(t *testing.T) {
	_, ok := vote("x", CategoryTrend, Long, 5, 0, 10, 9, 2, FeatureSet{MaxLeverage: 5}, "bad entry")
	assert.False(t, ok)
}

func TestVoteClampsConfidenceAndLeverage(t *testing.T) {
	v, ok := vote("x", CategoryTrend, Long, 99, 100, 110, 95, 50, FeatureSet{MaxLeverage: 5}, "clamp check")
	if assert.True(t, ok) {
		assert.Equal(t, 10, v.Confidence)
		assert.Equal(t, 5, v.Leverage)
	}
}

func TestVoteAbstainsBelowGuardrailMinConfidence(t *testing.T) {
	_, ok := vote("x", CategoryTrend, Long, 5, 100, 110, 95, 2, FeatureSet{MaxLeverage: 5, MinConfidence: 0.70}, "probation floor")
	assert.False(t, ok)
}

func TestFundingRateBotAbstainsWithoutFunding(t *testing.T) {
	b := fundingRateBot{name: "x"}
	_, ok := b.Analyze(FeatureSet{CurrentPrice: 100})
	assert.False(t, ok)
}

func TestFundingRateBotFadesCrowdedLongs(t *testing.T) {
	b := fundingRateBot{name: "x"}
	fs := FeatureSet{CurrentPrice: 100, FundingRate: f(0.002), MaxLeverage: 5}
	v, ok := b.Analyze(fs)
	if assert.True(t, ok) {
		assert.Equal(t, Short, v.Direction)
	}
}

func TestBullishReversalBotDetectsEngulfing(t *testing.T) {
	b := bullishReversalBot{name: "x"}
	candles := []indicators.Candle{
		{O: 100, H: 101, L: 95, C: 96},
		{O: 95, H: 105, L: 94, C: 104},
	}
	fs := FeatureSet{CurrentPrice: 104, RawCandles: candles, MaxLeverage: 5}
	v, ok := b.Analyze(fs)
	if assert.True(t, ok) {
		assert.Equal(t, Long, v.Direction)
	}
}

func TestBullishReversalBotAbstainsWithoutEnoughCandles(t *testing.T) {
	b := bullishReversalBot{name: "x"}
	_, ok := b.Analyze(FeatureSet{CurrentPrice: 100, RawCandles: []indicators.Candle{{O: 1, H: 2, L: 0, C: 1}}})
	assert.False(t, ok)
}

func TestEnabledFiltersDisabledAndProbationOffBots(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("expected at least one bot")
	}
	disabledName := all[0].Name()
	snapshot := map[string]store.BotSnapshot{
		disabledName: {BotName: disabledName, IsEnabled: false},
	}
	enabled := Enabled(snapshot)
	for _, b := range enabled {
		assert.NotEqual(t, disabledName, b.Name())
	}
	assert.Equal(t, len(all)-1, len(enabled))
}

func TestEnabledTreatsUnknownBotAsEnabled(t *testing.T) {
	enabled := Enabled(map[string]store.BotSnapshot{})
	assert.Equal(t, len(All()), len(enabled))
}

func TestGuardrailsDefaultsWhenSnapshotMissing(t *testing.T) {
	maxLev, minConf := Guardrails("unknown-bot", map[string]store.BotSnapshot{})
	assert.Equal(t, 5, maxLev)
	assert.Equal(t, 0.0, minConf)
}

func TestGuardrailsReadsSnapshotOverride(t *testing.T) {
	snapshot := map[string]store.BotSnapshot{
		"trend-adx-30": {BotName: "trend-adx-30", MaxLeverage: 2, MinConfidence: 6},
	}
	maxLev, minConf := Guardrails("trend-adx-30", snapshot)
	assert.Equal(t, 2, maxLev)
	assert.Equal(t, 6.0, minConf)
}
