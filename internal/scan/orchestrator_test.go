package scan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"signalengine/internal/aggregation"
	"signalengine/internal/bots"
	"signalengine/internal/providers"
)

func TestToIndicatorCandlesPreservesOHLCV(t *testing.T) {
	in := []providers.Candle{{O: 1, H: 2, L: 0.5, C: 1.5, V: 100}}
	out := toIndicatorCandles(in)
	if assert.Len(t, out, 1) {
		assert.Equal(t, 1.0, out[0].O)
		assert.Equal(t, 2.0, out[0].H)
		assert.Equal(t, 1.5, out[0].C)
		assert.Equal(t, 100.0, out[0].V)
	}
}

func TestToStoreRecommendationMapsDirectionAndRiskNotes(t *testing.T) {
	id := uuid.New()
	r := aggregation.Recommendation{
		ID: id, Coin: "BTC", ConsensusDirection: bots.Long, AvgConfidence: 0.8,
		RiskNotes: []string{"HIGH_UNCERTAINTY: low consensus agreement"},
	}
	out := toStoreRecommendation(r)
	assert.Equal(t, id, out.ID)
	assert.EqualValues(t, "LONG", out.ConsensusDirection)
	assert.Equal(t, []string{"HIGH_UNCERTAINTY: low consensus agreement"}, out.RiskNotes)
}

func TestToStorePredictionCarriesCoinName(t *testing.T) {
	p := aggregation.Prediction{BotName: "trend-ema", CoinSymbol: "BTC", PositionDirection: bots.Short}
	out := toStorePrediction(p, "Bitcoin")
	assert.Equal(t, "Bitcoin", out.CoinName)
	assert.EqualValues(t, "SHORT", out.PositionDirection)
	assert.Empty(t, out.OutcomeStatus) // SaveCoinResult sets this at persist time
}

func TestSnapshotMapHandlesNil(t *testing.T) {
	out := snapshotMap(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDefaultConfigListsStablecoinsOnly(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.StablecoinSymbols["USDT"])
	assert.False(t, cfg.StablecoinSymbols["BTC"])
}

func TestDefaultConfigHasPositiveBudgets(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.WorkerCount, 0)
	assert.Greater(t, cfg.Deadline.Seconds(), cfg.DeadlineReserve.Seconds())
	assert.Greater(t, cfg.FlushEvery, 0)
}

func TestDefaultConfigRestrictsOptionsToMajors(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.OptionsAllowlist["BTC"])
	assert.False(t, cfg.OptionsAllowlist["DOGE"])
}
