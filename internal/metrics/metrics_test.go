package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordScanCompletionUpdatesAllSeries(t *testing.T) {
	RecordScanCompletion("full", "completed", 42.5, 180, 12)

	assert.Equal(t, float64(180), testutil.ToFloat64(ScanCoinsProcessed.WithLabelValues("full")))
	assert.Equal(t, float64(12), testutil.ToFloat64(ScanSignalsFound.WithLabelValues("full")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ScanRunsTotal.WithLabelValues("full", "completed")))
}

func TestRecordProviderOutcomeIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(ProviderOutcomesTotal.WithLabelValues("ohlcv", "binance", "ok"))
	RecordProviderOutcome("ohlcv", "binance", "ok")
	after := testutil.ToFloat64(ProviderOutcomesTotal.WithLabelValues("ohlcv", "binance", "ok"))
	assert.Equal(t, before+1, after)
}

func TestSetBotCountsSetsBothGauges(t *testing.T) {
	SetBotCounts(40, 61)
	assert.Equal(t, float64(40), testutil.ToFloat64(BotsEnabled))
	assert.Equal(t, float64(61), testutil.ToFloat64(BotsTotal))
}
