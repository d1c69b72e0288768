package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"signalengine/internal/store"
)

func longPrediction(entry, target, stop float64, leverage int) *store.BotPrediction {
	return &store.BotPrediction{
		PositionDirection: store.DirectionLong,
		EntryPrice:        entry, TargetPrice: target, StopLoss: stop, Leverage: leverage,
	}
}

func shortPrediction(entry, target, stop float64, leverage int) *store.BotPrediction {
	return &store.BotPrediction{
		PositionDirection: store.DirectionShort,
		EntryPrice:        entry, TargetPrice: target, StopLoss: stop, Leverage: leverage,
	}
}

func TestProfitLossPercentLongGain(t *testing.T) {
	p := longPrediction(100, 110, 95, 2)
	assert.InDelta(t, 10.0, profitLossPercent(p, 105), 0.0001)
}

func TestProfitLossPercentShortGain(t *testing.T) {
	p := shortPrediction(100, 90, 105, 3)
	assert.InDelta(t, 15.0, profitLossPercent(p, 95), 0.0001)
}

func TestClassifyHorizonOutcomeSuccessAtHalfwayOrBeyond(t *testing.T) {
	p := longPrediction(100, 110, 95, 1)
	assert.Equal(t, store.OutcomeSuccess, classifyHorizonOutcome(p, 106))
}

func TestClassifyHorizonOutcomePartialWhenSomeProgressShortOfHalfway(t *testing.T) {
	p := longPrediction(100, 110, 95, 1)
	assert.Equal(t, store.OutcomePartial, classifyHorizonOutcome(p, 102))
}

func TestClassifyHorizonOutcomeFailedWhenWrongDirection(t *testing.T) {
	p := longPrediction(100, 110, 95, 1)
	assert.Equal(t, store.OutcomeFailed, classifyHorizonOutcome(p, 90))
}

func TestProgressTowardTargetClampsToUnitRange(t *testing.T) {
	p := longPrediction(100, 110, 95, 1)
	assert.Equal(t, 0.0, progressTowardTarget(p, 90))
	assert.Equal(t, 1.0, progressTowardTarget(p, 120))
	assert.InDelta(t, 0.5, progressTowardTarget(p, 105), 0.0001)
}

func TestProgressTowardTargetZeroSpanNeverDividesByZero(t *testing.T) {
	p := longPrediction(100, 100, 95, 1)
	assert.Equal(t, 0.0, progressTowardTarget(p, 105))
}
