package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeReplacesNonFiniteWithNil(t *testing.T) {
	assert.Nil(t, sanitize(math.NaN()))
	assert.Nil(t, sanitize(math.Inf(1)))
	assert.Nil(t, sanitize(math.Inf(-1)))

	v := sanitize(1.5)
	if assert.NotNil(t, v) {
		assert.Equal(t, 1.5, *v)
	}
}

func TestProbationGuardrailsAreTighterThanDefault(t *testing.T) {
	def := DefaultGuardrails("trend-follower-1")
	prob := ProbationGuardrails("trend-follower-1")

	assert.Less(t, prob.MaxLeverage, def.MaxLeverage)
	assert.Greater(t, prob.MinConfidenceRequired, def.MinConfidenceRequired)
	assert.Less(t, prob.StopLossMultiplier, def.StopLossMultiplier)
	assert.Less(t, prob.MaxPositionSizePercent, def.MaxPositionSizePercent)
	assert.True(t, prob.IsProbationMode)
	assert.False(t, def.IsProbationMode)
}
