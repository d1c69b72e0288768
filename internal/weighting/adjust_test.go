package weighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextWeightBoostsOnStrongAccuracy(t *testing.T) {
	w, reason := nextWeight(1.0, 0.75)
	assert.InDelta(t, 1.30, w, 0.0001)
	assert.Equal(t, "accuracy >= 0.70", reason)
}

func TestNextWeightMildBoostOnDecentAccuracy(t *testing.T) {
	w, _ := nextWeight(1.0, 0.65)
	assert.InDelta(t, 1.10, w, 0.0001)
}

func TestNextWeightUnchangedInNeutralBand(t *testing.T) {
	w, reason := nextWeight(1.0, 0.55)
	assert.Equal(t, 1.0, w)
	assert.Contains(t, reason, "unchanged")
}

func TestNextWeightHalvesOnPoorAccuracy(t *testing.T) {
	w, _ := nextWeight(1.0, 0.40)
	assert.InDelta(t, 0.50, w, 0.0001)
}

func TestNextWeightClampsToMaxWeight(t *testing.T) {
	w, _ := nextWeight(1.8, 0.90)
	assert.Equal(t, maxWeight, w)
}

func TestNextWeightClampsToMinWeight(t *testing.T) {
	w, _ := nextWeight(0.25, 0.10)
	assert.Equal(t, minWeight, w)
}

func TestClampWeightBounds(t *testing.T) {
	assert.Equal(t, maxWeight, clampWeight(5.0))
	assert.Equal(t, minWeight, clampWeight(0.01))
	assert.Equal(t, 1.1, clampWeight(1.1))
}
