package aggregation

import "signalengine/internal/bots"

// regimeCategoryWeight is the unified multiplier table of spec.md §4.5.
// Categories the original table groups together (on_chain/sentiment) get
// identical rows; categories the bot bank adds beyond the original table
// (pattern, specialized, ai) are not named there, so they default to a
// neutral 1.0 in every regime via categoryWeight's fallback rather than
// inventing un-sourced multipliers.
var regimeCategoryWeight = map[bots.Category]map[string]float64{
	bots.CategoryTrend:         {"BULL": 1.3, "BEAR": 1.3, "SIDEWAYS": 0.7, "VOLATILE": 0.9},
	bots.CategoryMeanReversion: {"BULL": 0.7, "BEAR": 0.7, "SIDEWAYS": 1.3, "VOLATILE": 0.9},
	bots.CategoryMomentum:      {"BULL": 1.2, "BEAR": 1.2, "SIDEWAYS": 0.8, "VOLATILE": 1.0},
	bots.CategoryVolume:        {"BULL": 1.0, "BEAR": 1.0, "SIDEWAYS": 1.0, "VOLATILE": 1.2},
	bots.CategoryVolatility:    {"BULL": 0.9, "BEAR": 0.9, "SIDEWAYS": 0.9, "VOLATILE": 1.4},
	bots.CategoryContrarian:    {"BULL": 0.8, "BEAR": 0.8, "SIDEWAYS": 1.1, "VOLATILE": 1.0},
	bots.CategoryDerivatives:   {"BULL": 1.1, "BEAR": 1.1, "SIDEWAYS": 1.0, "VOLATILE": 1.1},
	bots.CategoryOnChain:       {"BULL": 1.0, "BEAR": 1.0, "SIDEWAYS": 1.0, "VOLATILE": 1.0},
	bots.CategorySentiment:     {"BULL": 1.0, "BEAR": 1.0, "SIDEWAYS": 1.0, "VOLATILE": 1.0},
}

// categoryWeight resolves the regime multiplier for one bot category,
// defaulting to 1.0 for an unmapped regime or category.
func categoryWeight(category bots.Category, regime string) float64 {
	row, ok := regimeCategoryWeight[category]
	if !ok {
		return 1.0
	}
	w, ok := row[regime]
	if !ok {
		return 1.0
	}
	return w
}

// alignmentScore maps a count of matching higher timeframes (out of 4) to
// spec.md §4.5 step 6's five discrete scores.
func alignmentScore(matching int) int {
	switch matching {
	case 4:
		return 100
	case 3:
		return 75
	case 2:
		return 50
	case 1:
		return 25
	default:
		return 0
	}
}

// alignmentBoost maps an alignment score to its confidence multiplier.
func alignmentBoost(score int) float64 {
	switch score {
	case 100:
		return 1.30
	case 75:
		return 1.20
	case 50:
		return 1.00
	case 25:
		return 0.90
	default:
		return 0.80
	}
}
