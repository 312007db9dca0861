package pipeline

import (
	"math"

	"agri-report-workers/internal/models"
)

// Weight is one category's share of an aggregate score.
type Weight struct {
	Category string
	Value    float64
}

var (
	CommunityPriorityWeights = []Weight{
		{"diseaseRisk", 0.4},
		{"spreadPotential", 0.3},
		{"economicImpact", 0.3},
	}

	PhotoVerificationWeights = []Weight{
		{"aiConfidence", 0.40},
		{"weatherCorrelation", 0.25},
		{"satelliteCorrelation", 0.20},
		{"historicalConsistency", 0.10},
		{"fraudPenalty", 0.05},
	}

	TreatmentEffectivenessWeights = []Weight{
		{"treatmentProgress", 0.3},
		{"weatherCompliance", 0.2},
		{"timeEfficiency", 0.2},
		{"aiEffectiveness", 0.3},
	}
)

// Aggregate combines category scores with the given weights. Missing categories
// contribute zero. The level is taken from the unrounded total.
func Aggregate(weights []Weight, scores map[string]float64) models.AggregateScore {
	components := make(map[string]float64, len(weights))
	var raw float64
	for _, w := range weights {
		c := w.Value * scores[w.Category]
		components[w.Category] = c
		raw += c
	}
	return models.AggregateScore{
		Score:      RoundHalfUp(raw),
		Raw:        raw,
		Level:      models.LevelFor(raw),
		Components: components,
	}
}

// RoundHalfUp rounds to the nearest integer, halves toward positive infinity.
// Values outside the int range saturate.
func RoundHalfUp(v float64) int {
	return int(SaturatingInt64(math.Floor(v + 0.5)))
}

// SaturatingInt64 truncates v toward zero, pinning out-of-range values to the
// int64 bounds. NaN becomes 0.
func SaturatingInt64(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// NewCategoryScore clamps raw to [0,100] and derives the level from the unclamped value.
func NewCategoryScore(raw float64, factors []string) models.CategoryScore {
	if factors == nil {
		factors = []string{}
	}
	return models.CategoryScore{
		Score:   RoundHalfUp(Clamp(raw, 0, 100)),
		Level:   models.LevelFor(raw),
		Factors: factors,
	}
}
