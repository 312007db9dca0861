package pipeline

import (
	"math"
	"testing"

	"agri-report-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		weights   []Weight
		scores    map[string]float64
		wantScore int
		wantLevel models.Level
	}{
		{
			name:      "community critical",
			weights:   CommunityPriorityWeights,
			scores:    map[string]float64{"diseaseRisk": 100, "spreadPotential": 70, "economicImpact": 100},
			wantScore: 91,
			wantLevel: models.LevelCritical,
		},
		{
			name:      "exactly eighty is high",
			weights:   []Weight{{"a", 0.5}, {"b", 0.5}},
			scores:    map[string]float64{"a": 80, "b": 80},
			wantScore: 80,
			wantLevel: models.LevelHigh,
		},
		{
			name:      "missing category contributes zero",
			weights:   TreatmentEffectivenessWeights,
			scores:    map[string]float64{"treatmentProgress": 100},
			wantScore: 30,
			wantLevel: models.LevelLow,
		},
		{
			name:      "half rounds up",
			weights:   []Weight{{"a", 0.5}},
			scores:    map[string]float64{"a": 81},
			wantScore: 41,
			wantLevel: models.LevelMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.weights, tt.scores)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Len(t, got.Components, len(tt.weights))
		})
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	scores := map[string]float64{
		"aiConfidence": 88, "weatherCorrelation": 100, "satelliteCorrelation": 50,
		"historicalConsistency": 50, "fraudPenalty": 100,
	}
	first := Aggregate(PhotoVerificationWeights, scores)
	second := Aggregate(PhotoVerificationWeights, scores)
	assert.Equal(t, first, second)
	assert.InDelta(t, 35.2+25+10+5+5, first.Raw, 1e-9)
}

func TestWeightsSumToOne(t *testing.T) {
	for name, ws := range map[string][]Weight{
		"community": CommunityPriorityWeights,
		"photo":     PhotoVerificationWeights,
		"treatment": TreatmentEffectivenessWeights,
	} {
		var sum float64
		for _, w := range ws {
			sum += w.Value
		}
		assert.InDelta(t, 1.0, sum, 1e-9, name)
	}
}

func TestNewCategoryScore(t *testing.T) {
	cs := NewCategoryScore(175, nil)
	assert.Equal(t, 100, cs.Score)
	assert.Equal(t, models.LevelCritical, cs.Level)
	assert.NotNil(t, cs.Factors)

	cs = NewCategoryScore(-5, []string{"x"})
	assert.Equal(t, 0, cs.Score)
	assert.Equal(t, models.LevelLow, cs.Level)
}

func TestSaturatingInt64(t *testing.T) {
	assert.Equal(t, int64(42), SaturatingInt64(42.9))
	assert.Equal(t, int64(-42), SaturatingInt64(-42.9))
	assert.Equal(t, int64(math.MaxInt64), SaturatingInt64(1e30))
	assert.Equal(t, int64(math.MinInt64), SaturatingInt64(-1e30))
	assert.Equal(t, int64(math.MaxInt64), SaturatingInt64(math.Inf(1)))
	assert.Zero(t, SaturatingInt64(math.NaN()))
	assert.Equal(t, math.MaxInt64, RoundHalfUp(1e300))
}
