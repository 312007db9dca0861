package treatmenttracking

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stubInference struct {
	analysis models.TreatmentAnalysis
	err      error
	last     providers.TreatmentRequest
}

func (s *stubInference) DetectDisease(context.Context, providers.DetectionRequest) (models.DiseaseDetection, error) {
	return models.DiseaseDetection{}, nil
}

func (s *stubInference) AnalyzeTreatment(_ context.Context, req providers.TreatmentRequest) (models.TreatmentAnalysis, error) {
	s.last = req
	return s.analysis, s.err
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, BaseReward: 25}
}

func createTestHandler(t *testing.T) (*Handler, *stubInference) {
	clock := clockwork.NewFakeClockAt(fixedNow)
	log := logger.NewTestLogger(t)
	runner := pipeline.NewRunner(log,
		pipeline.WithClock(clock),
		pipeline.WithIDGenerator(func() string { return "report-1" }),
	)

	inference := &stubInference{analysis: models.TreatmentAnalysis{
		EffectivenessScore: 90,
		ImprovementMetrics: map[string]float64{"lesionReduction": 72},
		DiseaseStatus:      "improving",
	}}
	set := providers.SimulatedSet(providers.NewSimulated(13, clock))
	set.Inference = inference
	return NewHandler(createTestConfig(), set, runner, log), inference
}

func exampleArgs() []string {
	return []string{
		"CROP-42",
		"fungicide",
		"85",
		"QmBefore",
		"QmAfter",
		"7",
		`{"avgTemperature":27,"avgHumidity":60,"precipitationDays":3,"sunlightHours":8}`,
	}
}

func decodeReport(t *testing.T, out *Output) Report {
	var report Report
	require.NoError(t, json.Unmarshal([]byte(out.Report), &report))
	return report
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_EffectiveFungicide(t *testing.T) {
	h, inference := createTestHandler(t)

	out := h.Execute(context.Background(), &Input{Args: exampleArgs()})
	require.False(t, out.Error, out.Report)
	report := decodeReport(t, out)

	eff := report.Treatment.Effectiveness
	assert.Equal(t, 100.0, eff.WeatherCompliance)
	assert.Equal(t, 100.0, eff.TimeEfficiency)
	assert.InDelta(t, 92.5, eff.OverallScore, 1e-9)
	assert.Equal(t, models.LevelCritical, eff.Overall.Level)
	assert.Equal(t, "Disease Control", report.Treatment.Analysis.Category)
	assert.Empty(t, report.Treatment.Analysis.Recommendations)

	assert.Equal(t, "positive", report.Weather.Impact.Overall)
	assert.Equal(t, "Significant", report.Success.DiseaseReduction)
	assert.Equal(t, "Excellent", report.Success.RecoveryRate)
	assert.Equal(t, "Good", report.Success.CostEffectiveness.Rating)
	assert.Equal(t, "Low", report.Success.EnvironmentalImpact.Rating)

	assert.InDelta(t, 2.0, report.Rewards.BonusMultiplier, 1e-9)
	assert.Equal(t, 50, report.Rewards.TotalReward)
	assert.Equal(t, []string{"Excellent effectiveness", "Significant disease reduction", "Excellent recovery rate"}, report.Rewards.Reasons)
	assert.Equal(t, []string{"Continue current treatment protocol", "Maintain regular monitoring schedule"}, report.Recommendations)

	assert.Equal(t, "improving", report.Disease.Status)
	assert.Equal(t, 72.0, report.Disease.Improvement["lesionReduction"])
	assert.Equal(t, Metadata{
		CropID: "CROP-42", Timestamp: fixedNow.UnixMilli(), TreatmentType: "fungicide",
		BeforeImage: "QmBefore", AfterImage: "QmAfter",
	}, report.Metadata)

	assert.Equal(t, providers.TreatmentRequest{
		BeforeImage: "QmBefore", AfterImage: "QmAfter", TreatmentType: "fungicide", Progress: 85,
	}, inference.last)
}

func TestHandler_Execute_PoorInsecticide(t *testing.T) {
	h, inference := createTestHandler(t)
	inference.analysis = models.TreatmentAnalysis{EffectivenessScore: 20, DiseaseStatus: "worsening"}
	args := exampleArgs()
	args[1], args[2], args[5] = "Insecticide", "30", "12"
	args[6] = `{"avgTemperature":33,"avgHumidity":85,"precipitationDays":6,"sunlightHours":10}`

	report := decodeReport(t, h.Execute(context.Background(), &Input{Args: args}))
	eff := report.Treatment.Effectiveness
	assert.Equal(t, 75.0, eff.WeatherCompliance)
	assert.Equal(t, 30.0, eff.TimeEfficiency)
	assert.InDelta(t, 36, eff.OverallScore, 1e-9)

	assert.Equal(t, "Insecticide", report.Treatment.Type)
	assert.Equal(t, "Pest Control", report.Treatment.Analysis.Category)
	assert.Equal(t, []string{"Verify pest identification", "Check application coverage"}, report.Treatment.Analysis.Recommendations)
	assert.Equal(t, "negative", report.Weather.Impact.Overall)
	assert.Equal(t, "Poor", report.Success.RecoveryRate)
	assert.Equal(t, "Poor", report.Success.CostEffectiveness.Rating)
	assert.Equal(t, 85, report.Success.EnvironmentalImpact.Score)
	assert.Equal(t, 25, report.Rewards.TotalReward)
	assert.Empty(t, report.Rewards.Reasons)
	assert.Len(t, report.Recommendations, 8)
	assert.Empty(t, report.Disease.Improvement)
}

func TestHandler_Execute_AnalysisFailureDegrades(t *testing.T) {
	h, inference := createTestHandler(t)
	inference.err = fmt.Errorf("backend returned 502")

	out := h.Execute(context.Background(), &Input{Args: exampleArgs()})
	require.False(t, out.Error, out.Report)
	report := decodeReport(t, out)

	assert.Zero(t, report.Treatment.Effectiveness.AIEffectiveness)
	assert.InDelta(t, 65.5, report.Treatment.Effectiveness.OverallScore, 1e-9)
	assert.Equal(t, "Good", report.Success.RecoveryRate)
	assert.Equal(t, "unknown", report.Disease.Status)
	assert.NotNil(t, report.Disease.Improvement)
}

func TestHandler_Execute_MalformedWeatherUsesDefaults(t *testing.T) {
	h, _ := createTestHandler(t)
	args := exampleArgs()
	args[6] = "sunny"

	report := decodeReport(t, h.Execute(context.Background(), &Input{Args: args}))
	assert.Equal(t, models.DefaultTreatmentWeather(), report.Weather.Conditions)
}

func TestTemplate_ReportIsAggregated(t *testing.T) {
	h, _ := createTestHandler(t)
	built, err := h.Template().Build(context.Background(), &pipeline.Invocation{Args: exampleArgs(), Now: fixedNow})
	require.NoError(t, err)

	agg, ok := built.(pipeline.Aggregated)
	require.True(t, ok)
	assert.InDelta(t, 92.5, agg.AggregateScore().Raw, 1e-9)
}

// ==========================
// Error Report Tests
// ==========================

func TestHandler_Execute_ErrorReports(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{
			name:    "too few arguments",
			args:    []string{"CROP-42", "fungicide", "85"},
			message: "expected 7 arguments, got 3",
		},
		{
			name: "non numeric progress",
			args: func() []string {
				a := exampleArgs()
				a[2] = "most"
				return a
			}(),
			message: `argument treatmentProgress is not a valid number: "most"`,
		},
		{
			name: "non numeric duration",
			args: func() []string {
				a := exampleArgs()
				a[5] = "a week"
				return a
			}(),
			message: `argument treatmentDuration is not a valid number: "a week"`,
		},
	}

	h, _ := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := h.Execute(context.Background(), &Input{Args: tt.args})
			require.True(t, out.Error)

			var doc map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out.Report), &doc))
			assert.Equal(t, true, doc["error"])
			assert.Equal(t, tt.message, doc["message"])
			assert.Equal(t, "CROP-42", doc["cropId"])
			assert.Equal(t, "fungicide", doc["treatmentType"])
			assert.NotContains(t, doc, "rewards")
		})
	}
}
