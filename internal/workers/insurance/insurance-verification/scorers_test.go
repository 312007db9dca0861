package insuranceverification

import (
	"testing"

	"agri-report-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWeather(t *testing.T) {
	tests := []struct {
		name        string
		damageType  string
		weather     models.WeatherConditions
		event       string
		severity    models.Level
		correlation int
		verified    bool
	}{
		{"drought", "drought", models.WeatherConditions{Temperature: 34, Precipitation: 0.2}, "Drought", models.LevelHigh, 90, true},
		{"drought needs heat", "drought", models.WeatherConditions{Temperature: 28}, "", models.LevelLow, 0, false},
		{"moderate flood", "flood", models.WeatherConditions{Precipitation: 80}, "Flood", models.LevelMedium, 85, true},
		{"severe flood", "flood", models.WeatherConditions{Precipitation: 140}, "Flood", models.LevelHigh, 85, true},
		{"hail", "hail", models.WeatherConditions{WindSpeed: 25, Pressure: models.Float64(990)}, "Hail", models.LevelMedium, 75, true},
		{"hail without pressure", "hail", models.WeatherConditions{WindSpeed: 25}, "", models.LevelLow, 0, false},
		{"light frost", "frost", models.WeatherConditions{Temperature: -2}, "Frost", models.LevelMedium, 95, true},
		{"hard frost", "frost", models.WeatherConditions{Temperature: -8}, "Frost", models.LevelHigh, 95, true},
		{"disease", "disease", models.WeatherConditions{Temperature: 24, Humidity: 88}, "Disease Outbreak", models.LevelMedium, 70, true},
		{"unknown damage", "locusts", models.WeatherConditions{Temperature: 40}, "", models.LevelLow, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := verifyWeather(tt.damageType, tt.weather)
			assert.Equal(t, tt.event, v.EventType)
			assert.Equal(t, tt.severity, v.Severity)
			assert.Equal(t, tt.correlation, v.Correlation)
			assert.Equal(t, tt.verified, v.Verified)
		})
	}
}

func TestAnalyzeSatellite_VisibilityUsesUnroundedLoss(t *testing.T) {
	sat := analyzeSatellite(models.SatelliteReading{BeforeNDVI: 0.8, AfterNDVI: 0.6396})
	assert.Equal(t, 20, sat.VegetationLoss)
	assert.True(t, sat.DamageVisible)

	sat = analyzeSatellite(models.SatelliteReading{BeforeNDVI: 0.8, AfterNDVI: 0.65})
	assert.False(t, sat.DamageVisible)
}

func TestAssessDamage(t *testing.T) {
	visible := SatelliteAnalysis{VegetationLoss: 70, DamageVisible: true, AnalysisConfidence: 92}

	t.Run("verified high severity flood caps at 100", func(t *testing.T) {
		d := assessDamage("flood", visible, WeatherVerification{Verified: true, Severity: models.LevelHigh})
		assert.Equal(t, 100, d.Percentage)
		assert.Equal(t, 100.0, d.Confidence)
		assert.Equal(t, "Severe", d.Severity)
		assert.True(t, d.Verified)
	})

	t.Run("unverified hail loses confidence", func(t *testing.T) {
		d := assessDamage("hail", visible, WeatherVerification{})
		assert.Equal(t, 63, d.Percentage)
		assert.Equal(t, 72.0, d.Confidence)
		assert.Equal(t, "Moderate", d.Severity)
		assert.False(t, d.Verified)
	})

	t.Run("invisible damage has no base", func(t *testing.T) {
		d := assessDamage("frost", SatelliteAnalysis{VegetationLoss: 15}, WeatherVerification{Verified: true, Severity: models.LevelMedium})
		assert.Equal(t, 0, d.Percentage)
		assert.Equal(t, 10.0, d.Confidence)
		assert.Equal(t, "Minimal", d.Severity)
		assert.False(t, d.Verified)
	})
}

func TestValidateClaim(t *testing.T) {
	damage := DamageAssessment{Percentage: 40}
	low := HistoricalComparison{RiskLevel: models.LevelLow}

	tests := []struct {
		name       string
		amount     float64
		damage     DamageAssessment
		history    HistoricalComparison
		reasonable bool
		over       bool
		under      bool
		confidence int
		rec        float64
	}{
		{"within twenty percent", 44000, damage, low, true, false, false, 90, 40000},
		{"overvalued", 70000, damage, low, false, true, false, 80, 40000},
		{"undervalued", 15000, damage, low, false, false, true, 85, 40000},
		{"gap between bands", 28000, damage, low, false, false, false, 0, 40000},
		{"high history uplifts after classification", 44000, damage, HistoricalComparison{RiskLevel: models.LevelHigh}, true, false, false, 90, 44000},
		{"zero recommendation counts as full difference", 100, DamageAssessment{}, low, false, true, false, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validateClaim(tt.amount, 100000, tt.damage, tt.history)
			assert.Equal(t, tt.reasonable, v.Reasonable)
			assert.Equal(t, tt.over, v.Overvalued)
			assert.Equal(t, tt.under, v.Undervalued)
			assert.Equal(t, tt.confidence, v.Confidence)
			assert.InDelta(t, tt.rec, v.RecommendedAmount, 0.001)
		})
	}
}

func TestDetectFraud(t *testing.T) {
	t.Run("drought claim against flood weather", func(t *testing.T) {
		f := detectFraud("drought", WeatherVerification{EventType: "Flood"}, models.ClaimSignals{})
		assert.Equal(t, 80, f.Score)
		assert.Equal(t, models.LevelHigh, f.Risk)
		assert.True(t, f.Flagged)
		assert.Equal(t, []string{"Weather event not verified", "Impossible damage-weather combination"}, f.Indicators)

		s := settle(ClaimValidation{Reasonable: true}, DamageAssessment{Verified: true}, f)
		assert.False(t, s.Approved)
		assert.Equal(t, "High fraud risk detected", s.Reason)
	})

	t.Run("all indicators cap at 100", func(t *testing.T) {
		f := detectFraud("drought", WeatherVerification{EventType: "Flood"}, models.ClaimSignals{SuspiciousTiming: true, RepeatedClaims: true})
		assert.Equal(t, 100, f.Score)
		assert.Len(t, f.Indicators, 4)
	})

	t.Run("timing alone is medium at most", func(t *testing.T) {
		f := detectFraud("flood", WeatherVerification{Verified: true, EventType: "Flood"}, models.ClaimSignals{SuspiciousTiming: true, RepeatedClaims: true})
		assert.Equal(t, 45, f.Score)
		assert.Equal(t, models.LevelMedium, f.Risk)
		assert.False(t, f.Flagged)
	})
}

func TestSettle(t *testing.T) {
	verified := DamageAssessment{Verified: true, Confidence: 95}

	tests := []struct {
		name       string
		validation ClaimValidation
		damage     DamageAssessment
		fraud      FraudAnalysis
		approved   bool
		amount     float64
		reason     string
		conditions []string
	}{
		{
			name:       "unverified damage",
			validation: ClaimValidation{Reasonable: true, RecommendedAmount: 5000},
			damage:     DamageAssessment{Confidence: 95},
			reason:     "Damage not verified by satellite and weather data",
			conditions: []string{},
		},
		{
			name:       "overvalued pays recommendation",
			validation: ClaimValidation{Overvalued: true, RecommendedAmount: 30000},
			damage:     DamageAssessment{Verified: true, Confidence: 70},
			fraud:      FraudAnalysis{Score: 25},
			approved:   true,
			amount:     30000,
			reason:     "Claim approved at recommended amount (original overvalued)",
			conditions: []string{"Additional verification required", "Manual review recommended"},
		},
		{
			name:       "undervalued",
			validation: ClaimValidation{Undervalued: true, RecommendedAmount: 30000},
			damage:     verified,
			reason:     "Claim amount significantly undervalued",
			conditions: []string{},
		},
		{
			name:       "reasonable",
			validation: ClaimValidation{Reasonable: true, RecommendedAmount: 42000},
			damage:     verified,
			approved:   true,
			amount:     42000,
			reason:     "Claim approved at recommended amount",
			conditions: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settle(tt.validation, tt.damage, tt.fraud)
			assert.Equal(t, tt.approved, s.Approved)
			assert.Equal(t, tt.amount, s.Amount)
			assert.Equal(t, tt.reason, s.Reason)
			assert.Equal(t, tt.conditions, s.Conditions)
		})
	}
}

func TestAssessFutureRisk(t *testing.T) {
	r := assessFutureRisk("rice", WeatherVerification{EventType: "Drought"})
	assert.Equal(t, 50, r.Score)
	assert.Equal(t, models.LevelMedium, r.Level)
	assert.Equal(t, []string{"Drought-prone area", "Requires consistent water"}, r.Factors)

	r = assessFutureRisk("barley", WeatherVerification{})
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, models.LevelLow, r.Level)
	assert.Equal(t, []string{"Continue current practices", "Regular risk assessment"}, r.Recommendations)

	recs := insuranceRecommendations(Settlement{Approved: true}, FutureRisk{Level: models.LevelHigh})
	assert.Equal(t, []string{
		"Process payment within 48 hours", "Schedule follow-up inspection",
		"Increase monitoring frequency", "Consider premium adjustment",
	}, recs)
}

func TestCorrelateDamage(t *testing.T) {
	c := correlateDamage("drought", models.WeatherConditions{Temperature: 33, Precipitation: 0})
	assert.Equal(t, []string{"No precipitation", "High temperature"}, c.Strong)
	assert.Equal(t, "strong", c.Overall)

	c = correlateDamage("hail", models.WeatherConditions{Temperature: 33})
	assert.Empty(t, c.Strong)
	assert.Equal(t, "weak", c.Overall)
}
