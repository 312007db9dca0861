package insuranceverification

import (
	"math"

	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
)

func analyzeSatellite(r models.SatelliteReading) SatelliteAnalysis {
	loss := 0.0
	if r.BeforeNDVI != 0 {
		loss = (r.BeforeNDVI - r.AfterNDVI) / r.BeforeNDVI * 100
	}
	return SatelliteAnalysis{
		Coverage:           r.Coverage,
		Resolution:         r.Resolution,
		BeforeNDVI:         r.BeforeNDVI,
		AfterNDVI:          r.AfterNDVI,
		VegetationLoss:     pipeline.RoundHalfUp(loss),
		DamageVisible:      loss > 20,
		CloudCover:         r.CloudCover,
		ImageQuality:       r.ImageQuality,
		AnalysisConfidence: r.Confidence,
		CapturedAt:         r.CapturedAt.UnixMilli(),
	}
}

// verifyWeather checks the conditions that would produce the claimed damage.
// damageType must be lowercased.
func verifyWeather(damageType string, w models.WeatherConditions) WeatherVerification {
	v := WeatherVerification{Severity: models.LevelLow, Factors: []string{}}
	verify := func(event string, severity models.Level, correlation int, factors ...string) {
		v.EventType, v.Severity, v.Correlation, v.Verified = event, severity, correlation, true
		v.Factors = append(v.Factors, factors...)
	}

	switch damageType {
	case "drought":
		if w.Precipitation < 1 && w.Temperature > 30 {
			verify("Drought", models.LevelHigh, 90, "Low precipitation", "High temperature")
		}
	case "flood":
		if w.Precipitation > 50 {
			severity := models.LevelMedium
			if w.Precipitation > 100 {
				severity = models.LevelHigh
			}
			verify("Flood", severity, 85, "High precipitation")
		}
	case "hail":
		if w.Pressure != nil && *w.Pressure < 1000 && w.WindSpeed > 20 {
			verify("Hail", models.LevelMedium, 75, "Low pressure", "High wind speed")
		}
	case "frost":
		if w.Temperature < 0 {
			severity := models.LevelMedium
			if w.Temperature < -5 {
				severity = models.LevelHigh
			}
			verify("Frost", severity, 95, "Freezing temperature")
		}
	case "disease":
		if w.Humidity > 80 && w.Temperature > 20 {
			verify("Disease Outbreak", models.LevelMedium, 70, "High humidity", "Warm temperature")
		}
	}
	return v
}

func compareHistory(h models.IncidentHistory) HistoricalComparison {
	frequency := models.LevelLow
	switch {
	case h.Incidents > 5:
		frequency = models.LevelHigh
	case h.Incidents > 2:
		frequency = models.LevelMedium
	}
	return HistoricalComparison{
		HistoricalIncidents: h.Incidents,
		AverageLoss:         math.Floor(h.AverageLoss + 0.5),
		Frequency:           frequency,
		Trend:               h.Trend,
		RiskLevel:           frequency,
	}
}

var damageTypeMultipliers = map[string]float64{
	"drought": 1.1,
	"flood":   1.3,
	"hail":    0.9,
	"frost":   1.2,
}

func assessDamage(damageType string, sat SatelliteAnalysis, wv WeatherVerification) DamageAssessment {
	var pct, confidence float64
	if sat.DamageVisible {
		pct = float64(sat.VegetationLoss)
		confidence = sat.AnalysisConfidence
	}

	if wv.Verified {
		confidence += 10
		if wv.Severity == models.LevelHigh {
			pct = math.Min(100, pct*1.2)
		}
	} else {
		confidence -= 20
	}

	if m, ok := damageTypeMultipliers[damageType]; ok {
		pct = math.Min(100, pct*m)
	}

	severity := "Minimal"
	switch {
	case pct > 80:
		severity = "Severe"
	case pct > 50:
		severity = "Moderate"
	case pct > 20:
		severity = "Light"
	}

	return DamageAssessment{
		Percentage: pipeline.RoundHalfUp(pct),
		Confidence: math.Min(100, confidence),
		Severity:   severity,
		Verified:   wv.Verified && sat.DamageVisible,
	}
}

func validateClaim(amount, baseValue float64, damage DamageAssessment, hist HistoricalComparison) ClaimValidation {
	v := ClaimValidation{RecommendedAmount: float64(damage.Percentage) / 100 * baseValue}

	pctDifference := 100.0
	if v.RecommendedAmount != 0 {
		pctDifference = math.Abs(amount-v.RecommendedAmount) / v.RecommendedAmount * 100
	}

	switch {
	case pctDifference < 20:
		v.Reasonable, v.Confidence = true, 90
	case amount > v.RecommendedAmount*1.5:
		v.Overvalued, v.Confidence = true, 80
	case amount < v.RecommendedAmount*0.5:
		v.Undervalued, v.Confidence = true, 85
	}

	if hist.RiskLevel == models.LevelHigh {
		v.RecommendedAmount *= 1.1
	}
	return v
}

// detectFraud scores fraud indicators. damageType must be lowercased.
func detectFraud(damageType string, wv WeatherVerification, signals models.ClaimSignals) FraudAnalysis {
	f := FraudAnalysis{Indicators: []string{}}
	if !wv.Verified {
		f.Indicators = append(f.Indicators, "Weather event not verified")
		f.Score += 30
	}
	if signals.SuspiciousTiming {
		f.Indicators = append(f.Indicators, "Suspicious claim timing")
		f.Score += 20
	}
	if signals.RepeatedClaims {
		f.Indicators = append(f.Indicators, "Multiple claims from same farmer")
		f.Score += 25
	}
	if damageType == "drought" && wv.EventType == "Flood" {
		f.Indicators = append(f.Indicators, "Impossible damage-weather combination")
		f.Score += 50
	}

	f.Flagged = f.Score > 50
	f.Score = int(pipeline.Clamp(float64(f.Score), 0, 100))
	switch {
	case f.Score > 70:
		f.Risk = models.LevelHigh
	case f.Score > 40:
		f.Risk = models.LevelMedium
	default:
		f.Risk = models.LevelLow
	}
	return f
}

func settle(v ClaimValidation, damage DamageAssessment, fraud FraudAnalysis) Settlement {
	s := Settlement{Conditions: []string{}}

	if fraud.Flagged {
		s.Reason = "High fraud risk detected"
		return s
	}
	if !damage.Verified {
		s.Reason = "Damage not verified by satellite and weather data"
		return s
	}

	switch {
	case v.Reasonable:
		s.Approved, s.Amount = true, v.RecommendedAmount
		s.Reason = "Claim approved at recommended amount"
	case v.Overvalued:
		s.Approved, s.Amount = true, v.RecommendedAmount
		s.Reason = "Claim approved at recommended amount (original overvalued)"
	default:
		s.Reason = "Claim amount significantly undervalued"
	}

	if fraud.Score > 20 {
		s.Conditions = append(s.Conditions, "Additional verification required")
	}
	if damage.Confidence < 80 {
		s.Conditions = append(s.Conditions, "Manual review recommended")
	}
	return s
}

// assessFutureRisk scores the plot's exposure. cropType must be lowercased.
func assessFutureRisk(cropType string, wv WeatherVerification) FutureRisk {
	r := FutureRisk{Factors: []string{}}
	switch wv.EventType {
	case "Drought":
		r.Factors = append(r.Factors, "Drought-prone area")
		r.Score += 30
	case "Flood":
		r.Factors = append(r.Factors, "Flood-prone area")
		r.Score += 25
	}

	switch cropType {
	case "corn":
		r.Factors = append(r.Factors, "Susceptible to drought")
		r.Score += 15
	case "rice":
		r.Factors = append(r.Factors, "Requires consistent water")
		r.Score += 20
	case "wheat":
		r.Factors = append(r.Factors, "Sensitive to frost")
		r.Score += 10
	}

	switch {
	case r.Score > 50:
		r.Level = models.LevelHigh
	case r.Score > 30:
		r.Level = models.LevelMedium
	default:
		r.Level = models.LevelLow
	}
	r.Recommendations = riskRecommendations[r.Level]
	return r
}

var riskRecommendations = map[models.Level][]string{
	models.LevelHigh:   {"Implement preventive measures", "Consider crop insurance", "Diversify crop selection"},
	models.LevelMedium: {"Monitor weather forecasts", "Prepare contingency plans"},
	models.LevelLow:    {"Continue current practices", "Regular risk assessment"},
}

// correlateDamage lists the weather facts supporting the claimed damage.
// damageType must be lowercased.
func correlateDamage(damageType string, w models.WeatherConditions) DamageCorrelation {
	c := DamageCorrelation{Strong: []string{}, Moderate: []string{}, Weak: []string{}, Overall: "weak"}
	switch damageType {
	case "drought":
		if w.Precipitation < 1 {
			c.Strong = append(c.Strong, "No precipitation")
		}
		if w.Temperature > 30 {
			c.Strong = append(c.Strong, "High temperature")
		}
	case "flood":
		if w.Precipitation > 50 {
			c.Strong = append(c.Strong, "Heavy precipitation")
		}
	case "frost":
		if w.Temperature < 0 {
			c.Strong = append(c.Strong, "Freezing temperature")
		}
	}

	switch {
	case len(c.Strong) > 0:
		c.Overall = "strong"
	case len(c.Moderate) > 0:
		c.Overall = "moderate"
	}
	return c
}

func insuranceRecommendations(s Settlement, risk FutureRisk) []string {
	var recs []string
	if s.Approved {
		recs = []string{"Process payment within 48 hours", "Schedule follow-up inspection"}
	} else {
		recs = []string{"Request additional documentation", "Schedule manual review"}
	}
	if risk.Level == models.LevelHigh {
		recs = append(recs, "Increase monitoring frequency", "Consider premium adjustment")
	}
	return recs
}
