package photoverification

import (
	"math"
	"strings"

	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
)

// weatherRisk scores how favourable current conditions are for disease.
func weatherRisk(temp, humidity float64) (float64, models.Level) {
	switch {
	case humidity > 80 && temp > 15 && temp < 30:
		score := math.Min(100, humidity+(30-math.Abs(temp-22.5))*2)
		if score > 70 {
			return score, models.LevelHigh
		}
		return score, models.LevelMedium
	case humidity > 60:
		score := humidity * 0.8
		if score > 50 {
			return score, models.LevelMedium
		}
		return score, models.LevelLow
	default:
		return 0, models.LevelLow
	}
}

func humidityTrend(change float64) string {
	switch {
	case change > 10:
		return "increasing_risk"
	case change < -10:
		return "decreasing_risk"
	default:
		return "stable"
	}
}

type fraudCheck struct {
	score int
	flags []string
}

func detectFraud(detection models.DiseaseDetection, riskScore, humidity, lat, lon float64) fraudCheck {
	f := fraudCheck{flags: []string{}}
	if detection.Confidence > 95 && riskScore > 80 {
		f.score += 20
		f.flags = append(f.flags, "high_confidence_poor_conditions")
	}
	if strings.Contains(detection.Disease, "drought") && humidity > 80 {
		f.score += 30
		f.flags = append(f.flags, "impossible_disease_weather_combo")
	}
	if math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		f.score += 50
		f.flags = append(f.flags, "invalid_coordinates")
	}
	return f
}

// categoryScores rates each verification signal on a 0-100 scale.
func categoryScores(d Diagnosis, confidence, riskScore, ndvi float64, trend string, fraud int) map[string]float64 {
	scores := map[string]float64{
		"aiConfidence":          confidence,
		"satelliteCorrelation":  50,
		"historicalConsistency": 50,
		"fraudPenalty":          math.Max(0, 100-2*float64(fraud)),
	}

	switch {
	case d.Diseased() && riskScore > 50:
		scores["weatherCorrelation"] = 100
	case d.Diseased():
		scores["weatherCorrelation"] = 60
	case riskScore < 30:
		scores["weatherCorrelation"] = 100
	default:
		scores["weatherCorrelation"] = 40
	}

	if (ndvi < 0.5 && !d.Healthy()) || (ndvi > 0.8 && d.Healthy()) {
		scores["satelliteCorrelation"] = 100
	}
	if (trend == "increasing_risk" && !d.Healthy()) || (trend == "decreasing_risk" && d.Healthy()) {
		scores["historicalConsistency"] = 100
	}
	return scores
}

func verify(d Diagnosis, confidence, riskScore, ndvi float64, trend string, fraud fraudCheck) (Verification, models.AggregateScore) {
	agg := pipeline.Aggregate(pipeline.PhotoVerificationWeights, categoryScores(d, confidence, riskScore, ndvi, trend, fraud.score))
	return Verification{
		Score:      agg.Score,
		Verified:   agg.Raw > 60,
		Level:      agg.Level,
		Factors:    agg.Components,
		FraudScore: fraud.score,
		FraudFlags: fraud.flags,
	}, agg
}

func calculateRewards(base int, d Diagnosis, confidence, verificationRaw float64, riskLevel models.Level) Rewards {
	r := Rewards{BaseReward: base, Multiplier: 1.0}
	switch {
	case !d.Diseased():
		r.BonusReward = 20
	case confidence > 90 && verificationRaw > 80:
		r.BonusReward = 200
	case confidence > 70 && verificationRaw > 60:
		r.BonusReward = 100
	default:
		r.BonusReward = 50
	}

	switch {
	case riskLevel == models.LevelHigh && !d.Healthy():
		r.Multiplier = 1.3
	case riskLevel == models.LevelLow && d.Healthy():
		r.Multiplier = 1.1
	}
	r.TotalReward = int(math.Floor(float64(r.BaseReward+r.BonusReward) * r.Multiplier))
	return r
}

func assessCommunity(d Diagnosis, verificationRaw, riskScore float64, location string) CommunityAssessment {
	c := CommunityAssessment{Location: location}
	if !d.Diseased() || verificationRaw <= 70 {
		return c
	}
	switch {
	case riskScore > 70:
		c.AlertSeverity = 3
	case riskScore > 50:
		c.AlertSeverity = 2
	default:
		c.AlertSeverity = 1
	}
	c.ShouldAlert = c.AlertSeverity >= 2
	return c
}
