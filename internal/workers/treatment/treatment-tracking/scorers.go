package treatmenttracking

import (
	"math"

	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
)

// Treatment types are matched lowercased.
const (
	fungicide   = "fungicide"
	insecticide = "insecticide"
	fertilizer  = "fertilizer"
	irrigation  = "irrigation"
)

var optimalDurations = map[string]int{
	fungicide:    7,
	insecticide:  5,
	fertilizer:   14,
	irrigation:   3,
	"pruning":    2,
	"harvesting": 1,
}

const defaultOptimalDuration = 7

var baseCosts = map[string]float64{
	fungicide:    50,
	insecticide:  40,
	fertilizer:   80,
	irrigation:   30,
	"pruning":    20,
	"harvesting": 15,
}

const defaultBaseCost = 50

type typeProfile struct {
	category        string
	recommendations []string
}

var typeProfiles = map[string]typeProfile{
	fungicide:   {"Disease Control", []string{"Consider alternative fungicide", "Check application timing"}},
	insecticide: {"Pest Control", []string{"Verify pest identification", "Check application coverage"}},
	fertilizer:  {"Nutrient Management", []string{"Test soil pH", "Consider slow-release fertilizer"}},
	irrigation:  {"Water Management", []string{"Check irrigation system", "Monitor soil moisture"}},
}

func weatherCompliance(w models.TreatmentWeather, treatment string) float64 {
	compliance := 100.0
	switch treatment {
	case fungicide:
		if w.AvgHumidity > 80 {
			compliance -= 30
		}
		if w.PrecipitationDays > 5 {
			compliance -= 20
		}
	case insecticide:
		if w.AvgTemperature > 30 {
			compliance -= 25
		}
		if w.AvgTemperature < 10 {
			compliance -= 25
		}
	case fertilizer:
		if w.PrecipitationDays < 2 {
			compliance -= 20
		}
		if w.PrecipitationDays > 8 {
			compliance -= 15
		}
	case irrigation:
		if w.AvgTemperature > 35 {
			compliance -= 10
		}
	}
	return math.Max(0, compliance)
}

func timeEfficiency(duration int, treatment string) float64 {
	optimal, ok := optimalDurations[treatment]
	if !ok {
		optimal = defaultOptimalDuration
	}
	return math.Max(0, 100-math.Abs(float64(duration-optimal))*10)
}

func effectiveness(progress int, compliance, efficiency, ai float64) Effectiveness {
	overall := pipeline.Aggregate(pipeline.TreatmentEffectivenessWeights, map[string]float64{
		"treatmentProgress": float64(progress),
		"weatherCompliance": compliance,
		"timeEfficiency":    efficiency,
		"aiEffectiveness":   ai,
	})
	return Effectiveness{
		ProgressScore:     float64(progress),
		WeatherCompliance: compliance,
		TimeEfficiency:    efficiency,
		AIEffectiveness:   ai,
		OverallScore:      overall.Raw,
		Overall:           overall,
	}
}

func analyzeTreatmentType(treatmentType, key string, overall float64) TreatmentAnalysis {
	a := TreatmentAnalysis{Type: treatmentType, Effectiveness: overall, Category: "General", Recommendations: []string{}}
	if p, ok := typeProfiles[key]; ok {
		a.Category = p.category
		if overall < 60 {
			a.Recommendations = append(a.Recommendations, p.recommendations...)
		}
	}
	return a
}

func assessWeatherImpact(w models.TreatmentWeather, treatment string) WeatherImpact {
	impact := WeatherImpact{Positive: []string{}, Negative: []string{}, Neutral: []string{}, Overall: "neutral"}

	switch {
	case w.AvgTemperature > 25 && w.AvgTemperature < 30:
		impact.Positive = append(impact.Positive, "Optimal temperature for most treatments")
	case w.AvgTemperature > 35:
		impact.Negative = append(impact.Negative, "High temperature may reduce treatment effectiveness")
	}

	switch {
	case w.AvgHumidity > 70 && treatment == fungicide:
		impact.Negative = append(impact.Negative, "High humidity may reduce fungicide effectiveness")
	case w.AvgHumidity < 40 && treatment == irrigation:
		impact.Positive = append(impact.Positive, "Low humidity increases irrigation need")
	}

	switch {
	case w.PrecipitationDays > 5:
		impact.Negative = append(impact.Negative, "Excessive rain may wash away treatments")
	case w.PrecipitationDays < 2 && treatment == fertilizer:
		impact.Negative = append(impact.Negative, "Insufficient rain for fertilizer activation")
	}

	switch {
	case len(impact.Positive) > len(impact.Negative):
		impact.Overall = "positive"
	case len(impact.Negative) > len(impact.Positive):
		impact.Overall = "negative"
	}
	return impact
}

func diseaseReduction(progress int) string {
	switch {
	case progress > 80:
		return "Significant"
	case progress > 50:
		return "Moderate"
	default:
		return "Minimal"
	}
}

var recoveryRates = map[models.Level]string{
	models.LevelCritical: "Excellent",
	models.LevelHigh:     "Good",
	models.LevelMedium:   "Fair",
	models.LevelLow:      "Poor",
}

func costEffectiveness(treatment string, overall float64) CostEffectiveness {
	cost, ok := baseCosts[treatment]
	if !ok {
		cost = defaultBaseCost
	}
	ratio := (overall / 100) * (100 / cost)

	rating := "Poor"
	switch {
	case ratio > 2:
		rating = "Excellent"
	case ratio > 1.5:
		rating = "Good"
	case ratio > 1:
		rating = "Fair"
	}
	return CostEffectiveness{Cost: cost, Effectiveness: overall, Ratio: ratio, Rating: rating}
}

func environmentalImpact(treatment string, w models.TreatmentWeather) EnvironmentalImpact {
	impact := EnvironmentalImpact{Score: 100, Factors: []string{}}
	switch treatment {
	case fungicide:
		if w.PrecipitationDays > 5 {
			impact.Score -= 20
			impact.Factors = append(impact.Factors, "High runoff risk")
		}
	case insecticide:
		impact.Score -= 15
		impact.Factors = append(impact.Factors, "Potential non-target effects")
	case fertilizer:
		if w.PrecipitationDays > 3 {
			impact.Score -= 25
			impact.Factors = append(impact.Factors, "Nutrient leaching risk")
		}
	case irrigation:
		if w.AvgTemperature > 30 {
			impact.Score -= 10
			impact.Factors = append(impact.Factors, "High water consumption")
		}
	}

	switch {
	case impact.Score > 80:
		impact.Rating = "Low"
	case impact.Score > 60:
		impact.Rating = "Medium"
	default:
		impact.Rating = "High"
	}
	return impact
}

func successMetrics(progress int, eff Effectiveness, treatment string, w models.TreatmentWeather) SuccessMetrics {
	return SuccessMetrics{
		DiseaseReduction:    diseaseReduction(progress),
		RecoveryRate:        recoveryRates[eff.Overall.Level],
		CostEffectiveness:   costEffectiveness(treatment, eff.OverallScore),
		EnvironmentalImpact: environmentalImpact(treatment, w),
	}
}

func bonusRewards(base int, eff Effectiveness, success SuccessMetrics) BonusRewards {
	r := BonusRewards{BaseReward: base, BonusMultiplier: 1.0, Reasons: []string{}}
	bonus := func(amount float64, reason string) {
		r.BonusMultiplier += amount
		r.Reasons = append(r.Reasons, reason)
	}

	switch {
	case eff.OverallScore > 90:
		bonus(0.5, "Excellent effectiveness")
	case eff.OverallScore > 80:
		bonus(0.3, "High effectiveness")
	case eff.OverallScore > 70:
		bonus(0.2, "Good effectiveness")
	}
	if success.DiseaseReduction == "Significant" {
		bonus(0.3, "Significant disease reduction")
	}
	if success.RecoveryRate == "Excellent" {
		bonus(0.2, "Excellent recovery rate")
	}
	if success.CostEffectiveness.Rating == "Excellent" {
		bonus(0.2, "Excellent cost effectiveness")
	}

	r.TotalReward = int(math.Floor(float64(r.BaseReward) * r.BonusMultiplier))
	return r
}

func treatmentRecommendations(eff Effectiveness, success SuccessMetrics, w models.TreatmentWeather) []string {
	var recs []string
	if eff.OverallScore < 60 {
		recs = append(recs, "Consider alternative treatment approach", "Review application timing and method")
	}
	if success.DiseaseReduction == "Minimal" {
		recs = append(recs, "Increase treatment frequency", "Consult with agricultural expert")
	}
	if w.AvgHumidity > 80 {
		recs = append(recs, "Monitor for fungal growth", "Consider preventive fungicide application")
	}
	if w.AvgTemperature > 30 {
		recs = append(recs, "Increase irrigation frequency", "Monitor for heat stress")
	}
	if len(recs) == 0 {
		recs = []string{"Continue current treatment protocol", "Maintain regular monitoring schedule"}
	}
	return recs
}
