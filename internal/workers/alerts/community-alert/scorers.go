package communityalert

import (
	"math"
	"time"

	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
)

const (
	agriculturalShare = 0.15
	farmerDensity     = 0.02
	baseLossPerFarmer = 5000.0
)

func assessDiseaseRisk(disease string, severity int, w models.WeatherConditions) models.CategoryScore {
	raw := float64(severity) * 10

	if w.Humidity > 80 {
		raw += 20
	}
	if w.Temperature > 25 && w.Temperature < 35 {
		raw += 15
	}
	if w.Precipitation > 0 {
		raw += 10
	}

	switch disease {
	case "late_blight":
		if w.Humidity > 85 {
			raw += 25
		}
		if w.Temperature > 20 {
			raw += 20
		}
	case "powdery_mildew":
		if w.Humidity > 70 {
			raw += 20
		}
		if w.Temperature > 25 {
			raw += 15
		}
	case "rust":
		if w.Humidity > 75 {
			raw += 20
		}
		if w.WindSpeed > 15 {
			raw += 15
		}
	case "bacterial_blight":
		if w.Humidity > 80 {
			raw += 25
		}
		if w.Temperature > 30 {
			raw += 20
		}
	}

	return pipeline.NewCategoryScore(raw, riskFactors(w))
}

func riskFactors(w models.WeatherConditions) []string {
	factors := []string{}
	if w.Humidity > 80 {
		factors = append(factors, "High humidity")
	}
	if w.Temperature > 25 {
		factors = append(factors, "Warm temperatures")
	}
	if w.Precipitation > 0 {
		factors = append(factors, "Moisture present")
	}
	if w.WindSpeed > 15 {
		factors = append(factors, "High wind speed")
	}
	return factors
}

func analyzeSpread(radius int, w models.WeatherConditions) SpreadAnalysis {
	factors := SpreadFactors{
		WindSpread:   band(w.WindSpeed, 20, 10),
		WaterSpread:  band(w.Precipitation, 5, 1),
		HumanSpread:  "Medium",
		AnimalSpread: "Low",
	}

	return SpreadAnalysis{
		Factors:               factors,
		EffectiveRadius:       pipeline.RoundHalfUp(float64(radius) * (1 + w.WindSpeed/50)),
		SpreadDirection:       spreadDirection(w.WindDirection),
		ContainmentDifficulty: containmentDifficulty(factors),
	}
}

// band returns High above hi, Medium above mid, else Low.
func band(v, hi, mid float64) string {
	switch {
	case v > hi:
		return "High"
	case v > mid:
		return "Medium"
	default:
		return "Low"
	}
}

var compassOctants = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func spreadDirection(degrees *float64) string {
	if degrees == nil {
		return "Variable"
	}
	d := math.Mod(*degrees, 360)
	if d < 0 {
		d += 360
	}
	return compassOctants[int(math.Floor(d/45+0.5))%len(compassOctants)]
}

func containmentDifficulty(f SpreadFactors) string {
	points := 0
	if f.WindSpread == "High" {
		points += 30
	}
	if f.WaterSpread == "High" {
		points += 25
	}
	if f.HumanSpread == "High" {
		points += 20
	}
	if f.AnimalSpread == "High" {
		points += 15
	}

	switch {
	case points > 60:
		return "Very Difficult"
	case points > 40:
		return "Difficult"
	case points > 20:
		return "Moderate"
	default:
		return "Easy"
	}
}

func correlateWeather(disease string, w models.WeatherConditions) WeatherCorrelation {
	c := WeatherCorrelation{
		Favorable:   []string{},
		Unfavorable: []string{},
		Neutral:     []string{},
		Overall:     "neutral",
	}

	switch disease {
	case "late_blight":
		if w.Humidity > 85 {
			c.Favorable = append(c.Favorable, "High humidity ideal for spore germination")
		}
		if w.Temperature > 20 {
			c.Favorable = append(c.Favorable, "Warm temperatures accelerate growth")
		}
		if w.Precipitation > 0 {
			c.Favorable = append(c.Favorable, "Moisture promotes disease spread")
		}
	case "powdery_mildew":
		if w.Humidity > 70 {
			c.Favorable = append(c.Favorable, "Moderate humidity supports fungal growth")
		}
		if w.Temperature > 25 {
			c.Favorable = append(c.Favorable, "Warm temperatures favor development")
		}
	case "rust":
		if w.Humidity > 75 {
			c.Favorable = append(c.Favorable, "High humidity required for spore production")
		}
		if w.WindSpeed > 15 {
			c.Favorable = append(c.Favorable, "Wind aids spore dispersal")
		}
	}

	if w.Temperature < 10 {
		c.Unfavorable = append(c.Unfavorable, "Cold temperatures inhibit disease development")
	}
	if w.Humidity < 50 {
		c.Unfavorable = append(c.Unfavorable, "Low humidity limits fungal growth")
	}

	switch {
	case len(c.Favorable) > len(c.Unfavorable):
		c.Overall = "favorable"
	case len(c.Unfavorable) > len(c.Favorable):
		c.Overall = "unfavorable"
	}
	return c
}

func summarizeHistory(disease string, h models.OutbreakHistory) HistoricalData {
	trend := "Stable"
	if h.Frequency > 3 {
		trend = "Increasing"
	}
	return HistoricalData{
		Outbreaks: OutbreakSummary{
			Frequency:       h.Frequency,
			LastOutbreak:    h.LastOutbreak.UnixMilli(),
			AverageSeverity: h.AverageSeverity,
			EconomicLoss:    h.EconomicLoss,
		},
		Trend:      trend,
		RiskPeriod: lookupOr(riskPeriods, disease, "Variable"),
	}
}

func area(radius int) float64 {
	r := float64(radius)
	return math.Pi * r * r
}

func populationImpact(radius int, crops []string) PopulationImpact {
	total := area(radius)
	agricultural := total * agriculturalShare

	diversity := "Low"
	switch {
	case len(crops) > 3:
		diversity = "High"
	case len(crops) > 1:
		diversity = "Medium"
	}

	return PopulationImpact{
		TotalArea:        pipeline.RoundHalfUp(total),
		AgriculturalArea: pipeline.RoundHalfUp(agricultural),
		EstimatedFarmers: int(pipeline.SaturatingInt64(math.Floor(agricultural * farmerDensity * 100))),
		AffectedCrops:    len(crops),
		CropDiversity:    diversity,
	}
}

func economicImpact(severity int, pop PopulationImpact) EconomicImpact {
	severityMultiplier := float64(severity) / 100
	cropMultiplier := float64(pop.AffectedCrops) * 0.2
	loss := float64(pop.EstimatedFarmers) * baseLossPerFarmer * severityMultiplier * (1 + cropMultiplier)

	insurance := "Low"
	switch {
	case loss > 100000:
		insurance = "High"
	case loss > 50000:
		insurance = "Medium"
	}

	market := "Minimal"
	switch {
	case severity > 70:
		market = "Significant"
	case severity > 40:
		market = "Moderate"
	}

	return EconomicImpact{
		EstimatedLoss:   pipeline.SaturatingInt64(math.Floor(loss + 0.5)),
		LossPerFarmer:   pipeline.RoundHalfUp(baseLossPerFarmer * severityMultiplier),
		InsuranceImpact: insurance,
		MarketImpact:    market,
	}
}

// alertPriority weighs disease risk against spread and economic bands.
func alertPriority(risk models.CategoryScore, spread SpreadAnalysis, econ EconomicImpact) models.AggregateScore {
	spreadScore := 40.0
	switch {
	case spread.EffectiveRadius > 20:
		spreadScore = 100
	case spread.EffectiveRadius > 10:
		spreadScore = 70
	}

	economicScore := 40.0
	switch {
	case econ.EstimatedLoss > 500000:
		economicScore = 100
	case econ.EstimatedLoss > 100000:
		economicScore = 70
	}

	return pipeline.Aggregate(pipeline.CommunityPriorityWeights, map[string]float64{
		"diseaseRisk":     float64(risk.Score),
		"spreadPotential": spreadScore,
		"economicImpact":  economicScore,
	})
}

func notificationStrategy(level models.Level) NotificationStrategy {
	switch level {
	case models.LevelCritical:
		return NotificationStrategy{
			Immediate: []string{"Emergency SMS alerts", "Push notifications"},
			Delayed:   []string{},
			Channels:  []string{"SMS", "Push", "Email", "Radio", "Social Media"},
			Frequency: "high",
		}
	case models.LevelHigh:
		return NotificationStrategy{
			Immediate: []string{"Push notifications"},
			Delayed:   []string{"Email alerts"},
			Channels:  []string{"Push", "Email", "Social Media"},
			Frequency: "medium",
		}
	default:
		return NotificationStrategy{
			Immediate: []string{},
			Delayed:   []string{"Email alerts"},
			Channels:  []string{"Email", "Social Media"},
			Frequency: "low",
		}
	}
}

func preventionRecommendations(disease string, w models.WeatherConditions) []string {
	recs := []string{}
	if w.Humidity > 80 {
		recs = append(recs, "Increase ventilation in greenhouses", "Apply preventive fungicides")
	}
	if w.Temperature > 25 {
		recs = append(recs, "Monitor for early symptoms", "Implement crop rotation")
	}
	return append(recs, preventionMeasures[disease]...)
}

func weatherRiskFactors(w models.WeatherConditions) []string {
	factors := []string{}
	if w.Humidity > 80 {
		factors = append(factors, "High humidity promotes fungal growth")
	}
	if w.Temperature > 25 {
		factors = append(factors, "Warm temperatures accelerate disease development")
	}
	if w.Precipitation > 0 {
		factors = append(factors, "Moisture facilitates disease spread")
	}
	if w.WindSpeed > 15 {
		factors = append(factors, "Wind aids spore dispersal")
	}
	return factors
}

func immediateActions(level models.Level) []string {
	if actions, ok := immediateActionsByLevel[level]; ok {
		return actions
	}
	return immediateActionsByLevel[models.LevelLow]
}

func historyWindow(now time.Time, span time.Duration) models.DateRange {
	return models.DateRange{From: now.Add(-span), To: now}
}

func lookupOr[V any](table map[string]V, key string, def V) V {
	if v, ok := table[key]; ok {
		return v
	}
	return def
}
