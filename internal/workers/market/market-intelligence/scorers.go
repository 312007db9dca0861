package marketintelligence

import (
	"sort"

	"agri-report-workers/internal/models"
)

// cropOrder fixes iteration over the agricultural price table. Crops the
// market feed adds beyond it follow in alphabetical order.
var cropOrder = []string{"corn", "wheat", "soybeans", "cotton", "rice", "potatoes", "tomatoes", "apples", "grapes"}

var productionCosts = map[string]float64{
	"corn":     3.80,
	"wheat":    4.20,
	"soybeans": 10.50,
	"cotton":   0.75,
	"rice":     16.00,
	"potatoes": 7.50,
	"tomatoes": 1.80,
	"apples":   1.20,
	"grapes":   2.40,
}

const defaultProductionCost = 5.00

func orderedCrops(prices map[string]float64) []string {
	crops := make([]string, 0, len(prices))
	known := make(map[string]bool, len(cropOrder))
	for _, c := range cropOrder {
		known[c] = true
		if _, ok := prices[c]; ok {
			crops = append(crops, c)
		}
	}
	var extra []string
	for c := range prices {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(crops, extra...)
}

func summarizeForecast(days []models.ForecastDay) WeatherOutlook {
	out := WeatherOutlook{Forecast: days}
	if out.Forecast == nil {
		out.Forecast = []models.ForecastDay{}
	}
	if len(days) > 0 {
		var temp, hum float64
		rainy := 0
		for _, d := range days {
			temp += d.Temperature
			hum += d.Humidity
			if d.Precipitation {
				rainy++
			}
		}
		n := float64(len(days))
		out.AverageTemperature = temp / n
		out.AverageHumidity = hum / n
		out.PrecipitationChance = float64(rainy) / n * 100
	}
	out.RiskLevel = band(out.PrecipitationChance, 60, 30)
	return out
}

// normalizeSentiment rescales the three readings to sum to 100.
func normalizeSentiment(s models.MarketSentiment) models.MarketSentiment {
	total := s.Bullish + s.Bearish + s.Neutral
	if total == 0 {
		return s
	}
	return models.MarketSentiment{
		Bullish: s.Bullish / total * 100,
		Bearish: s.Bearish / total * 100,
		Neutral: s.Neutral / total * 100,
	}
}

// band maps v to High above high, Medium above medium, else Low.
func band(v, high, medium float64) models.Level {
	switch {
	case v > high:
		return models.LevelHigh
	case v > medium:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

func assessRisk(outlook WeatherOutlook, sentiment models.MarketSentiment, indicators models.EconomicIndicators) RiskFactors {
	return RiskFactors{
		WeatherRisk:  outlook.RiskLevel,
		MarketRisk:   band(sentiment.Bearish, 60, 40),
		DiseaseRisk:  band(outlook.AverageHumidity, 80, 60),
		EconomicRisk: band(indicators.InflationRate, 4.0, 3.0),
	}
}

func profitability(prices map[string]float64) map[string]Profitability {
	out := make(map[string]Profitability, len(prices))
	for crop, price := range prices {
		cost, ok := productionCosts[crop]
		if !ok {
			cost = defaultProductionCost
		}
		margin := (price - cost) / cost * 100

		label := "Unprofitable"
		switch {
		case margin > 15:
			label = "Highly Profitable"
		case margin > 5:
			label = "Profitable"
		case margin > -5:
			label = "Break-even"
		}
		out[crop] = Profitability{Price: price, Cost: cost, ProfitMargin: margin, Recommendation: label}
	}
	return out
}

// bestCrop returns the highest-margin crop; ties go to the earlier crop.
func bestCrop(prices map[string]float64, profits map[string]Profitability) string {
	best := ""
	for _, crop := range orderedCrops(prices) {
		if best == "" || profits[crop].ProfitMargin > profits[best].ProfitMargin {
			best = crop
		}
	}
	return best
}

type cropRule struct {
	name          string
	plantingTemp  float64
	diseaseHigh   float64
	diseaseMedium float64
	bullishPrice  float64
	plantNow      func(WeatherOutlook) bool
}

var cropRules = []cropRule{
	{
		name: "corn", plantingTemp: 10, diseaseHigh: 80, diseaseMedium: 60, bullishPrice: 4.5,
		plantNow: func(w WeatherOutlook) bool { return w.AverageTemperature > 10 && w.AverageHumidity < 70 },
	},
	{
		name: "wheat", plantingTemp: 5, diseaseHigh: 75, diseaseMedium: 50, bullishPrice: 6.0,
		plantNow: func(w WeatherOutlook) bool { return w.AverageTemperature > 5 && w.PrecipitationChance < 30 },
	},
	{
		name: "soybeans", plantingTemp: 15, diseaseHigh: 85, diseaseMedium: 65, bullishPrice: 13.0,
		plantNow: func(w WeatherOutlook) bool { return w.AverageTemperature > 15 && w.AverageHumidity < 80 },
	},
}

func cropRecommendations(w WeatherOutlook, prices map[string]float64) map[string]CropRecommendation {
	out := make(map[string]CropRecommendation, len(cropRules))
	for _, r := range cropRules {
		rec := CropRecommendation{
			PlantingWindow:    "Wait for warmer weather",
			DiseaseRisk:       band(w.AverageHumidity, r.diseaseHigh, r.diseaseMedium),
			MarketOutlook:     "Bearish",
			RecommendedAction: "Monitor conditions",
		}
		if w.AverageTemperature > r.plantingTemp {
			rec.PlantingWindow = "Optimal"
		}
		if prices[r.name] > r.bullishPrice {
			rec.MarketOutlook = "Bullish"
		}
		if r.plantNow(w) {
			rec.RecommendedAction = "Plant now"
		}
		out[r.name] = rec
	}
	return out
}

func generalRecommendation(prices map[string]float64, profits map[string]Profitability, sentiment models.MarketSentiment, risk RiskFactors) GeneralRecommendation {
	g := GeneralRecommendation{
		BestCrop:     bestCrop(prices, profits),
		MarketTiming: "Consider holding",
		RiskLevel:    models.LevelMedium,
	}
	if sentiment.Bullish > 50 {
		g.MarketTiming = "Good time to sell"
	}
	if risk.highCount() > 2 {
		g.RiskLevel = models.LevelHigh
	}
	return g
}
