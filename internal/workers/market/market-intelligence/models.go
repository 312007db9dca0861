package marketintelligence

import "agri-report-workers/internal/models"

type Input struct {
	Args []string `json:"args"`
}

type Output struct {
	Report   string `json:"report"`
	ReportID string `json:"reportId"`
	Error    bool   `json:"error"`
}

type Request struct {
	Location  string
	CropType  string
	Latitude  float64
	Longitude float64
}

type Report struct {
	Prices          Prices          `json:"prices"`
	Weather         WeatherOutlook  `json:"weather"`
	Market          MarketAnalysis  `json:"market"`
	Recommendations Recommendations `json:"recommendations"`
	Metadata        Metadata        `json:"metadata"`
}

type Prices struct {
	Crypto       models.CryptoPrices       `json:"crypto"`
	Agricultural map[string]float64        `json:"agricultural"`
	Economic     models.EconomicIndicators `json:"economic"`
}

type WeatherOutlook struct {
	Forecast            []models.ForecastDay `json:"forecast"`
	AverageTemperature  float64              `json:"averageTemperature"`
	AverageHumidity     float64              `json:"averageHumidity"`
	PrecipitationChance float64              `json:"precipitationChance"`
	RiskLevel           models.Level         `json:"riskLevel"`
}

type RiskFactors struct {
	WeatherRisk  models.Level `json:"weatherRisk"`
	MarketRisk   models.Level `json:"marketRisk"`
	DiseaseRisk  models.Level `json:"diseaseRisk"`
	EconomicRisk models.Level `json:"economicRisk"`
}

func (r RiskFactors) highCount() int {
	n := 0
	for _, l := range []models.Level{r.WeatherRisk, r.MarketRisk, r.DiseaseRisk, r.EconomicRisk} {
		if l == models.LevelHigh {
			n++
		}
	}
	return n
}

type Profitability struct {
	Price          float64 `json:"price"`
	Cost           float64 `json:"cost"`
	ProfitMargin   float64 `json:"profitMargin"`
	Recommendation string  `json:"recommendation"`
}

type MarketAnalysis struct {
	Sentiment      models.MarketSentiment   `json:"sentiment"`
	RiskAssessment RiskFactors              `json:"riskAssessment"`
	Profitability  map[string]Profitability `json:"profitability"`
}

type CropRecommendation struct {
	PlantingWindow    string       `json:"plantingWindow"`
	DiseaseRisk       models.Level `json:"diseaseRisk"`
	MarketOutlook     string       `json:"marketOutlook"`
	RecommendedAction string       `json:"recommendedAction"`
}

type GeneralRecommendation struct {
	BestCrop     string       `json:"bestCrop"`
	MarketTiming string       `json:"marketTiming"`
	RiskLevel    models.Level `json:"riskLevel"`
}

type Recommendations struct {
	CropSpecific map[string]CropRecommendation `json:"cropSpecific"`
	General      GeneralRecommendation         `json:"general"`
}

type Metadata struct {
	Timestamp   int64              `json:"timestamp"`
	Location    string             `json:"location"`
	CropType    string             `json:"cropType"`
	Coordinates models.Coordinates `json:"coordinates"`
	DataSources []string           `json:"dataSources"`
}
