// internal/models/readings.go
package models

import "time"

// Location identifies the place a provider reading is requested for.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates are echoed into report metadata.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates returns the point without its name.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// DateRange bounds a provider query.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type SatelliteReading struct {
	BeforeNDVI      float64   `json:"beforeNDVI"`
	AfterNDVI       float64   `json:"afterNDVI"`
	VegetationIndex float64   `json:"vegetationIndex"`
	SoilMoisture    float64   `json:"soilMoisture"`
	CloudCover      float64   `json:"cloudCover"`
	Confidence      float64   `json:"confidence"`
	CapturedAt      time.Time `json:"capturedAt"`
	Coverage        string    `json:"coverage"`
	Resolution      string    `json:"resolution"`
	ImageQuality    string    `json:"imageQuality"`
}

type OutbreakHistory struct {
	Frequency       int       `json:"frequency"`
	LastOutbreak    time.Time `json:"lastOutbreak"`
	AverageSeverity float64   `json:"averageSeverity"`
	EconomicLoss    float64   `json:"economicLoss"`
}

type IncidentHistory struct {
	Incidents   int     `json:"incidents"`
	AverageLoss float64 `json:"averageLoss"`
	Trend       string  `json:"trend"`
}

// ClaimSignals are per-claim fraud hints from the claims store.
type ClaimSignals struct {
	SuspiciousTiming bool `json:"suspiciousTiming"`
	RepeatedClaims   bool `json:"repeatedClaims"`
	PriorClaims      int  `json:"priorClaims"`
}

type WeatherObservation struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	Clouds      float64 `json:"clouds"`
	WindSpeed   float64 `json:"windSpeed"`
}

type ForecastDay struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Precipitation bool    `json:"precipitation"`
}

// DiseaseDetection is an inference result; Confidence is a percentage.
type DiseaseDetection struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Severity   float64 `json:"severity"`
	Treatment  string  `json:"treatment"`
}

type TreatmentAnalysis struct {
	EffectivenessScore float64            `json:"effectivenessScore"`
	ImprovementMetrics map[string]float64 `json:"improvementMetrics"`
	DiseaseStatus      string             `json:"diseaseStatus"`
}

type CryptoPrices struct {
	Ethereum float64 `json:"ethereum"`
	Bitcoin  float64 `json:"bitcoin"`
}

type MarketSentiment struct {
	Bullish float64 `json:"bullish"`
	Bearish float64 `json:"bearish"`
	Neutral float64 `json:"neutral"`
}

type EconomicIndicators struct {
	InflationRate   float64 `json:"inflationRate"`
	InterestRate    float64 `json:"interestRate"`
	FuelPrice       float64 `json:"fuelPrice"`
	FertilizerIndex float64 `json:"fertilizerIndex"`
	LaborCost       float64 `json:"laborCost"`
}

// MarketSnapshot bundles the non-crypto market readings.
type MarketSnapshot struct {
	Prices     map[string]float64 `json:"prices"`
	Sentiment  MarketSentiment    `json:"sentiment"`
	Indicators EconomicIndicators `json:"indicators"`
}
