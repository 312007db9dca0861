package providers

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"agri-report-workers/internal/models"

	"github.com/jonboulle/clockwork"
)

const day = 24 * time.Hour

// Simulated draws provider readings from a seedable random source. It stands in
// for satellite, history, claims and market feeds, and for weather, price and
// inference backends when running offline.
type Simulated struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock clockwork.Clock
}

// NewSimulated returns a simulated source. A zero seed seeds from the clock.
func NewSimulated(seed int64, clock clockwork.Clock) *Simulated {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	return &Simulated{rng: rand.New(rand.NewSource(seed)), clock: clock}
}

func (s *Simulated) float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Simulated) between(lo, hi float64) float64 {
	return lo + s.float()*(hi-lo)
}

func (s *Simulated) Imagery(_ context.Context, _ models.Location, _ models.DateRange) (models.SatelliteReading, error) {
	now := s.clock.Now()
	return models.SatelliteReading{
		BeforeNDVI:      s.between(0.7, 0.9),
		AfterNDVI:       s.between(0.3, 0.6),
		VegetationIndex: s.between(0.7, 1.0),
		SoilMoisture:    s.between(30, 90),
		CloudCover:      s.between(0, 30),
		Confidence:      s.between(85, 100),
		CapturedAt:      now.Add(-time.Duration(s.float() * float64(7*day))),
		Coverage:        "Full",
		Resolution:      "10m",
		ImageQuality:    "High",
	}, nil
}

func (s *Simulated) Outbreaks(_ context.Context, _ string, _ models.Location, _ models.DateRange) (models.OutbreakHistory, error) {
	now := s.clock.Now()
	return models.OutbreakHistory{
		Frequency:       int(math.Floor(s.float()*5)) + 1,
		LastOutbreak:    now.Add(-time.Duration(s.float() * float64(365*day))),
		AverageSeverity: math.Floor(s.float()*40) + 30,
		EconomicLoss:    math.Floor(s.float()*1000000) + 50000,
	}, nil
}

func (s *Simulated) Incidents(_ context.Context, _ models.Location, _, _ string) (models.IncidentHistory, error) {
	incidents := int(math.Floor(s.float()*10)) + 1
	averageLoss := math.Round(s.between(50000, 150000))
	trend := "Decreasing"
	if s.float() > 0.5 {
		trend = "Increasing"
	}
	return models.IncidentHistory{Incidents: incidents, AverageLoss: averageLoss, Trend: trend}, nil
}

func (s *Simulated) Signals(_ context.Context, _, _ string, _ time.Time) (models.ClaimSignals, error) {
	repeated := s.float() > 0.8
	prior := 0
	if repeated {
		prior = 1
	}
	return models.ClaimSignals{
		SuspiciousTiming: s.clock.Now().UnixMilli()%2 == 0,
		RepeatedClaims:   repeated,
		PriorClaims:      prior,
	}, nil
}

func (s *Simulated) Snapshot(_ context.Context, _ models.Location, _ models.DateRange) (models.MarketSnapshot, error) {
	prices := make(map[string]float64, len(simulatedPriceRanges))
	for _, r := range simulatedPriceRanges {
		prices[r.crop] = s.between(r.lo, r.hi)
	}
	return models.MarketSnapshot{
		Prices: prices,
		Sentiment: models.MarketSentiment{
			Bullish: s.between(0, 100),
			Bearish: s.between(0, 100),
			Neutral: s.between(0, 100),
		},
		Indicators: models.EconomicIndicators{
			InflationRate:   s.between(3.2, 4.2),
			InterestRate:    s.between(5.25, 5.75),
			FuelPrice:       s.between(3.85, 4.15),
			FertilizerIndex: s.between(150, 200),
			LaborCost:       s.between(18.5, 20.5),
		},
	}, nil
}

var simulatedPriceRanges = []struct {
	crop   string
	lo, hi float64
}{
	{"corn", 4.25, 4.75},
	{"wheat", 5.80, 6.60},
	{"soybeans", 12.50, 13.50},
	{"cotton", 0.85, 1.00},
	{"rice", 18.50, 20.50},
	{"potatoes", 8.75, 10.00},
	{"tomatoes", 2.25, 3.00},
	{"apples", 1.45, 2.00},
	{"grapes", 2.80, 4.00},
}

func (s *Simulated) Current(_ context.Context, _ models.Location) (models.WeatherObservation, error) {
	return s.observation(), nil
}

func (s *Simulated) Historical(_ context.Context, _ models.Location, _ time.Time) (models.WeatherObservation, error) {
	return s.observation(), nil
}

func (s *Simulated) observation() models.WeatherObservation {
	return models.WeatherObservation{
		Temperature: s.between(10, 35),
		Humidity:    math.Round(s.between(40, 95)),
		Pressure:    math.Round(s.between(995, 1025)),
		Clouds:      math.Round(s.between(0, 100)),
		WindSpeed:   s.between(0, 20),
	}
}

func (s *Simulated) Forecast(_ context.Context, _ models.Location, days int) ([]models.ForecastDay, error) {
	out := make([]models.ForecastDay, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, models.ForecastDay{
			Temperature:   s.between(5, 30),
			Humidity:      math.Round(s.between(40, 95)),
			Precipitation: s.float() < 0.3,
		})
	}
	return out, nil
}

func (s *Simulated) CryptoPrices(_ context.Context) (models.CryptoPrices, error) {
	return models.CryptoPrices{
		Ethereum: math.Round(s.between(2500, 4000)*100) / 100,
		Bitcoin:  math.Round(s.between(55000, 70000)*100) / 100,
	}, nil
}

var stubDetections = []struct {
	crop, disease, treatment string
}{
	{"apple", "Apple scab", "Apply fungicide spray every 2 weeks"},
	{"tomato", "Early blight", "Remove affected leaves and apply copper fungicide"},
	{"corn", "Common rust", "Use resistant varieties and apply fungicide"},
	{"potato", "Late blight", "Improve air circulation and use preventive fungicides"},
	{"grape", "Black rot", "Prune for air circulation and apply protective fungicides"},
}

// DetectDisease returns a canned detection for known crops. Unknown crops are
// healthy one time in five and otherwise get a random entry.
func (s *Simulated) DetectDisease(_ context.Context, req DetectionRequest) (models.DiseaseDetection, error) {
	crop := strings.ToLower(req.CropType)
	confidence := math.Round(s.between(75, 95)*100) / 100

	for _, d := range stubDetections {
		if strings.HasPrefix(crop, d.crop) {
			return models.DiseaseDetection{
				Disease:    d.disease,
				Confidence: confidence,
				Severity:   s.between(0.1, 0.9),
				Treatment:  d.treatment,
			}, nil
		}
	}

	if s.float() < 0.2 {
		return models.DiseaseDetection{Disease: "Healthy", Confidence: confidence, Treatment: "Continue monitoring"}, nil
	}
	d := stubDetections[int(s.float()*float64(len(stubDetections)))%len(stubDetections)]
	return models.DiseaseDetection{
		Disease:    d.disease,
		Confidence: confidence,
		Severity:   s.between(0.1, 0.9),
		Treatment:  d.treatment,
	}, nil
}

func (s *Simulated) AnalyzeTreatment(_ context.Context, req TreatmentRequest) (models.TreatmentAnalysis, error) {
	effectiveness := math.Round(math.Min(100, float64(req.Progress)*0.6+s.between(0, 40)))
	status := "worsening"
	switch {
	case effectiveness > 70:
		status = "improving"
	case effectiveness > 40:
		status = "stable"
	}
	return models.TreatmentAnalysis{
		EffectivenessScore: effectiveness,
		ImprovementMetrics: map[string]float64{
			"lesionReduction": math.Round(effectiveness * 0.8),
			"greenCoverGain":  math.Round(s.between(0, 25)),
		},
		DiseaseStatus: status,
	}, nil
}
