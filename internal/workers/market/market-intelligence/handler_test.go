package marketintelligence

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

type stubMarket struct {
	snapshot models.MarketSnapshot
	err      error
	window   models.DateRange
}

func (s *stubMarket) Snapshot(_ context.Context, _ models.Location, window models.DateRange) (models.MarketSnapshot, error) {
	s.window = window
	return s.snapshot, s.err
}

type stubWeather struct {
	days      []models.ForecastDay
	err       error
	requested int
}

func (s *stubWeather) Current(context.Context, models.Location) (models.WeatherObservation, error) {
	return models.WeatherObservation{}, nil
}

func (s *stubWeather) Historical(context.Context, models.Location, time.Time) (models.WeatherObservation, error) {
	return models.WeatherObservation{}, nil
}

func (s *stubWeather) Forecast(_ context.Context, _ models.Location, days int) ([]models.ForecastDay, error) {
	s.requested = days
	return s.days, s.err
}

type stubPrices struct {
	prices models.CryptoPrices
	err    error
}

func (s *stubPrices) CryptoPrices(context.Context) (models.CryptoPrices, error) {
	return s.prices, s.err
}

type fixture struct {
	handler *Handler
	market  *stubMarket
	weather *stubWeather
	prices  *stubPrices
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, ForecastDays: 7, MarketWindow: 7 * 24 * time.Hour}
}

func createTestHandler(t *testing.T) *fixture {
	clock := clockwork.NewFakeClockAt(fixedNow)
	log := logger.NewTestLogger(t)
	runner := pipeline.NewRunner(log,
		pipeline.WithClock(clock),
		pipeline.WithIDGenerator(func() string { return "report-1" }),
	)

	f := &fixture{
		market: &stubMarket{snapshot: models.MarketSnapshot{
			Prices:     map[string]float64{"corn": 4.6, "wheat": 4.3, "soybeans": 13.2, "mango": 4.0},
			Sentiment:  models.MarketSentiment{Bullish: 60, Bearish: 20, Neutral: 20},
			Indicators: models.EconomicIndicators{InflationRate: 3.5, InterestRate: 5.5},
		}},
		weather: &stubWeather{days: []models.ForecastDay{
			{Temperature: 20, Humidity: 50},
			{Temperature: 22, Humidity: 60, Precipitation: true},
			{Temperature: 24, Humidity: 70},
			{Temperature: 26, Humidity: 60},
		}},
		prices: &stubPrices{prices: models.CryptoPrices{Ethereum: 3000, Bitcoin: 60000}},
	}
	set := providers.SimulatedSet(providers.NewSimulated(3, clock))
	set.Market, set.Weather, set.Prices = f.market, f.weather, f.prices
	f.handler = NewHandler(createTestConfig(), set, runner, log)
	return f
}

func exampleArgs() []string {
	return []string{"Iowa, USA", "corn", "41.8781", "-93.0977"}
}

func decodeReport(t *testing.T, out *Output) Report {
	var report Report
	require.NoError(t, json.Unmarshal([]byte(out.Report), &report))
	return report
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	f := createTestHandler(t)

	out := f.handler.Execute(context.Background(), &Input{Args: exampleArgs()})
	require.False(t, out.Error, out.Report)
	report := decodeReport(t, out)

	assert.Equal(t, models.CryptoPrices{Ethereum: 3000, Bitcoin: 60000}, report.Prices.Crypto)
	assert.Equal(t, 4.6, report.Prices.Agricultural["corn"])
	assert.Equal(t, 3.5, report.Prices.Economic.InflationRate)

	assert.Len(t, report.Weather.Forecast, 4)
	assert.InDelta(t, 23, report.Weather.AverageTemperature, 1e-9)
	assert.InDelta(t, 60, report.Weather.AverageHumidity, 1e-9)
	assert.InDelta(t, 25, report.Weather.PrecipitationChance, 1e-9)
	assert.Equal(t, models.LevelLow, report.Weather.RiskLevel)

	assert.Equal(t, RiskFactors{
		WeatherRisk:  models.LevelLow,
		MarketRisk:   models.LevelLow,
		DiseaseRisk:  models.LevelLow,
		EconomicRisk: models.LevelMedium,
	}, report.Market.RiskAssessment)

	assert.Equal(t, "Highly Profitable", report.Market.Profitability["corn"].Recommendation)
	assert.Equal(t, "Break-even", report.Market.Profitability["wheat"].Recommendation)
	assert.Equal(t, 5.0, report.Market.Profitability["mango"].Cost)
	assert.Equal(t, "Unprofitable", report.Market.Profitability["mango"].Recommendation)

	assert.Equal(t, CropRecommendation{
		PlantingWindow:    "Optimal",
		DiseaseRisk:       models.LevelMedium,
		MarketOutlook:     "Bearish",
		RecommendedAction: "Plant now",
	}, report.Recommendations.CropSpecific["wheat"])
	assert.Equal(t, "Bullish", report.Recommendations.CropSpecific["soybeans"].MarketOutlook)

	assert.Equal(t, GeneralRecommendation{
		BestCrop:     "soybeans",
		MarketTiming: "Good time to sell",
		RiskLevel:    models.LevelMedium,
	}, report.Recommendations.General)

	assert.Equal(t, "corn", report.Metadata.CropType)
	assert.Equal(t, models.Coordinates{Latitude: 41.8781, Longitude: -93.0977}, report.Metadata.Coordinates)
	assert.Equal(t, dataSources, report.Metadata.DataSources)
	assert.Equal(t, fixedNow.UnixMilli(), report.Metadata.Timestamp)
}

func TestHandler_Execute_RequestsConfiguredWindows(t *testing.T) {
	f := createTestHandler(t)
	days := make([]models.ForecastDay, 9)
	f.weather.days = days

	report := decodeReport(t, f.handler.Execute(context.Background(), &Input{Args: exampleArgs()}))
	assert.Equal(t, 7, f.weather.requested)
	assert.Len(t, report.Weather.Forecast, 7)
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), f.market.window.From)
}

func TestHandler_Execute_AdvisoryFeedsDegrade(t *testing.T) {
	f := createTestHandler(t)
	f.prices.err = fmt.Errorf("rate limited")
	f.weather.err = fmt.Errorf("forecast timeout")

	out := f.handler.Execute(context.Background(), &Input{Args: exampleArgs()})
	require.False(t, out.Error, out.Report)
	report := decodeReport(t, out)

	assert.Equal(t, models.CryptoPrices{}, report.Prices.Crypto)
	assert.Empty(t, report.Weather.Forecast)
	assert.Zero(t, report.Weather.AverageTemperature)
	assert.Zero(t, report.Weather.PrecipitationChance)
	assert.Equal(t, "Wait for warmer weather", report.Recommendations.CropSpecific["corn"].PlantingWindow)
	assert.Equal(t, "Monitor conditions", report.Recommendations.CropSpecific["corn"].RecommendedAction)
}

// ==========================
// Error Report Tests
// ==========================

func TestHandler_Execute_ErrorReports(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		setup   func(*fixture)
		message string
	}{
		{
			name:    "too few arguments",
			args:    []string{"Iowa, USA"},
			message: "expected 4 arguments, got 1",
		},
		{
			name:    "non numeric longitude",
			args:    []string{"Iowa, USA", "corn", "41.8", "west"},
			message: `argument longitude is not a valid number: "west"`,
		},
		{
			name:    "market feed failure",
			args:    exampleArgs(),
			setup:   func(f *fixture) { f.market.err = fmt.Errorf("exchange closed") },
			message: "market snapshot: exchange closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestHandler(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			out := f.handler.Execute(context.Background(), &Input{Args: tt.args})
			require.True(t, out.Error)

			var doc map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out.Report), &doc))
			assert.Equal(t, true, doc["error"])
			assert.Equal(t, tt.message, doc["message"])
			assert.Equal(t, "Iowa, USA", doc["location"])
			assert.NotContains(t, doc, "prices")
		})
	}
}
