// Package providers supplies the external readings report templates score against.
// Every template receives its providers through a Set so that scorers stay pure.
package providers

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/metrics"
	"agri-report-workers/internal/models"
)

// SatelliteProvider returns vegetation imagery for a location over a window.
type SatelliteProvider interface {
	Imagery(ctx context.Context, loc models.Location, window models.DateRange) (models.SatelliteReading, error)
}

// HistoryProvider returns historical outbreak and incident records.
type HistoryProvider interface {
	Outbreaks(ctx context.Context, disease string, loc models.Location, window models.DateRange) (models.OutbreakHistory, error)
	Incidents(ctx context.Context, loc models.Location, cropType, damageType string) (models.IncidentHistory, error)
}

// ClaimSignalProvider returns fraud hints for an insurance claim.
type ClaimSignalProvider interface {
	Signals(ctx context.Context, claimID, farmer string, incident time.Time) (models.ClaimSignals, error)
}

// MarketProvider returns agricultural prices, sentiment and economic indicators.
type MarketProvider interface {
	Snapshot(ctx context.Context, loc models.Location, window models.DateRange) (models.MarketSnapshot, error)
}

// WeatherProvider returns observed and forecast weather.
type WeatherProvider interface {
	Current(ctx context.Context, loc models.Location) (models.WeatherObservation, error)
	Historical(ctx context.Context, loc models.Location, at time.Time) (models.WeatherObservation, error)
	Forecast(ctx context.Context, loc models.Location, days int) ([]models.ForecastDay, error)
}

// PriceProvider returns crypto reference prices.
type PriceProvider interface {
	CryptoPrices(ctx context.Context) (models.CryptoPrices, error)
}

// DetectionRequest asks the inference backend to classify a crop image.
// An empty BaseURL uses the configured backend.
type DetectionRequest struct {
	BaseURL   string `json:"-"`
	ImageHash string `json:"imageHash"`
	CropType  string `json:"cropType"`
	Location  string `json:"location"`
	Timestamp int64  `json:"timestamp"`
}

// TreatmentRequest asks the inference backend to compare before/after images.
type TreatmentRequest struct {
	BeforeImage   string `json:"beforeImage"`
	AfterImage    string `json:"afterImage"`
	TreatmentType string `json:"treatmentType"`
	Progress      int    `json:"progress"`
}

// InferenceProvider fronts the disease detection backend.
type InferenceProvider interface {
	DetectDisease(ctx context.Context, req DetectionRequest) (models.DiseaseDetection, error)
	AnalyzeTreatment(ctx context.Context, req TreatmentRequest) (models.TreatmentAnalysis, error)
}

// Set bundles the providers a template may use.
type Set struct {
	Satellite SatelliteProvider
	History   HistoryProvider
	Claims    ClaimSignalProvider
	Market    MarketProvider
	Weather   WeatherProvider
	Prices    PriceProvider
	Inference InferenceProvider
}

// SimulatedSet wires every provider to the same simulated source.
func SimulatedSet(sim *Simulated) *Set {
	return &Set{
		Satellite: sim,
		History:   sim,
		Claims:    sim,
		Market:    sim,
		Weather:   sim,
		Prices:    sim,
		Inference: sim,
	}
}

// wrapError converts a transport failure into a provider StandardError and counts it.
func wrapError(provider string, err error) error {
	if err == nil {
		metrics.ProviderCalls.WithLabelValues(provider, "ok").Inc()
		return nil
	}
	if isTimeout(err) {
		metrics.ProviderCalls.WithLabelValues(provider, "timeout").Inc()
		return errors.NewProviderTimeoutError(provider)
	}
	metrics.ProviderCalls.WithLabelValues(provider, "error").Inc()
	return errors.NewProviderRequestFailedError(provider, err)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

const defaultCallTimeout = 10 * time.Second

func endpointTimeout(ms int) time.Duration {
	if ms <= 0 {
		return defaultCallTimeout
	}
	return time.Duration(ms) * time.Millisecond
}
