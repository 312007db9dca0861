package providers

import (
	"context"
	"database/sql"
	"time"

	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// Deps carries the optional backends a provider set can use.
type Deps struct {
	Redis redis.Cmdable
	DB    *sql.DB
	Clock clockwork.Clock
}

// NewSet builds the provider set from configuration. HTTP backends replace the
// simulated source only when they are configured.
func NewSet(cfg config.ProvidersConfig, deps Deps, log logger.Logger) *Set {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	sim := NewSimulated(cfg.Simulation.Seed, clock)
	set := SimulatedSet(sim)

	if cfg.Weather.APIKey != "" && cfg.Weather.BaseURL != "" {
		set.Weather = NewOpenWeather(cfg.Weather)
		log.Info("weather provider configured", map[string]interface{}{"baseUrl": cfg.Weather.BaseURL})
	}
	if cfg.CoinGecko.BaseURL != "" {
		set.Prices = NewCoinGecko(cfg.CoinGecko)
		log.Info("price provider configured", map[string]interface{}{"baseUrl": cfg.CoinGecko.BaseURL})
	}

	var fallback InferenceProvider = sim
	if cfg.Inference.BaseURL != "" {
		fallback = NewInference(cfg.Inference)
	}
	set.Inference = &routedInference{http: NewInference(cfg.Inference), fallback: fallback}

	if cfg.Cache.Enabled && deps.Redis != nil {
		ttl := time.Duration(cfg.Cache.TTL) * time.Millisecond
		if ttl <= 0 {
			ttl = time.Hour
		}
		cache := NewCache(deps.Redis, ttl, log)
		set.Satellite = &CachedSatellite{Inner: set.Satellite, Cache: cache}
		set.History = &CachedHistory{Inner: set.History, Cache: cache}
		set.Market = &CachedMarket{Inner: set.Market, Cache: cache}
		log.Info("provider cache enabled", map[string]interface{}{"ttl": ttl.String()})
	}

	if cfg.ClaimSignals.UsePostgres && deps.DB != nil {
		set.Claims = NewPostgresClaimSignals(deps.DB, clock.Now)
	}

	return set
}

// routedInference sends detection requests that name their own backend over
// HTTP and everything else to the fallback.
type routedInference struct {
	http     *Inference
	fallback InferenceProvider
}

func (r *routedInference) DetectDisease(ctx context.Context, req DetectionRequest) (models.DiseaseDetection, error) {
	if req.BaseURL != "" {
		return r.http.DetectDisease(ctx, req)
	}
	return r.fallback.DetectDisease(ctx, req)
}

func (r *routedInference) AnalyzeTreatment(ctx context.Context, req TreatmentRequest) (models.TreatmentAnalysis, error) {
	return r.fallback.AnalyzeTreatment(ctx, req)
}
