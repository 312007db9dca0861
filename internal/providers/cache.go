package providers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/common/metrics"
	"agri-report-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "agri:provider:"

// Cache stores provider readings in Redis. A miss or any Redis failure falls
// through to the wrapped provider.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(client redis.Cmdable, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: log}
}

func cached[T any](ctx context.Context, c *Cache, provider, key string, load func(context.Context) (T, error)) (T, error) {
	key = cacheKeyPrefix + provider + ":" + key

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			metrics.ProviderCacheHits.WithLabelValues(provider).Inc()
			return v, nil
		}
		c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
	case !stderrors.Is(err, redis.Nil):
		c.logger.Warn("provider cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if payload, jerr := json.Marshal(v); jerr == nil {
		if serr := c.client.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.logger.Warn("provider cache write failed", map[string]interface{}{"key": key, "error": serr.Error()})
		}
	}
	return v, nil
}

func coordKey(loc models.Location) string {
	return fmt.Sprintf("%.2f:%.2f", loc.Latitude, loc.Longitude)
}

func windowKey(w models.DateRange) string {
	return w.From.UTC().Format("2006-01-02") + ":" + w.To.UTC().Format("2006-01-02")
}

// CachedSatellite decorates a SatelliteProvider with the Redis cache.
type CachedSatellite struct {
	Inner SatelliteProvider
	Cache *Cache
}

func (p *CachedSatellite) Imagery(ctx context.Context, loc models.Location, window models.DateRange) (models.SatelliteReading, error) {
	return cached(ctx, p.Cache, "satellite", coordKey(loc)+":"+windowKey(window),
		func(ctx context.Context) (models.SatelliteReading, error) {
			return p.Inner.Imagery(ctx, loc, window)
		})
}

// CachedHistory decorates a HistoryProvider with the Redis cache.
type CachedHistory struct {
	Inner HistoryProvider
	Cache *Cache
}

func (p *CachedHistory) Outbreaks(ctx context.Context, disease string, loc models.Location, window models.DateRange) (models.OutbreakHistory, error) {
	key := strings.ToLower(disease) + ":" + coordKey(loc) + ":" + windowKey(window)
	return cached(ctx, p.Cache, "outbreaks", key,
		func(ctx context.Context) (models.OutbreakHistory, error) {
			return p.Inner.Outbreaks(ctx, disease, loc, window)
		})
}

func (p *CachedHistory) Incidents(ctx context.Context, loc models.Location, cropType, damageType string) (models.IncidentHistory, error) {
	key := coordKey(loc) + ":" + strings.ToLower(cropType) + ":" + strings.ToLower(damageType)
	return cached(ctx, p.Cache, "incidents", key,
		func(ctx context.Context) (models.IncidentHistory, error) {
			return p.Inner.Incidents(ctx, loc, cropType, damageType)
		})
}

// CachedMarket decorates a MarketProvider with the Redis cache.
type CachedMarket struct {
	Inner MarketProvider
	Cache *Cache
}

func (p *CachedMarket) Snapshot(ctx context.Context, loc models.Location, window models.DateRange) (models.MarketSnapshot, error) {
	return cached(ctx, p.Cache, "market", coordKey(loc)+":"+window.To.UTC().Format("2006-01-02"),
		func(ctx context.Context) (models.MarketSnapshot, error) {
			return p.Inner.Snapshot(ctx, loc, window)
		})
}
