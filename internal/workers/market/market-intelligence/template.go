package marketintelligence

import (
	"context"
	"fmt"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
)

const arity = 4

var dataSources = []string{"OpenWeatherMap", "CoinGecko", "Agricultural APIs"}

// Template compiles prices, forecast and market sentiment into planting and selling advice.
type Template struct {
	config  *Config
	market  providers.MarketProvider
	weather providers.WeatherProvider
	prices  providers.PriceProvider
	logger  logger.Logger
}

func NewTemplate(config *Config, set *providers.Set, log logger.Logger) *Template {
	return &Template{
		config:  config,
		market:  set.Market,
		weather: set.Weather,
		prices:  set.Prices,
		logger:  log.WithFields(map[string]interface{}{"template": TaskType}),
	}
}

func (t *Template) Name() string { return TaskType }

func (t *Template) Arity() int { return arity }

func (t *Template) Identifiers(args pipeline.Args) map[string]interface{} {
	return map[string]interface{}{
		"location": args.String(0),
		"cropType": args.String(1),
	}
}

func (t *Template) normalize(args pipeline.Args) (*Request, error) {
	if err := args.Require(arity); err != nil {
		return nil, err
	}
	req := &Request{Location: args.String(0), CropType: args.String(1)}
	var err error
	if req.Latitude, err = args.Float(2, "latitude"); err != nil {
		return nil, err
	}
	if req.Longitude, err = args.Float(3, "longitude"); err != nil {
		return nil, err
	}
	return req, nil
}

func (t *Template) Build(ctx context.Context, inv *pipeline.Invocation) (interface{}, error) {
	req, err := t.normalize(inv.Args)
	if err != nil {
		return nil, err
	}
	loc := models.Location{Name: req.Location, Latitude: req.Latitude, Longitude: req.Longitude}

	// Crypto and forecast feeds are advisory; their failures leave zero values.
	crypto, err := t.prices.CryptoPrices(ctx)
	if err != nil {
		t.logger.Warn("crypto prices unavailable", map[string]interface{}{"error": err.Error()})
		crypto = models.CryptoPrices{}
	}
	forecast, err := t.weather.Forecast(ctx, loc, t.config.ForecastDays)
	if err != nil {
		t.logger.Warn("forecast unavailable", map[string]interface{}{"error": err.Error()})
		forecast = nil
	}
	if len(forecast) > t.config.ForecastDays {
		forecast = forecast[:t.config.ForecastDays]
	}

	snapshot, err := t.market.Snapshot(ctx, loc, models.DateRange{From: inv.Now.Add(-t.config.MarketWindow), To: inv.Now})
	if err != nil {
		return nil, fmt.Errorf("market snapshot: %w", err)
	}
	agricultural := snapshot.Prices
	if agricultural == nil {
		agricultural = map[string]float64{}
	}

	outlook := summarizeForecast(forecast)
	sentiment := normalizeSentiment(snapshot.Sentiment)
	risk := assessRisk(outlook, sentiment, snapshot.Indicators)
	profits := profitability(agricultural)

	return &Report{
		Prices: Prices{
			Crypto:       crypto,
			Agricultural: agricultural,
			Economic:     snapshot.Indicators,
		},
		Weather: outlook,
		Market: MarketAnalysis{
			Sentiment:      sentiment,
			RiskAssessment: risk,
			Profitability:  profits,
		},
		Recommendations: Recommendations{
			CropSpecific: cropRecommendations(outlook, agricultural),
			General:      generalRecommendation(agricultural, profits, sentiment, risk),
		},
		Metadata: Metadata{
			Timestamp:   inv.NowMillis(),
			Location:    req.Location,
			CropType:    req.CropType,
			Coordinates: loc.Coordinates(),
			DataSources: dataSources,
		},
	}, nil
}
