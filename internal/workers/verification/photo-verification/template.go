package photoverification

import (
	"context"
	"fmt"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
)

const arity = 6

// Template cross-checks an AI crop diagnosis against weather and imagery and
// computes the submitter's reward.
type Template struct {
	config    *Config
	inference providers.InferenceProvider
	weather   providers.WeatherProvider
	satellite providers.SatelliteProvider
	logger    logger.Logger
}

func NewTemplate(config *Config, set *providers.Set, log logger.Logger) *Template {
	return &Template{
		config:    config,
		inference: set.Inference,
		weather:   set.Weather,
		satellite: set.Satellite,
		logger:    log.WithFields(map[string]interface{}{"template": TaskType}),
	}
}

func (t *Template) Name() string { return TaskType }

func (t *Template) Arity() int { return arity }

func (t *Template) Identifiers(args pipeline.Args) map[string]interface{} {
	return map[string]interface{}{
		"imageHash": args.String(0),
		"cropType":  args.String(1),
	}
}

func (t *Template) normalize(args pipeline.Args) (*Request, error) {
	if err := args.Require(arity); err != nil {
		return nil, err
	}
	req := &Request{
		ImageHash:        args.String(0),
		CropType:         args.String(1),
		Location:         args.String(2),
		InferenceBaseURL: args.String(5),
	}
	var err error
	if req.Latitude, err = args.Float(3, "latitude"); err != nil {
		return nil, err
	}
	if req.Longitude, err = args.Float(4, "longitude"); err != nil {
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
	now := inv.NowMillis()

	detection, err := t.inference.DetectDisease(ctx, providers.DetectionRequest{
		BaseURL:   req.InferenceBaseURL,
		ImageHash: req.ImageHash,
		CropType:  req.CropType,
		Location:  req.Location,
		Timestamp: now,
	})
	if err != nil {
		return nil, fmt.Errorf("AI analysis failed: %w", err)
	}

	current, err := t.weather.Current(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}

	trend := "stable"
	if past, err := t.weather.Historical(ctx, loc, inv.Now.Add(-t.config.TrendLookback)); err != nil {
		t.logger.Debug("historical weather unavailable, assuming stable trend", map[string]interface{}{"error": err.Error()})
	} else {
		trend = humidityTrend(current.Humidity - past.Humidity)
	}

	imagery, err := t.satellite.Imagery(ctx, loc, models.DateRange{From: inv.Now.Add(-t.config.ImageryWindow), To: inv.Now})
	if err != nil {
		return nil, fmt.Errorf("satellite imagery: %w", err)
	}

	diagnosis := Diagnosis{Disease: detection.Disease}
	riskScore, riskLevel := weatherRisk(current.Temperature, current.Humidity)
	fraud := detectFraud(detection, riskScore, current.Humidity, req.Latitude, req.Longitude)
	verification, aggregate := verify(diagnosis, detection.Confidence, riskScore, imagery.VegetationIndex, trend, fraud)

	disease := detection.Disease
	if disease == "" {
		disease = "Unknown"
	}
	treatment := detection.Treatment
	if treatment == "" {
		treatment = "None"
	}

	return &Report{
		Disease:    disease,
		Confidence: detection.Confidence,
		AIAnalysis: AIAnalysis{
			Disease:                 detection.Disease,
			Confidence:              detection.Confidence,
			Severity:                detection.Severity,
			TreatmentRecommendation: treatment,
		},
		Weather: WeatherAnalysis{
			Temperature: current.Temperature,
			Humidity:    current.Humidity,
			Pressure:    current.Pressure,
			RiskScore:   riskScore,
			RiskLevel:   riskLevel,
			Trend:       trend,
		},
		Satellite: SatelliteSnapshot{
			VegetationIndex: imagery.VegetationIndex,
			SoilMoisture:    imagery.SoilMoisture,
			CloudCover:      current.Clouds,
			LastImageDate:   imagery.CapturedAt.UnixMilli(),
		},
		Verification: verification,
		Rewards:      calculateRewards(t.config.BaseReward, diagnosis, detection.Confidence, aggregate.Raw, riskLevel),
		Community:    assessCommunity(diagnosis, aggregate.Raw, riskScore, req.Location),
		Metadata: Metadata{
			Timestamp:   now,
			ImageHash:   req.ImageHash,
			CropType:    req.CropType,
			Location:    req.Location,
			Coordinates: loc.Coordinates(),
		},
		aggregate: aggregate,
	}, nil
}
