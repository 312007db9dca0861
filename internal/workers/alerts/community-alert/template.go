package communityalert

import (
	"context"
	"fmt"
	"strings"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
)

const arity = 8

// Template assesses a reported outbreak and plans the community notification.
type Template struct {
	config  *Config
	history providers.HistoryProvider
	logger  logger.Logger
}

func NewTemplate(config *Config, set *providers.Set, log logger.Logger) *Template {
	return &Template{
		config:  config,
		history: set.History,
		logger:  log.WithFields(map[string]interface{}{"template": TaskType}),
	}
}

func (t *Template) Name() string { return TaskType }

func (t *Template) Arity() int { return arity }

func (t *Template) Identifiers(args pipeline.Args) map[string]interface{} {
	return map[string]interface{}{
		"diseaseType": args.String(0),
		"location":    args.String(2),
	}
}

func (t *Template) normalize(args pipeline.Args) (*Request, error) {
	if err := args.Require(arity); err != nil {
		return nil, err
	}

	req := &Request{DiseaseType: args.String(0), Location: args.String(2)}
	var err error
	if req.Severity, err = args.Int(1, "severity"); err != nil {
		return nil, err
	}
	if req.Latitude, err = args.Float(3, "latitude"); err != nil {
		return nil, err
	}
	if req.Longitude, err = args.Float(4, "longitude"); err != nil {
		return nil, err
	}
	if req.Radius, err = args.Int(5, "radiusKm"); err != nil {
		return nil, err
	}

	crops, substituted := pipeline.DecodeJSONOrDefault[[]string](args.Raw(6), nil)
	if substituted {
		t.logger.Debug("affected crops unreadable, using disease type", map[string]interface{}{"raw": args.Raw(6)})
		crops = []string{req.DiseaseType}
	}
	if crops == nil {
		crops = []string{}
	}
	req.Crops = crops

	weather, substituted := pipeline.DecodeJSONOrDefault(args.Raw(7), models.DefaultCommunityWeather())
	if substituted {
		t.logger.Debug("weather unreadable, using defaults", map[string]interface{}{"raw": args.Raw(7)})
	}
	req.Weather = weather

	return req, nil
}

func (t *Template) Build(ctx context.Context, inv *pipeline.Invocation) (interface{}, error) {
	req, err := t.normalize(inv.Args)
	if err != nil {
		return nil, err
	}
	disease := strings.ToLower(req.DiseaseType)
	loc := models.Location{Name: req.Location, Latitude: req.Latitude, Longitude: req.Longitude}

	outbreaks, err := t.history.Outbreaks(ctx, req.DiseaseType, loc, historyWindow(inv.Now, t.config.HistoryWindow))
	if err != nil {
		return nil, fmt.Errorf("outbreak history: %w", err)
	}

	risk := assessDiseaseRisk(disease, req.Severity, req.Weather)
	spread := analyzeSpread(req.Radius, req.Weather)
	population := populationImpact(req.Radius, req.Crops)
	economic := economicImpact(req.Severity, population)
	priority := alertPriority(risk, spread, economic)
	notifications := notificationStrategy(priority.Level)
	now := inv.NowMillis()

	report := &Report{
		Alert: AlertInfo{
			Type:          "disease_outbreak",
			Priority:      priority.Level,
			PriorityScore: priority,
			Severity:      req.Severity,
			Status:        "active",
			Timestamp:     now,
		},
		Disease: DiseaseInfo{
			Type:          req.DiseaseType,
			Risk:          risk,
			AffectedCrops: req.Crops,
			Symptoms:      lookupOr(symptoms, disease, []string{"Unknown symptoms"}),
			Transmission:  lookupOr(transmission, disease, "Unknown"),
		},
		Location: LocationInfo{
			Coordinates: loc.Coordinates(),
			Radius:      req.Radius,
			Area:        area(req.Radius),
			Spread:      spread,
		},
		Weather: WeatherInfo{
			Conditions:  req.Weather,
			Correlation: correlateWeather(disease, req.Weather),
			RiskFactors: weatherRiskFactors(req.Weather),
		},
		Impact: Impact{
			Population: population,
			Economic:   economic,
			Historical: summarizeHistory(disease, outbreaks),
		},
		Notifications: notifications,
		Prevention:    preventionRecommendations(disease, req.Weather),
		Response: ResponseActions{
			Immediate: immediateActions(priority.Level),
			ShortTerm: shortTermActions,
			LongTerm:  longTermActions,
		},
		Metadata: Metadata{
			Location:    req.Location,
			Timestamp:   now,
			DataSources: dataSources,
		},
		priority: priority,
		notice: models.AlertNotice{
			Level:     priority.Level,
			Message:   alertMessage(req, priority, spread),
			Channels:  notifications.Channels,
			Immediate: notifications.Immediate,
			Delayed:   notifications.Delayed,
		},
	}

	return report, nil
}

func alertMessage(req *Request, priority models.AggregateScore, spread SpreadAnalysis) string {
	return fmt.Sprintf("%s priority %s outbreak reported near %s (severity %d). Effective radius %d km, containment %s.",
		priority.Level, req.DiseaseType, req.Location, req.Severity, spread.EffectiveRadius, strings.ToLower(spread.ContainmentDifficulty))
}
