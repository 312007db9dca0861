package insuranceverification

import (
	"context"
	"fmt"
	"strings"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
)

const arity = 10

var dataSources = []string{"Satellite Imagery", "Weather APIs", "Historical Records", "Blockchain Data"}

// Template verifies a crop damage claim against imagery, weather and claim history.
type Template struct {
	config    *Config
	satellite providers.SatelliteProvider
	history   providers.HistoryProvider
	claims    providers.ClaimSignalProvider
	logger    logger.Logger
}

func NewTemplate(config *Config, set *providers.Set, log logger.Logger) *Template {
	return &Template{
		config:    config,
		satellite: set.Satellite,
		history:   set.History,
		claims:    set.Claims,
		logger:    log.WithFields(map[string]interface{}{"template": TaskType}),
	}
}

func (t *Template) Name() string { return TaskType }

func (t *Template) Arity() int { return arity }

func (t *Template) Identifiers(args pipeline.Args) map[string]interface{} {
	return map[string]interface{}{
		"claimId": args.String(0),
		"farmer":  args.String(1),
	}
}

func (t *Template) normalize(args pipeline.Args) (*Request, error) {
	if err := args.Require(arity); err != nil {
		return nil, err
	}

	req := &Request{
		ClaimID:    args.String(0),
		Farmer:     args.String(1),
		CropType:   args.String(2),
		DamageType: args.String(3),
		Location:   args.String(5),
	}
	var err error
	if req.ClaimAmount, err = args.Float(4, "claimAmount"); err != nil {
		return nil, err
	}
	if req.Latitude, err = args.Float(6, "latitude"); err != nil {
		return nil, err
	}
	if req.Longitude, err = args.Float(7, "longitude"); err != nil {
		return nil, err
	}
	if req.IncidentDate, err = args.Int64(8, "incidentDate"); err != nil {
		return nil, err
	}

	weather, substituted := pipeline.DecodeJSONOrDefault(args.Raw(9), models.DefaultInsuranceWeather())
	if substituted {
		t.logger.Debug("weather unreadable, using defaults", map[string]interface{}{"raw": args.Raw(9)})
	}
	req.Weather = weather

	return req, nil
}

func (t *Template) Build(ctx context.Context, inv *pipeline.Invocation) (interface{}, error) {
	req, err := t.normalize(inv.Args)
	if err != nil {
		return nil, err
	}
	damageType := strings.ToLower(req.DamageType)
	loc := models.Location{Name: req.Location, Latitude: req.Latitude, Longitude: req.Longitude}
	incident := req.incidentTime()

	imagery, err := t.satellite.Imagery(ctx, loc, models.DateRange{
		From: incident.Add(-t.config.SatelliteLookback),
		To:   inv.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("satellite imagery: %w", err)
	}
	incidents, err := t.history.Incidents(ctx, loc, req.CropType, req.DamageType)
	if err != nil {
		return nil, fmt.Errorf("incident history: %w", err)
	}
	signals, err := t.claims.Signals(ctx, req.ClaimID, req.Farmer, incident)
	if err != nil {
		return nil, fmt.Errorf("claim signals: %w", err)
	}

	satellite := analyzeSatellite(imagery)
	verification := verifyWeather(damageType, req.Weather)
	historical := compareHistory(incidents)
	damage := assessDamage(damageType, satellite, verification)
	validation := validateClaim(req.ClaimAmount, t.config.BaseCropValue, damage, historical)
	fraud := detectFraud(damageType, verification, signals)
	settlement := settle(validation, damage, fraud)
	risk := assessFutureRisk(strings.ToLower(req.CropType), verification)

	status := "Rejected"
	if settlement.Approved {
		status = "Approved"
	}
	now := inv.NowMillis()

	return &Report{
		Claim: ClaimInfo{
			ID:              req.ClaimID,
			Farmer:          req.Farmer,
			CropType:        req.CropType,
			DamageType:      req.DamageType,
			RequestedAmount: req.ClaimAmount,
			Status:          status,
		},
		Location: LocationInfo{
			Coordinates:       loc.Coordinates(),
			Area:              req.Location,
			SatelliteCoverage: satellite.Coverage,
		},
		Satellite: satellite,
		Weather: WeatherInfo{
			Conditions:   req.Weather,
			Verification: verification,
			Correlation:  correlateDamage(damageType, req.Weather),
		},
		Damage:          damage,
		Validation:      validation,
		Historical:      historical,
		Fraud:           fraud,
		Settlement:      settlement,
		Risk:            risk,
		Recommendations: insuranceRecommendations(settlement, risk),
		Metadata: Metadata{
			Timestamp:      now,
			IncidentDate:   req.IncidentDate,
			ProcessingTime: now - req.IncidentDate,
			DataSources:    dataSources,
		},
	}, nil
}
