package treatmenttracking

import (
	"context"
	"strings"

	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
)

const arity = 7

// Template scores how well a treatment worked and the bonus it earns.
type Template struct {
	config    *Config
	inference providers.InferenceProvider
	logger    logger.Logger
}

func NewTemplate(config *Config, set *providers.Set, log logger.Logger) *Template {
	return &Template{
		config:    config,
		inference: set.Inference,
		logger:    log.WithFields(map[string]interface{}{"template": TaskType}),
	}
}

func (t *Template) Name() string { return TaskType }

func (t *Template) Arity() int { return arity }

func (t *Template) Identifiers(args pipeline.Args) map[string]interface{} {
	return map[string]interface{}{
		"cropId":        args.String(0),
		"treatmentType": args.String(1),
	}
}

func (t *Template) normalize(args pipeline.Args) (*Request, error) {
	if err := args.Require(arity); err != nil {
		return nil, err
	}
	req := &Request{
		CropID:        args.String(0),
		TreatmentType: args.String(1),
		BeforeImage:   args.String(3),
		AfterImage:    args.String(4),
	}
	var err error
	if req.Progress, err = args.Int(2, "treatmentProgress"); err != nil {
		return nil, err
	}
	if req.DurationDays, err = args.Int(5, "treatmentDuration"); err != nil {
		return nil, err
	}

	weather, substituted := pipeline.DecodeJSONOrDefault(args.Raw(6), models.DefaultTreatmentWeather())
	if substituted {
		t.logger.Debug("weather unreadable, using defaults", map[string]interface{}{"raw": args.Raw(6)})
	}
	req.Weather = weather
	return req, nil
}

// analyze asks the inference backend to compare the images. Failures leave a
// zero score and an unknown status.
func (t *Template) analyze(ctx context.Context, req *Request) models.TreatmentAnalysis {
	analysis, err := t.inference.AnalyzeTreatment(ctx, providers.TreatmentRequest{
		BeforeImage:   req.BeforeImage,
		AfterImage:    req.AfterImage,
		TreatmentType: req.TreatmentType,
		Progress:      req.Progress,
	})
	if err != nil {
		t.logger.Warn("treatment analysis unavailable", map[string]interface{}{
			"cropId": req.CropID,
			"error":  err.Error(),
		})
		analysis = models.TreatmentAnalysis{}
	}
	if analysis.DiseaseStatus == "" {
		analysis.DiseaseStatus = "unknown"
	}
	if analysis.ImprovementMetrics == nil {
		analysis.ImprovementMetrics = map[string]float64{}
	}
	return analysis
}

func (t *Template) Build(ctx context.Context, inv *pipeline.Invocation) (interface{}, error) {
	req, err := t.normalize(inv.Args)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(req.TreatmentType)
	analysis := t.analyze(ctx, req)

	eff := effectiveness(req.Progress,
		weatherCompliance(req.Weather, key),
		timeEfficiency(req.DurationDays, key),
		analysis.EffectivenessScore,
	)
	success := successMetrics(req.Progress, eff, key, req.Weather)

	return &Report{
		Treatment: TreatmentInfo{
			Type:          req.TreatmentType,
			Progress:      req.Progress,
			Duration:      req.DurationDays,
			Effectiveness: eff,
			Analysis:      analyzeTreatmentType(req.TreatmentType, key, eff.OverallScore),
		},
		Weather: WeatherInfo{
			Conditions: req.Weather,
			Impact:     assessWeatherImpact(req.Weather, key),
			Compliance: eff.WeatherCompliance,
		},
		Success:         success,
		Rewards:         bonusRewards(t.config.BaseReward, eff, success),
		Recommendations: treatmentRecommendations(eff, success, req.Weather),
		Disease: DiseaseStatus{
			Status:      analysis.DiseaseStatus,
			Improvement: analysis.ImprovementMetrics,
		},
		Metadata: Metadata{
			CropID:        req.CropID,
			Timestamp:     inv.NowMillis(),
			TreatmentType: req.TreatmentType,
			BeforeImage:   req.BeforeImage,
			AfterImage:    req.AfterImage,
		},
	}, nil
}
