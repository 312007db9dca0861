package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"agri-report-workers/internal/common/config"
	commonhttp "agri-report-workers/internal/common/http"
	"agri-report-workers/internal/models"
)

const inferenceProvider = "inference"

// Inference calls the disease detection backend.
// The API key is only sent to the configured base URL. A request naming its
// own base URL must point at an allowed host.
type Inference struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
	allowed map[string]bool
	timeout time.Duration
}

func NewInference(cfg config.EndpointConfig) *Inference {
	timeout := endpointTimeout(cfg.Timeout)
	inf := &Inference{
		http:    commonhttp.NewClient(timeout),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		allowed: make(map[string]bool),
		timeout: timeout,
	}
	if u, err := url.Parse(inf.baseURL); err == nil && u.Host != "" {
		inf.allowed[strings.ToLower(u.Host)] = true
	}
	for _, h := range cfg.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			inf.allowed[h] = true
		}
	}
	return inf
}

// resolveBase returns the base URL to call for override, rejecting hosts that
// are not allowed.
func (i *Inference) resolveBase(override string) (string, error) {
	if override == "" {
		return i.baseURL, nil
	}
	base := strings.TrimRight(override, "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid inference base URL %q", override)
	}
	host := strings.ToLower(u.Host)
	if !i.allowed[host] && !i.allowed[strings.ToLower(u.Hostname())] {
		return "", fmt.Errorf("inference host %q is not allowed", u.Host)
	}
	return base, nil
}

type treatmentResponse struct {
	EffectivenessScore float64            `json:"effectivenessScore"`
	ImprovementMetrics map[string]float64 `json:"improvementMetrics"`
	DiseaseStatus      string             `json:"diseaseStatus"`
}

func (i *Inference) DetectDisease(ctx context.Context, req DetectionRequest) (models.DiseaseDetection, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	base, err := i.resolveBase(req.BaseURL)
	if err != nil {
		return models.DiseaseDetection{}, wrapError(inferenceProvider, err)
	}
	token := ""
	if base == i.baseURL {
		token = i.apiKey
	}

	var resp models.DiseaseDetection
	err = i.http.PostJSON(ctx, base+"/api/disease-detection", req, &resp, commonhttp.WithBearer(token))
	if err := wrapError(inferenceProvider, err); err != nil {
		return models.DiseaseDetection{}, err
	}
	return resp, nil
}

func (i *Inference) AnalyzeTreatment(ctx context.Context, req TreatmentRequest) (models.TreatmentAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	var resp treatmentResponse
	err := i.http.PostJSON(ctx, i.baseURL+"/api/analyze-treatment", req, &resp, commonhttp.WithBearer(i.apiKey))
	if err := wrapError(inferenceProvider, err); err != nil {
		return models.TreatmentAnalysis{}, err
	}
	status := resp.DiseaseStatus
	if status == "" {
		status = "unknown"
	}
	metricsOut := resp.ImprovementMetrics
	if metricsOut == nil {
		metricsOut = map[string]float64{}
	}
	return models.TreatmentAnalysis{
		EffectivenessScore: resp.EffectivenessScore,
		ImprovementMetrics: metricsOut,
		DiseaseStatus:      status,
	}, nil
}
