package insuranceverification

import (
	"time"

	"agri-report-workers/internal/models"
)

type Input struct {
	Args []string `json:"args"`
}

type Output struct {
	Report   string `json:"report"`
	ReportID string `json:"reportId"`
	Error    bool   `json:"error"`
}

type Request struct {
	ClaimID      string
	Farmer       string
	CropType     string
	DamageType   string
	ClaimAmount  float64
	Location     string
	Latitude     float64
	Longitude    float64
	IncidentDate int64
	Weather      models.WeatherConditions
}

func (r *Request) incidentTime() time.Time {
	return time.UnixMilli(r.IncidentDate).UTC()
}

type Report struct {
	Claim           ClaimInfo            `json:"claim"`
	Location        LocationInfo         `json:"location"`
	Satellite       SatelliteAnalysis    `json:"satellite"`
	Weather         WeatherInfo          `json:"weather"`
	Damage          DamageAssessment     `json:"damage"`
	Validation      ClaimValidation      `json:"validation"`
	Historical      HistoricalComparison `json:"historical"`
	Fraud           FraudAnalysis        `json:"fraud"`
	Settlement      Settlement           `json:"settlement"`
	Risk            FutureRisk           `json:"risk"`
	Recommendations []string             `json:"recommendations"`
	Metadata        Metadata             `json:"metadata"`
}

type ClaimInfo struct {
	ID              string  `json:"id"`
	Farmer          string  `json:"farmer"`
	CropType        string  `json:"cropType"`
	DamageType      string  `json:"damageType"`
	RequestedAmount float64 `json:"requestedAmount"`
	Status          string  `json:"status"`
}

type LocationInfo struct {
	Coordinates       models.Coordinates `json:"coordinates"`
	Area              string             `json:"area"`
	SatelliteCoverage string             `json:"satelliteCoverage"`
}

type SatelliteAnalysis struct {
	Coverage           string  `json:"coverage"`
	Resolution         string  `json:"resolution"`
	BeforeNDVI         float64 `json:"beforeNDVI"`
	AfterNDVI          float64 `json:"afterNDVI"`
	VegetationLoss     int     `json:"vegetationLoss"`
	DamageVisible      bool    `json:"damageVisible"`
	CloudCover         float64 `json:"cloudCover"`
	ImageQuality       string  `json:"imageQuality"`
	AnalysisConfidence float64 `json:"analysisConfidence"`
	CapturedAt         int64   `json:"capturedAt"`
}

type WeatherVerification struct {
	EventType   string       `json:"eventType"`
	Severity    models.Level `json:"severity"`
	Correlation int          `json:"correlation"`
	Verified    bool         `json:"verified"`
	Factors     []string     `json:"factors"`
}

type DamageCorrelation struct {
	Strong   []string `json:"strong"`
	Moderate []string `json:"moderate"`
	Weak     []string `json:"weak"`
	Overall  string   `json:"overall"`
}

type WeatherInfo struct {
	Conditions   models.WeatherConditions `json:"conditions"`
	Verification WeatherVerification      `json:"verification"`
	Correlation  DamageCorrelation        `json:"correlation"`
}

type HistoricalComparison struct {
	HistoricalIncidents int          `json:"historicalIncidents"`
	AverageLoss         float64      `json:"averageLoss"`
	Frequency           models.Level `json:"frequency"`
	Trend               string       `json:"trend"`
	RiskLevel           models.Level `json:"riskLevel"`
}

type DamageAssessment struct {
	Percentage int     `json:"percentage"`
	Confidence float64 `json:"confidence"`
	Severity   string  `json:"severity"`
	Verified   bool    `json:"verified"`
}

type ClaimValidation struct {
	Reasonable        bool    `json:"reasonable"`
	Overvalued        bool    `json:"overvalued"`
	Undervalued       bool    `json:"undervalued"`
	RecommendedAmount float64 `json:"recommendedAmount"`
	Confidence        int     `json:"confidence"`
}

type FraudAnalysis struct {
	Score      int          `json:"score"`
	Risk       models.Level `json:"risk"`
	Indicators []string     `json:"indicators"`
	Flagged    bool         `json:"flagged"`
}

type Settlement struct {
	Approved   bool     `json:"approved"`
	Amount     float64  `json:"amount"`
	Reason     string   `json:"reason"`
	Conditions []string `json:"conditions"`
}

type FutureRisk struct {
	Score           int          `json:"score"`
	Level           models.Level `json:"level"`
	Factors         []string     `json:"factors"`
	Recommendations []string     `json:"recommendations"`
}

type Metadata struct {
	Timestamp      int64    `json:"timestamp"`
	IncidentDate   int64    `json:"incidentDate"`
	ProcessingTime int64    `json:"processingTime"`
	DataSources    []string `json:"dataSources"`
}
