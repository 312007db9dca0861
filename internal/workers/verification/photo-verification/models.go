package photoverification

import "agri-report-workers/internal/models"

type Input struct {
	Args []string `json:"args"`
}

type Output struct {
	Report   string `json:"report"`
	ReportID string `json:"reportId"`
	Error    bool   `json:"error"`
}

type Request struct {
	ImageHash        string
	CropType         string
	Location         string
	Latitude         float64
	Longitude        float64
	InferenceBaseURL string
}

const healthy = "Healthy"

// Diagnosis classifies the detection result. A missing disease name is neither
// diseased nor healthy.
type Diagnosis struct {
	Disease string
}

func (d Diagnosis) Diseased() bool { return d.Disease != "" && d.Disease != healthy }

func (d Diagnosis) Healthy() bool { return d.Disease == healthy }

type Report struct {
	Disease      string              `json:"disease"`
	Confidence   float64             `json:"confidence"`
	AIAnalysis   AIAnalysis          `json:"aiAnalysis"`
	Weather      WeatherAnalysis     `json:"weather"`
	Satellite    SatelliteSnapshot   `json:"satellite"`
	Verification Verification        `json:"verification"`
	Rewards      Rewards             `json:"rewards"`
	Community    CommunityAssessment `json:"community"`
	Metadata     Metadata            `json:"metadata"`

	aggregate models.AggregateScore
}

func (r *Report) AggregateScore() models.AggregateScore {
	return r.aggregate
}

type AIAnalysis struct {
	Disease                 string  `json:"disease"`
	Confidence              float64 `json:"confidence"`
	Severity                float64 `json:"severity"`
	TreatmentRecommendation string  `json:"treatmentRecommendation"`
}

type WeatherAnalysis struct {
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
	Pressure    float64      `json:"pressure"`
	RiskScore   float64      `json:"riskScore"`
	RiskLevel   models.Level `json:"riskLevel"`
	Trend       string       `json:"trend"`
}

type SatelliteSnapshot struct {
	VegetationIndex float64 `json:"vegetationIndex"`
	SoilMoisture    float64 `json:"soilMoisture"`
	CloudCover      float64 `json:"cloudCover"`
	LastImageDate   int64   `json:"lastImageDate"`
}

type Verification struct {
	Score      int                `json:"score"`
	Verified   bool               `json:"verified"`
	Level      models.Level       `json:"level"`
	Factors    map[string]float64 `json:"factors"`
	FraudScore int                `json:"fraudScore"`
	FraudFlags []string           `json:"fraudFlags"`
}

type Rewards struct {
	BaseReward  int     `json:"baseReward"`
	BonusReward int     `json:"bonusReward"`
	Multiplier  float64 `json:"multiplier"`
	TotalReward int     `json:"totalReward"`
}

type CommunityAssessment struct {
	ShouldAlert   bool   `json:"shouldAlert"`
	AlertSeverity int    `json:"alertSeverity"`
	Location      string `json:"location"`
}

type Metadata struct {
	Timestamp   int64              `json:"timestamp"`
	ImageHash   string             `json:"imageHash"`
	CropType    string             `json:"cropType"`
	Location    string             `json:"location"`
	Coordinates models.Coordinates `json:"coordinates"`
}
