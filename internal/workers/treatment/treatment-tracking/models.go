package treatmenttracking

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
	CropID        string
	TreatmentType string
	Progress      int
	BeforeImage   string
	AfterImage    string
	DurationDays  int
	Weather       models.TreatmentWeather
}

type Report struct {
	Treatment       TreatmentInfo  `json:"treatment"`
	Weather         WeatherInfo    `json:"weather"`
	Success         SuccessMetrics `json:"success"`
	Rewards         BonusRewards   `json:"rewards"`
	Recommendations []string       `json:"recommendations"`
	Disease         DiseaseStatus  `json:"disease"`
	Metadata        Metadata       `json:"metadata"`
}

func (r *Report) AggregateScore() models.AggregateScore {
	return r.Treatment.Effectiveness.Overall
}

type TreatmentInfo struct {
	Type          string            `json:"type"`
	Progress      int               `json:"progress"`
	Duration      int               `json:"duration"`
	Effectiveness Effectiveness     `json:"effectiveness"`
	Analysis      TreatmentAnalysis `json:"analysis"`
}

type Effectiveness struct {
	ProgressScore     float64               `json:"progressScore"`
	WeatherCompliance float64               `json:"weatherCompliance"`
	TimeEfficiency    float64               `json:"timeEfficiency"`
	AIEffectiveness   float64               `json:"aiEffectiveness"`
	OverallScore      float64               `json:"overallScore"`
	Overall           models.AggregateScore `json:"overall"`
}

type TreatmentAnalysis struct {
	Type            string   `json:"type"`
	Effectiveness   float64  `json:"effectiveness"`
	Category        string   `json:"category"`
	Recommendations []string `json:"recommendations"`
}

type WeatherImpact struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	Neutral  []string `json:"neutral"`
	Overall  string   `json:"overall"`
}

type WeatherInfo struct {
	Conditions models.TreatmentWeather `json:"conditions"`
	Impact     WeatherImpact           `json:"impact"`
	Compliance float64                 `json:"compliance"`
}

type CostEffectiveness struct {
	Cost          float64 `json:"cost"`
	Effectiveness float64 `json:"effectiveness"`
	Ratio         float64 `json:"ratio"`
	Rating        string  `json:"rating"`
}

type EnvironmentalImpact struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
	Rating  string   `json:"rating"`
}

type SuccessMetrics struct {
	DiseaseReduction    string              `json:"diseaseReduction"`
	RecoveryRate        string              `json:"recoveryRate"`
	CostEffectiveness   CostEffectiveness   `json:"costEffectiveness"`
	EnvironmentalImpact EnvironmentalImpact `json:"environmentalImpact"`
}

type BonusRewards struct {
	BaseReward      int      `json:"baseReward"`
	BonusMultiplier float64  `json:"bonusMultiplier"`
	TotalReward     int      `json:"totalReward"`
	Reasons         []string `json:"reasons"`
}

type DiseaseStatus struct {
	Status      string             `json:"status"`
	Improvement map[string]float64 `json:"improvement"`
}

type Metadata struct {
	CropID        string `json:"cropId"`
	Timestamp     int64  `json:"timestamp"`
	TreatmentType string `json:"treatmentType"`
	BeforeImage   string `json:"beforeImage"`
	AfterImage    string `json:"afterImage"`
}
