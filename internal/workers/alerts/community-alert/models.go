package communityalert

import "agri-report-workers/internal/models"

type Input struct {
	Args []string `json:"args"`
}

type Output struct {
	Report   string `json:"report"`
	ReportID string `json:"reportId"`
	Error    bool   `json:"error"`
}

// Request is the normalized argument list.
type Request struct {
	DiseaseType string
	Severity    int
	Location    string
	Latitude    float64
	Longitude   float64
	Radius      int
	Crops       []string
	Weather     models.WeatherConditions
}

type Report struct {
	Alert         AlertInfo            `json:"alert"`
	Disease       DiseaseInfo          `json:"disease"`
	Location      LocationInfo         `json:"location"`
	Weather       WeatherInfo          `json:"weather"`
	Impact        Impact               `json:"impact"`
	Notifications NotificationStrategy `json:"notifications"`
	Prevention    []string             `json:"prevention"`
	Response      ResponseActions      `json:"response"`
	Metadata      Metadata             `json:"metadata"`

	priority models.AggregateScore
	notice   models.AlertNotice
}

func (r *Report) AggregateScore() models.AggregateScore { return r.priority }

// AlertNotice is sent for every priority above Low.
func (r *Report) AlertNotice() (models.AlertNotice, bool) {
	return r.notice, r.priority.Level != models.LevelLow
}

type AlertInfo struct {
	Type          string                `json:"type"`
	Priority      models.Level          `json:"priority"`
	PriorityScore models.AggregateScore `json:"priorityScore"`
	Severity      int                   `json:"severity"`
	Status        string                `json:"status"`
	Timestamp     int64                 `json:"timestamp"`
}

type DiseaseInfo struct {
	Type          string               `json:"type"`
	Risk          models.CategoryScore `json:"risk"`
	AffectedCrops []string             `json:"affectedCrops"`
	Symptoms      []string             `json:"symptoms"`
	Transmission  string               `json:"transmission"`
}

type LocationInfo struct {
	Coordinates models.Coordinates `json:"coordinates"`
	Radius      int                `json:"radius"`
	Area        float64            `json:"area"`
	Spread      SpreadAnalysis     `json:"spread"`
}

type SpreadFactors struct {
	WindSpread   string `json:"windSpread"`
	WaterSpread  string `json:"waterSpread"`
	HumanSpread  string `json:"humanSpread"`
	AnimalSpread string `json:"animalSpread"`
}

type SpreadAnalysis struct {
	Factors               SpreadFactors `json:"factors"`
	EffectiveRadius       int           `json:"effectiveRadius"`
	SpreadDirection       string        `json:"spreadDirection"`
	ContainmentDifficulty string        `json:"containmentDifficulty"`
}

type WeatherCorrelation struct {
	Favorable   []string `json:"favorable"`
	Unfavorable []string `json:"unfavorable"`
	Neutral     []string `json:"neutral"`
	Overall     string   `json:"overall"`
}

type WeatherInfo struct {
	Conditions  models.WeatherConditions `json:"conditions"`
	Correlation WeatherCorrelation       `json:"correlation"`
	RiskFactors []string                 `json:"riskFactors"`
}

type PopulationImpact struct {
	TotalArea        int    `json:"totalArea"`
	AgriculturalArea int    `json:"agriculturalArea"`
	EstimatedFarmers int    `json:"estimatedFarmers"`
	AffectedCrops    int    `json:"affectedCrops"`
	CropDiversity    string `json:"cropDiversity"`
}

type EconomicImpact struct {
	EstimatedLoss   int64  `json:"estimatedLoss"`
	LossPerFarmer   int    `json:"lossPerFarmer"`
	InsuranceImpact string `json:"insuranceImpact"`
	MarketImpact    string `json:"marketImpact"`
}

type OutbreakSummary struct {
	Frequency       int     `json:"frequency"`
	LastOutbreak    int64   `json:"lastOutbreak"`
	AverageSeverity float64 `json:"averageSeverity"`
	EconomicLoss    float64 `json:"economicLoss"`
}

type HistoricalData struct {
	Outbreaks  OutbreakSummary `json:"outbreaks"`
	Trend      string          `json:"trend"`
	RiskPeriod string          `json:"riskPeriod"`
}

type Impact struct {
	Population PopulationImpact `json:"population"`
	Economic   EconomicImpact   `json:"economic"`
	Historical HistoricalData   `json:"historical"`
}

type NotificationStrategy struct {
	Immediate []string `json:"immediate"`
	Delayed   []string `json:"delayed"`
	Channels  []string `json:"channels"`
	Frequency string   `json:"frequency"`
}

type ResponseActions struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
}

type Metadata struct {
	Location    string   `json:"location"`
	Timestamp   int64    `json:"timestamp"`
	DataSources []string `json:"dataSources"`
}
