// internal/models/scores.go
package models

// Level is the four-tier classification shared by every scorer.
type Level string

const (
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// LevelFor maps a raw score onto the 80/60/40 bands. Thresholds are strict.
func LevelFor(raw float64) Level {
	switch {
	case raw > 80:
		return LevelCritical
	case raw > 60:
		return LevelHigh
	case raw > 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// CategoryScore is the output of one independent scorer.
type CategoryScore struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Factors []string `json:"factors"`
}

// AggregateScore is the weighted combination of category scores.
type AggregateScore struct {
	Score      int                `json:"score"`
	Raw        float64            `json:"raw"`
	Level      Level              `json:"level"`
	Components map[string]float64 `json:"components"`
}
