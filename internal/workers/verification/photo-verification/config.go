package photoverification

import (
	"time"

	"agri-report-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// TrendLookback is how far back the humidity trend compares against.
	TrendLookback time.Duration
	// ImageryWindow bounds the satellite pass used for correlation.
	ImageryWindow time.Duration
	BaseReward    int
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:       30 * time.Second,
		TrendLookback: 24 * time.Hour,
		ImageryWindow: 7 * 24 * time.Hour,
		BaseReward:    5,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
