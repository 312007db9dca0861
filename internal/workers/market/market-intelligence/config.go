package marketintelligence

import (
	"time"

	"agri-report-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	ForecastDays int
	// MarketWindow is the lookback for the market snapshot.
	MarketWindow time.Duration
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:      30 * time.Second,
		ForecastDays: 7,
		MarketWindow: 7 * 24 * time.Hour,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
