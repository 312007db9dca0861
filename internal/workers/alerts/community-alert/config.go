package communityalert

import (
	"time"

	"agri-report-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	HistoryWindow time.Duration
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:       30 * time.Second,
		HistoryWindow: 365 * 24 * time.Hour,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
