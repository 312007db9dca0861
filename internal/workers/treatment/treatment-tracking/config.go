package treatmenttracking

import (
	"time"

	"agri-report-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	BaseReward int
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:    30 * time.Second,
		BaseReward: 25,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
