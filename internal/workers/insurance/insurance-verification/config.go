package insuranceverification

import (
	"time"

	"agri-report-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// SatelliteLookback is how far before the incident the imagery window starts.
	SatelliteLookback time.Duration
	// BaseCropValue is the insured value a 100% loss is worth.
	BaseCropValue float64
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:           30 * time.Second,
		SatelliteLookback: 30 * 24 * time.Hour,
		BaseCropValue:     100000,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
