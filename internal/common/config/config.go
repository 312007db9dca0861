// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Kafka         KafkaConfig             `mapstructure:"kafka"`
	Providers     ProvidersConfig         `mapstructure:"providers"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Pipeline      PipelineConfig          `mapstructure:"pipeline"`
	API           APIConfig               `mapstructure:"api"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses   []string `mapstructure:"addresses"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	URL         string   `mapstructure:"url"` // Single URL for backwards compatibility
	ReportIndex string   `mapstructure:"report_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig configures the report publication sink.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Data Providers ---

// EndpointConfig describes one outbound HTTP data provider.
type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds, per call
	// AllowedHosts lists extra host[:port] values a request may name as its own
	// base URL. The configured base URL host is always allowed.
	AllowedHosts []string `mapstructure:"allowed_hosts"`
}

type ProvidersConfig struct {
	Weather    EndpointConfig `mapstructure:"weather"`
	Inference  EndpointConfig `mapstructure:"inference"`
	CoinGecko  EndpointConfig `mapstructure:"coingecko"`
	Cache      CacheConfig    `mapstructure:"cache"`
	Simulation struct {
		Seed int64 `mapstructure:"seed"` // 0 seeds from the clock
	} `mapstructure:"simulation"`
	ClaimSignals struct {
		UsePostgres bool `mapstructure:"use_postgres"`
	} `mapstructure:"claim_signals"`
}

// CacheConfig controls the Redis decorator around simulated readings.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTL     int  `mapstructure:"ttl"` // milliseconds
}

// NotificationConfig holds settings for the community-alert notification sink.
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	SES     struct {
		FromEmail  string   `mapstructure:"from_email"`
		Recipients []string `mapstructure:"recipients"`
	} `mapstructure:"ses"`
	SNS struct {
		TopicARN string `mapstructure:"topic_arn"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sns"`
}

// PipelineConfig holds report assembly settings.
type PipelineConfig struct {
	RegistryPath    string `mapstructure:"registry_path"`
	ValidateReports bool   `mapstructure:"validate_reports"`
	ArchiveReports  bool   `mapstructure:"archive_reports"`
	IndexReports    bool   `mapstructure:"index_reports"`
}

// APIConfig configures the report HTTP API.
type APIConfig struct {
	Address     string `mapstructure:"address"`
	BodyLimitKB int    `mapstructure:"body_limit_kb"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig enables span export to a Jaeger collector.
type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}
