package delivery

import (
	"database/sql"

	"agri-report-workers/internal/common/aws"
	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/logger"
)

// Backends are the already-connected clients sinks can be built on. Nil
// entries disable the matching sink.
type Backends struct {
	DB     *sql.DB
	Search DocumentIndexer
	SNS    *aws.SNSClient
	SES    *aws.SESClient
}

// FromConfig assembles the sinks enabled by configuration.
func FromConfig(cfg *config.Config, b Backends, log logger.Logger) *Fanout {
	var sinks []Sink

	if cfg.Pipeline.ArchiveReports && b.DB != nil {
		sinks = append(sinks, NewArchive(b.DB))
	}
	if cfg.Pipeline.IndexReports && b.Search != nil {
		index := cfg.Database.Elasticsearch.ReportIndex
		if index == "" {
			index = DefaultReportIndex
		}
		sinks = append(sinks, NewSearchIndex(b.Search, index))
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		sinks = append(sinks, NewPublisher(cfg.Kafka))
	}
	if cfg.Notifications.Enabled && (b.SNS != nil || b.SES != nil) {
		sinks = append(sinks, NewNotifier(b.SNS, b.SES, NotifierConfig{
			TopicARN:   cfg.Notifications.SNS.TopicARN,
			From:       cfg.Notifications.SES.FromEmail,
			Recipients: cfg.Notifications.SES.Recipients,
		}))
	}

	f := NewFanout(log, sinks...)
	log.Info("report sinks configured", map[string]interface{}{"sinks": f.Sinks()})
	return f
}

// DefaultReportIndex is used when no index name is configured.
const DefaultReportIndex = "agri-reports"
